package testutil

import (
	"testing"
	"time"
)

var scaledTests = []struct {
	name string
	env  string
	d    time.Duration

	want time.Duration
}{
	{"default 10ms", "", 10 * time.Millisecond, 10 * time.Millisecond},

	{"2x 10ms", "2", 10 * time.Millisecond, 20 * time.Millisecond},
	{"2x 3s", "2", 3 * time.Second, 6 * time.Second},
	{"0.5x 10ms", "0.5", 10 * time.Millisecond, 5 * time.Millisecond},

	{"invalid treated as 1", "a", 10 * time.Millisecond, 10 * time.Millisecond},
	{"0 treated as 1", "0", 10 * time.Millisecond, 10 * time.Millisecond},
	{"negative treated as 1", "-1", 10 * time.Millisecond, 10 * time.Millisecond},
}

func TestScaled(t *testing.T) {
	for _, test := range scaledTests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv(TimeScaleEnv, test.env)
			got := Scaled(test.d)
			if got != test.want {
				t.Errorf("got %v, want %v", got, test.want)
			}
		})
	}
}

func TestSet(t *testing.T) {
	x := 1
	t.Run("inner", func(t *testing.T) {
		Set(t, &x, 2)
		if x != 2 {
			t.Errorf("x = %d during test, want 2", x)
		}
	})
	if x != 1 {
		t.Errorf("x = %d after test, want 1", x)
	}
}
