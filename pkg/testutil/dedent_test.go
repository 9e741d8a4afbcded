package testutil

import "testing"

var dedentTests = []struct {
	name string
	in   string
	out  string
}{
	{"no leading newline", " \n  foo\n bar", "\n foo\nbar"},
	{
		name: "leading newline",
		in: `
			a
			 b
			c`,
		out: "a\n b\nc",
	},
	{
		name: "trailing newline",
		in: `
			a
			c
			`,
		out: "a\nc\n",
	},
	{"mixed indentation", "\ta\n  b", "\ta\n  b"},
}

func TestDedent(t *testing.T) {
	for _, test := range dedentTests {
		t.Run(test.name, func(t *testing.T) {
			if got := Dedent(test.in); got != test.out {
				t.Errorf("Dedent(%q) = %q, want %q", test.in, got, test.out)
			}
		})
	}
}
