package ui

import "testing"

var parseStylingTests = []struct {
	s    string
	want Style
}{
	{"bold", Style{Bold: true}},
	{"strikethrough", Style{Strikethrough: true}},
	{"fg-red", Style{Foreground: Red}},
	{"red", Style{Foreground: Red}},
	{"bg-bright-blue", Style{Background: BrightBlue}},
	{"fg-color33", Style{Foreground: XTerm256Color(33)}},
	{"bold dim", Style{Bold: true, Dim: true}},
	{"bold no-bold", Style{}},
	{"toggle-inverse", Style{Inverse: true}},
}

func TestParseStyling(t *testing.T) {
	for _, test := range parseStylingTests {
		styling := ParseStyling(test.s)
		if styling == nil {
			t.Errorf("ParseStyling(%q) returns nil", test.s)
			continue
		}
		if got := ApplyStyling(Style{}, styling); got != test.want {
			t.Errorf("ParseStyling(%q) applied => %v, want %v", test.s, got, test.want)
		}
	}
}

func TestParseStyling_Invalid(t *testing.T) {
	for _, s := range []string{"", "fg-nope", "bold nope", "no-red"} {
		if styling := ParseStyling(s); styling != nil {
			t.Errorf("ParseStyling(%q) => %v, want nil", s, styling)
		}
	}
}

func TestSGR(t *testing.T) {
	style := Style{Bold: true, Strikethrough: true, Foreground: BrightBlack}
	if got, want := style.SGR(), "1;9;90"; got != want {
		t.Errorf("SGR() = %q, want %q", got, want)
	}
}
