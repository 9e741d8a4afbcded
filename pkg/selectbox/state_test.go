package selectbox

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func countries() []Option {
	return []Option{
		{ID: "1", Text: "Costa Rica"},
		{ID: "2", Text: "Panamá", Selected: true},
		{ID: "3", Text: "Nicaragua", Disabled: true},
		{ID: "4", Text: "El Salvador"},
		{ID: "5", Text: "Honduras"},
		{ID: "6", Text: "Guatemala"},
		{ID: "7", Text: "Belice"},
	}
}

func ids(opts []Option) []string {
	var s []string
	for _, opt := range opts {
		s = append(s, opt.ID)
	}
	return s
}

func selectedFlags(s State) []string {
	var flagged []string
	for _, opt := range s.Options() {
		if opt.Selected {
			flagged = append(flagged, opt.ID)
		}
	}
	return flagged
}

func TestSingle_LoadAndSelect(t *testing.T) {
	s := NewSingle()
	s.Load(countries(), false)
	if diff := cmp.Diff([]string{"2"}, s.Values()); diff != "" {
		t.Errorf("Values after Load (-want +got):\n%s", diff)
	}

	if err := s.Select("4"); err != nil {
		t.Fatalf("Select -> %v", err)
	}
	if diff := cmp.Diff([]string{"4"}, s.Values()); diff != "" {
		t.Errorf("Values after Select (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"4"}, selectedFlags(s)); diff != "" {
		t.Errorf("Selected flags (-want +got):\n%s", diff)
	}
	if s.IsSelected("2") || !s.IsSelected("4") {
		t.Errorf("IsSelected inconsistent with Values")
	}
	if v, ok := s.Value(); v != "4" || !ok {
		t.Errorf("Value -> %q, %v", v, ok)
	}
	if diff := cmp.Diff([]Option{{ID: "4", Text: "El Salvador", Selected: true}}, s.Items()); diff != "" {
		t.Errorf("Items (-want +got):\n%s", diff)
	}
}

func TestSingle_LoadKeepsFirstSelectable(t *testing.T) {
	s := NewSingle()
	s.Load([]Option{
		{ID: "a", Text: "A", Selected: true, Disabled: true},
		{ID: "b", Text: "B", Selected: true},
		{ID: "c", Text: "C", Selected: true},
	}, true)
	if diff := cmp.Diff([]string{"b"}, s.Values()); diff != "" {
		t.Errorf("Values (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b"}, selectedFlags(s)); diff != "" {
		t.Errorf("Selected flags (-want +got):\n%s", diff)
	}
	if !s.More() || s.Cursor() != 3 {
		t.Errorf("More, Cursor -> %v, %d; want true, 3", s.More(), s.Cursor())
	}
}

func TestSingle_Deselect(t *testing.T) {
	s := NewSingle()
	s.Load(countries(), false)

	if err := s.Deselect("1"); err != nil {
		t.Errorf("Deselect of unselected option -> %v", err)
	}
	if diff := cmp.Diff([]string{"2"}, s.Values()); diff != "" {
		t.Errorf("Deselect of another option changed Values (-want +got):\n%s", diff)
	}
	if err := s.Deselect("2"); err != nil {
		t.Errorf("Deselect -> %v", err)
	}
	if s.Values() != nil || selectedFlags(s) != nil {
		t.Errorf("Values, flags after Deselect -> %v, %v", s.Values(), selectedFlags(s))
	}
	if err := s.Deselect("99"); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("Deselect of unknown option -> %v", err)
	}
}

func TestMultiple_SelectAndDeselect(t *testing.T) {
	m := NewMultiple()
	m.Load(countries(), false)
	for _, id := range []string{"5", "1", "5"} {
		if err := m.Select(id); err != nil {
			t.Fatalf("Select(%q) -> %v", id, err)
		}
	}
	if diff := cmp.Diff([]string{"2", "5", "1"}, m.Values()); diff != "" {
		t.Errorf("Values (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "2", "5"}, selectedFlags(m)); diff != "" {
		t.Errorf("Selected flags (-want +got):\n%s", diff)
	}

	if err := m.Deselect("5"); err != nil {
		t.Fatal(err)
	}
	if err := m.Deselect("4"); err != nil {
		t.Errorf("Deselect of unselected option -> %v", err)
	}
	if diff := cmp.Diff([]string{"2", "1"}, m.Values()); diff != "" {
		t.Errorf("Values after Deselect (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Panamá", "Costa Rica"}, texts(m.Items())); diff != "" {
		t.Errorf("Items after Deselect (-want +got):\n%s", diff)
	}

	m.Clear()
	if len(m.Values()) != 0 || selectedFlags(m) != nil {
		t.Errorf("Values, flags after Clear -> %v, %v", m.Values(), selectedFlags(m))
	}
}

func texts(opts []Option) []string {
	var s []string
	for _, opt := range opts {
		s = append(s, opt.Text)
	}
	return s
}

func TestState_SelectErrorsLeaveStateUnchanged(t *testing.T) {
	for _, mode := range []Mode{SingleMode, MultipleMode} {
		t.Run(mode.String(), func(t *testing.T) {
			s := NewState(mode)
			s.Load(countries(), true)
			before := s.Options()

			if err := s.Select("99"); !errors.Is(err, ErrUnknownOption) {
				t.Errorf("Select of unknown option -> %v", err)
			}
			if err := s.Select("3"); !errors.Is(err, ErrDisabledOption) {
				t.Errorf("Select of disabled option -> %v", err)
			}
			if diff := cmp.Diff(before, s.Options()); diff != "" {
				t.Errorf("Options changed (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"2"}, s.Values()); diff != "" {
				t.Errorf("Values changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMultiple_LoadSkipsDisabled(t *testing.T) {
	m := NewMultiple()
	m.Load([]Option{
		{ID: "a", Selected: true},
		{ID: "b", Selected: true, Disabled: true},
		{ID: "c", Selected: true},
	}, false)
	if diff := cmp.Diff([]string{"a", "c"}, m.Values()); diff != "" {
		t.Errorf("Values (-want +got):\n%s", diff)
	}
	if opt, _ := m.Option("b"); opt.Selected {
		t.Errorf("disabled option kept its Selected flag")
	}
}

func TestState_AppendKeepsLocalFlags(t *testing.T) {
	s := NewMultiple()
	s.Load([]Option{{ID: "1", Text: "A"}, {ID: "3", Text: "old"}}, true)
	if err := s.Select("3"); err != nil {
		t.Fatal(err)
	}
	s.Append([]Option{
		{ID: "3", Text: "X", Image: "x.png", Disabled: true},
		{ID: "4", Text: "D", Selected: true},
	}, false)

	want := []Option{
		{ID: "1", Text: "A"},
		{ID: "3", Text: "X", Image: "x.png", Selected: true},
		{ID: "4", Text: "D"},
	}
	if diff := cmp.Diff(want, s.Options()); diff != "" {
		t.Errorf("Options after Append (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"3"}, s.Values()); diff != "" {
		t.Errorf("Values after Append (-want +got):\n%s", diff)
	}
	if s.More() {
		t.Errorf("More -> true after Append with more=false")
	}
	if s.Cursor() != 4 {
		t.Errorf("Cursor -> %d, want 4", s.Cursor())
	}
}

func TestState_AdoptDoesNotMoveCursor(t *testing.T) {
	s := NewSingle()
	s.Load(countries()[:2], true)
	s.Adopt(Option{ID: "9", Text: "Remote", Selected: true})
	s.Adopt(Option{ID: "1", Text: "ignored"})

	if s.Cursor() != 2 || s.Len() != 3 {
		t.Errorf("Cursor, Len -> %d, %d; want 2, 3", s.Cursor(), s.Len())
	}
	if opt, _ := s.Option("1"); opt.Text != "Costa Rica" {
		t.Errorf("Adopt replaced an option held")
	}
	if s.IsSelected("9") {
		t.Errorf("adopted option came in selected")
	}
	if err := s.Select("9"); err != nil {
		t.Errorf("Select of adopted option -> %v", err)
	}
}

// Random operations never break the invariants of the selection.
func TestState_RandomOperations(t *testing.T) {
	for _, mode := range []Mode{SingleMode, MultipleMode} {
		t.Run(mode.String(), func(t *testing.T) {
			r := rand.New(rand.NewSource(1))
			s := NewState(mode)
			s.Load(countries(), true)
			for i := 0; i < 500; i++ {
				id := fmt.Sprint(r.Intn(12))
				switch r.Intn(4) {
				case 0:
					s.Select(id)
				case 1:
					s.Deselect(id)
				case 2:
					before := s.Values()
					s.Append([]Option{{ID: id, Text: "t" + id,
						Selected: r.Intn(2) == 0, Disabled: r.Intn(3) == 0}}, true)
					if diff := cmp.Diff(before, s.Values()); diff != "" {
						t.Fatalf("Append changed Values (-want +got):\n%s", diff)
					}
				case 3:
					if r.Intn(10) == 0 {
						s.Clear()
					}
				}
				checkInvariants(t, s)
			}
		})
	}
}

func checkInvariants(t *testing.T, s State) {
	t.Helper()
	values := s.Values()
	if s.Mode() == SingleMode && len(values) > 1 {
		t.Fatalf("single mode with values %v", values)
	}
	seen := map[string]bool{}
	for _, id := range values {
		if seen[id] {
			t.Fatalf("duplicate value %q in %v", id, values)
		}
		seen[id] = true
		if _, ok := s.Option(id); !ok {
			t.Fatalf("selected %q is not held", id)
		}
	}
	for _, opt := range s.Options() {
		if opt.Selected != seen[opt.ID] {
			t.Fatalf("flag of %q is %v, IsSelected %v", opt.ID, opt.Selected, seen[opt.ID])
		}
		if s.IsSelected(opt.ID) != seen[opt.ID] {
			t.Fatalf("IsSelected(%q) inconsistent with Values %v", opt.ID, values)
		}
	}
}
