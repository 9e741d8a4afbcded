package tk

import (
	"testing"

	"github.com/Solvosoft/fletbatteries/pkg/cli/term"
	"github.com/Solvosoft/fletbatteries/pkg/ui"
)

func TestComboBox_Render(t *testing.T) {
	testRender(t, []renderTest{
		{
			Name: "text field and list box",
			Given: NewComboBox(ComboBoxSpec{
				TextField: TextFieldSpec{Prompt: ui.T("> ")},
				ListBox:   ListBoxSpec{State: ListBoxState{Items: TestItems{NItems: 2}}},
			}),
			Width: 10, Height: 4,
			Want: bb(10).Write("> ").SetDotHere().
				Newline().Write("item 0    ", ui.Inverse).
				Newline().Write("item 1"),
		},
		{
			Name: "only list box when height is 1",
			Given: NewComboBox(ComboBoxSpec{
				ListBox: ListBoxSpec{State: ListBoxState{Items: TestItems{NItems: 1}}},
			}),
			Width: 6, Height: 1,
			Want: bb(6).Write("item 0", ui.Inverse),
		},
	})
}

func TestComboBox_Handle(t *testing.T) {
	var filters []string
	w := NewComboBox(ComboBoxSpec{
		ListBox: ListBoxSpec{State: ListBoxState{Items: TestItems{NItems: 3}}},
		OnFilter: func(w ComboBox, filter string) {
			filters = append(filters, filter)
		},
	})

	// Navigation keys go to the list box.
	w.Handle(term.K(ui.Down))
	if s := w.ListBox().CopyState(); s.Selected != 1 {
		t.Errorf("Down moved selection to %d, want 1", s.Selected)
	}
	// Other keys go to the text field, which triggers OnFilter.
	w.Handle(term.K('a'))
	w.Handle(term.K('b'))
	// Moving the cursor doesn't change the filter.
	w.Handle(term.K(ui.Left))

	want := []string{"", "a", "ab"}
	if len(filters) != len(want) {
		t.Fatalf("OnFilter called with %q, want %q", filters, want)
	}
	for i := range want {
		if filters[i] != want[i] {
			t.Errorf("OnFilter called with %q, want %q", filters, want)
		}
	}
}

func TestComboBox_ResetFilter(t *testing.T) {
	called := 0
	w := NewComboBox(ComboBoxSpec{OnFilter: func(ComboBox, string) { called++ }})
	w.ResetFilter("abc")
	if s := w.TextField().CopyState(); s != (TextFieldState{Content: "abc", Dot: 3}) {
		t.Errorf("text field state = %v", s)
	}
	if called != 1 {
		t.Errorf("OnFilter called %d times, want 1", called)
	}
	w.Refilter()
	if called != 2 {
		t.Errorf("Refilter didn't call OnFilter")
	}
}

func TestComboBox_MouseGoesToListBox(t *testing.T) {
	accepted := -1
	w := NewComboBox(ComboBoxSpec{
		ListBox: ListBoxSpec{
			State:    ListBoxState{Items: TestItems{NItems: 3}},
			OnAccept: func(it Items, i int) { accepted = i },
		},
	})
	w.Render(10, 4)
	// Line 0 is the text field.
	if w.Handle(term.MouseEvent{Pos: term.Pos{Line: 0}, Down: true}) {
		t.Errorf("click on the text field handled")
	}
	w.Handle(term.MouseEvent{Pos: term.Pos{Line: 3}, Down: true})
	if accepted != 2 {
		t.Errorf("click accepted %d, want 2", accepted)
	}
}
