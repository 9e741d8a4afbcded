package tk

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/Solvosoft/fletbatteries/pkg/cli/term"
	"github.com/Solvosoft/fletbatteries/pkg/ui"
)

// renderTest is a test case to be used in testRender.
type renderTest struct {
	Name   string
	Given  Renderer
	Width  int
	Height int
	Want   interface{ Buffer() *term.Buffer }
}

// testRender runs the given Renderer tests.
func testRender(t *testing.T, tests []renderTest) {
	t.Helper()
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			t.Helper()
			buf := test.Given.Render(test.Width, test.Height)
			wantBuf := test.Want.Buffer()
			if !reflect.DeepEqual(buf, wantBuf) {
				t.Errorf("Buffer mismatch")
				t.Logf("Got: %s", buf.TTYString())
				t.Logf("Want: %s", wantBuf.TTYString())
			}
		})
	}
}

// handleTest is a test case to be used in testHandle.
type handleTest struct {
	Name   string
	Given  Handler
	Event  term.Event
	Events []term.Event

	WantNewState  any
	WantUnhandled bool
}

// testHandle runs the given Handler tests.
func testHandle(t *testing.T, tests []handleTest) {
	t.Helper()

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			t.Helper()

			handler := test.Given
			oldState := getState(handler)
			defer setState(handler, oldState)

			var handled bool
			switch {
			case test.Event != nil && test.Events != nil:
				t.Fatal("Malformed test case: both Event and Events non-nil:",
					test.Event, test.Events)
			case test.Event == nil && test.Events == nil:
				t.Fatal("Malformed test case: both Event and Events nil")
			case test.Event != nil:
				handled = handler.Handle(test.Event)
			default: // test.Events != nil
				for _, event := range test.Events {
					handled = handler.Handle(event)
				}
			}
			if handled != !test.WantUnhandled {
				t.Errorf("Got handled %v, want %v", handled, !test.WantUnhandled)
			}
			if test.WantNewState != nil {
				state := getState(test.Given)
				if !reflect.DeepEqual(state, test.WantNewState) {
					t.Errorf("Got state %v, want %v", state, test.WantNewState)
				}
			}
		})
	}
}

func getState(v any) any {
	return reflectState(v).Interface()
}

func setState(v, state any) {
	reflectState(v).Set(reflect.ValueOf(state))
}

func reflectState(v any) reflect.Value {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = reflect.Indirect(rv)
	}
	return rv.FieldByName("State")
}

func bb(width int) *term.BufferBuilder { return term.NewBufferBuilder(width) }

// TestItems is an implementation of Items useful for testing.
type TestItems struct {
	Prefix string
	Style  ui.Styling
	NItems int
}

// Show returns a plain text consisting of the prefix and i. If the prefix is
// empty, it defaults to "item ".
func (it TestItems) Show(i int) ui.Text {
	prefix := it.Prefix
	if prefix == "" {
		prefix = "item "
	}
	return ui.T(fmt.Sprintf("%s%d", prefix, i), it.Style)
}

// Len returns it.NItems.
func (it TestItems) Len() int {
	return it.NItems
}

// Test for the test utilities.

type testWidget struct {
	text ui.Text
	// Events handled, in order.
	handled []term.Event
	focused bool
}

func (w *testWidget) Render(width, height int) *term.Buffer {
	buf := term.NewBufferBuilder(width).WriteStyled(w.text).Buffer()
	buf.TrimToLines(0, height)
	return buf
}

func (w *testWidget) MaxHeight(width, height int) int {
	return len(w.Render(width, height).Lines)
}

func (w *testWidget) Handle(e term.Event) bool {
	if e == term.K(ui.Tab) || e == term.K(ui.Tab, ui.Shift) {
		return false
	}
	w.handled = append(w.handled, e)
	return true
}

func (w *testWidget) Focus() { w.focused = true }
func (w *testWidget) Blur()  { w.focused = false }

func TestTestRender(t *testing.T) {
	testRender(t, []renderTest{
		{
			Name:  "test",
			Given: &testWidget{text: ui.T("test")},
			Width: 10, Height: 10,

			Want: bb(10).Write("test"),
		},
	})
}

type testHandlerWithState struct {
	State testHandlerState
}

type testHandlerState struct {
	last  term.Event
	total int
}

func (h *testHandlerWithState) Handle(e term.Event) bool {
	if e == term.K('x') {
		return false
	}
	h.State.last = e
	h.State.total++
	return true
}

func TestTestHandle(t *testing.T) {
	testHandle(t, []handleTest{
		{
			Name:  "WantNewState",
			Given: &testHandlerWithState{},
			Event: term.K('a'),

			WantNewState: testHandlerState{last: term.K('a'), total: 1},
		},
		{
			Name:   "Multiple events",
			Given:  &testHandlerWithState{},
			Events: []term.Event{term.K('a'), term.K('b')},

			WantNewState: testHandlerState{last: term.K('b'), total: 2},
		},
		{
			Name:  "WantUnhandled",
			Given: &testHandlerWithState{},
			Event: term.K('x'),

			WantUnhandled: true,
		},
	})
}
