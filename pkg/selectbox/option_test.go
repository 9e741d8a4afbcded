package selectbox

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var parsePageTests = []struct {
	name string
	json string
	want Page
}{
	{
		name: "results as object keep document order",
		json: `{"results": {"2": {"id": "2", "text": "Panamá", "selected": true},
		                    "1": {"id": "1", "text": "Costa Rica"}},
		        "pagination": {"more": true, "total": 7}}`,
		want: Page{
			Results: []Option{
				{ID: "2", Text: "Panamá", Selected: true},
				{ID: "1", Text: "Costa Rica"},
			},
			More: true, Total: 7,
		},
	},
	{
		name: "key used when id is missing",
		json: `{"results": {"a": {"text": "A"}, "b": {"id": "", "text": "B"}}}`,
		want: Page{Results: []Option{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}}},
	},
	{
		name: "results as array",
		json: `{"results": [{"id": "x", "text": "X", "disabled": true},
		                    {"id": "y", "text": "Y", "image": "y.png"}],
		        "pagination": {"more": false}}`,
		want: Page{Results: []Option{
			{ID: "x", Text: "X", Disabled: true},
			{ID: "y", Text: "Y", Image: "y.png"},
		}},
	},
	{
		name: "numeric ids",
		json: `{"results": [{"id": 3, "text": "Nicaragua"}, {"id": 12.0, "text": "D"}]}`,
		want: Page{Results: []Option{{ID: "3", Text: "Nicaragua"}, {ID: "12.0", Text: "D"}}},
	},
	{
		name: "duplicate ids keep first position and last value",
		json: `{"results": [{"id": "1", "text": "old"}, {"id": "2", "text": "B"},
		                    {"id": "1", "text": "new"}]}`,
		want: Page{Results: []Option{{ID: "1", Text: "new"}, {ID: "2", Text: "B"}}},
	},
	{
		name: "missing results",
		json: `{"pagination": {"more": true}}`,
		want: Page{Results: []Option{}, More: true},
	},
}

func TestParsePage(t *testing.T) {
	for _, test := range parsePageTests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ParsePage([]byte(test.json))
			if err != nil {
				t.Fatalf("ParsePage -> error %v", err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("ParsePage (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParsePage_Errors(t *testing.T) {
	for _, test := range []struct {
		name          string
		json          string
		wantMalformed bool
	}{
		{"array entry without id", `{"results": [{"text": "A"}]}`, true},
		{"id of wrong type", `{"results": [{"id": true, "text": "A"}]}`, true},
		{"entry not an object", `{"results": [1]}`, true},
		{"results of wrong type", `{"results": "x"}`, false},
		{"invalid JSON", `{"results": [`, false},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParsePage([]byte(test.json))
			if err == nil {
				t.Fatalf("ParsePage -> no error")
			}
			if errors.Is(err, ErrMalformedOption) != test.wantMalformed {
				t.Errorf("ParsePage -> %v, want ErrMalformedOption: %v", err, test.wantMalformed)
			}
		})
	}
}

func TestPage_MarshalJSON(t *testing.T) {
	p := Page{
		Results: []Option{{ID: "1", Text: "Costa Rica"}, {ID: "3", Text: "Nicaragua", Disabled: true}},
		More:    true,
		Total:   7,
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"results":[{"id":"1","text":"Costa Rica"},{"id":"3","text":"Nicaragua","disabled":true}],` +
		`"pagination":{"more":true,"total":7}}`
	if string(data) != want {
		t.Errorf("Marshal -> %s, want %s", data, want)
	}

	back, err := ParsePage(data)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(p, back); diff != "" {
		t.Errorf("ParsePage of marshaled page (-want +got):\n%s", diff)
	}

	empty, _ := json.Marshal(Page{})
	if string(empty) != `{"results":[],"pagination":{"more":false}}` {
		t.Errorf("Marshal of empty page -> %s", empty)
	}
}
