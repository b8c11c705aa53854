package format

import (
	"bytes"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

type sample struct {
	Name   string   `json:"name"`
	Order  []string `json:"order"`
	Scroll float64  `json:"scrollTop"`
	Moved  bool     `json:"moved"`
}

func TestWrite(t *testing.T) {
	t.Parallel()

	v := sample{Name: "work", Order: []string{"b", "a"}, Scroll: 12.5, Moved: true}
	tests := []struct {
		name   string
		format string
		pretty bool
		want   string
	}{
		{"json default", "", false, `{"name":"work","order":["b","a"],"scrollTop":12.5,"moved":true}` + "\n"},
		{"edn", "edn", false, `{:moved true :name "work" :order ["b" "a"] :scrollTop 12.5}` + "\n"},
		{"edn pretty", "edn", true, "{\n  :moved true\n  :name \"work\"\n  :order [\n    \"b\"\n    \"a\"\n  ]\n  :scrollTop 12.5\n}\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := Write(&buf, v, tt.format, tt.pretty); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Fatalf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestWriteYAML_UsesJSONNames(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, sample{Name: "work", Order: []string{"b"}, Scroll: 3}, "yaml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("yaml.Unmarshal: %v\n%s", err, buf.String())
	}
	want := map[string]any{"name": "work", "order": []any{"b"}, "scrollTop": 3, "moved": false}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Write(&bytes.Buffer{}, 1, "xml", false); err == nil {
		t.Fatalf("expected an error for an unknown format")
	}
}

func TestWriteEDN_WholeNumbersAndNil(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"n": 3.0, "x": nil, "e": []int{}}, false); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	if got, want := buf.String(), "{:e [] :n 3 :x nil}\n"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
