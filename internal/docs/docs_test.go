package docs

import (
	"reflect"
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	t.Parallel()

	want := []string{"config", "gestures", "overview", "simulate", "tui"}
	if got := Topics(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Topics() = %v, want %v", got, want)
	}
	for _, topic := range want {
		body, ok := Get(" " + strings.ToUpper(topic) + " ")
		if !ok || !strings.HasPrefix(body, "# ") {
			t.Fatalf("Get(%q) = %q, %v", topic, body, ok)
		}
	}
	for _, name := range []string{"nope", "../docs", ""} {
		if _, ok := Get(name); ok {
			t.Fatalf("expected %q to be missing", name)
		}
	}
}

func TestIndex_Titles(t *testing.T) {
	t.Parallel()

	titles := map[string]string{}
	for _, topic := range Index() {
		titles[topic.Name] = topic.Title
	}
	if titles["simulate"] != "Gesture scripts" || titles["tui"] != "Terminal UI" {
		t.Fatalf("unexpected titles: %v", titles)
	}
}

func TestHeading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		md   string
		want string
	}{
		{"# Title\nbody", "Title"},
		{"intro\n\n#  Spaced  \n", "Spaced"},
		{"## Sub only", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := heading(tt.md); got != tt.want {
			t.Fatalf("heading(%q) = %q, want %q", tt.md, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	out := Render("# Title\n\nsome *text*", 40, Style(true))
	if !strings.Contains(out, "Title") || !strings.Contains(out, "text") {
		t.Fatalf("unexpected render: %q", out)
	}
	if Render("   ", 40, "") != "" {
		t.Fatalf("expected blank markdown to render empty")
	}
}
