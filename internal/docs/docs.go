// Package docs holds the embedded markdown topics shown by `dragsort docs` and the TUI help.
package docs

import (
	"bufio"
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed content/*.md
var contentFS embed.FS

// Topic is one embedded page. Title is its first heading.
type Topic struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Index lists every topic by name. fs.Glob returns paths sorted.
func Index() []Topic {
	paths, err := fs.Glob(contentFS, "content/*.md")
	if err != nil {
		return []Topic{}
	}
	out := make([]Topic, 0, len(paths))
	for _, p := range paths {
		name := strings.TrimSuffix(path.Base(p), ".md")
		body, _ := contentFS.ReadFile(p)
		out = append(out, Topic{Name: name, Title: heading(string(body))})
	}
	return out
}

func Topics() []string {
	idx := Index()
	names := make([]string, len(idx))
	for i, t := range idx {
		names[i] = t.Name
	}
	return names
}

// Get looks a topic up case-insensitively.
func Get(topic string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(topic))
	if name == "" || strings.ContainsAny(name, "/\\") {
		return "", false
	}
	b, err := contentFS.ReadFile("content/" + name + ".md")
	if err != nil {
		return "", false
	}
	return string(b), true
}

func heading(md string) string {
	sc := bufio.NewScanner(strings.NewReader(md))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}
