package docs

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

var (
	renderersMu sync.Mutex
	// Keyed by style and wrap width. WithAutoStyle is avoided: its terminal background query
	// can block inside a running TUI.
	renderers = map[string]*glamour.TermRenderer{}
)

// palette matches the TUI accent so help and docs read as one app.
var palette = map[string]struct{ accent, text string }{
	styles.DarkStyle:  {accent: "#7D79F6", text: "#D0D0D0"},
	styles.LightStyle: {accent: "#5A56E0", text: "#303030"},
}

// Style picks the glamour style for a background.
func Style(dark bool) string {
	if dark {
		return styles.DarkStyle
	}
	return styles.LightStyle
}

// Render renders markdown for a terminal of the given width. On renderer errors the raw
// markdown is returned.
func Render(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	if style != styles.LightStyle {
		style = styles.DarkStyle
	}

	key := style + ":" + strconv.Itoa(width)
	renderersMu.Lock()
	r := renderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(styleConfig(style)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			renderersMu.Unlock()
			return md
		}
		renderers[key] = rr
		r = rr
	}
	renderersMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func styleConfig(style string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	if style == styles.LightStyle {
		cfg = styles.LightStyleConfig
	}
	p := palette[style]

	// Docs are shown in narrow overlays; the default two-cell margin wastes width.
	zero := uint(0)
	cfg.Document.Margin = &zero

	cfg.Heading.Color = strPtr(p.accent)
	cfg.H1.Color = strPtr(p.accent)
	cfg.H2.Color = strPtr(p.accent)
	cfg.H3.Color = strPtr(p.accent)
	cfg.Link.Color = strPtr(p.accent)
	cfg.Link.Underline = boolPtr(true)
	cfg.Code.Color = strPtr(p.text)
	cfg.Text.Color = strPtr(p.text)
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	return cfg
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
