package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"dragsort/internal/docs"

	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var (
		raw   bool
		style string
		width int
	)

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show documentation (lists topics without an argument)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				index := docs.Index()
				if app.Format != "" {
					return writeOut(cmd, app, map[string]any{"topics": index})
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				for _, t := range index {
					fmt.Fprintf(tw, "%s\t%s\n", t.Name, t.Title)
				}
				return tw.Flush()
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `dragsort docs` to list topics)", topic))
			}

			switch {
			case raw:
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			case app.Format != "":
				return writeOut(cmd, app, map[string]any{"topic": topic, "markdown": body})
			}

			if style != "dark" && style != "light" {
				return writeErr(cmd, fmt.Errorf("invalid --style %q (dark|light)", style))
			}
			if width <= 0 {
				width = terminalWidth()
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), docs.Render(body, width, docs.Style(style == "dark")))
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown")
	cmd.Flags().StringVar(&style, "style", "dark", "Rendering style (dark|light)")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (default: $COLUMNS or 80)")

	return cmd
}

func terminalWidth() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return 80
}
