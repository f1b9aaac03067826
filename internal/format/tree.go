package format

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"catalog-cli/internal/model"
)

type TreeOptions struct {
	// Color enables ANSI styling. NO_COLOR always wins.
	Color bool

	// HideCollapsed skips the descendants of collapsed items.
	HideCollapsed bool

	// Width truncates each line to this many cells. 0 means no limit.
	Width int
}

type treeStyles struct {
	number lipgloss.Style
	name   lipgloss.Style
	meta   lipgloss.Style
}

func newTreeStyles(w io.Writer, color bool) treeStyles {
	r := lipgloss.NewRenderer(w)
	if !color || strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		r.SetColorProfile(termenv.Ascii)
	} else {
		r.SetColorProfile(termenv.ANSI256)
	}
	return treeStyles{
		number: r.NewStyle().Foreground(lipgloss.Color("244")),
		name:   r.NewStyle().Bold(true),
		meta:   r.NewStyle().Foreground(lipgloss.Color("241")).Faint(true),
	}
}

// WriteTree renders flattened rows as an indented outline:
//
//	1 DOTA2 (9) Head / Weapon / ...
//	  1.1 Head
func WriteTree(w io.Writer, rows []model.FlatItem, opts TreeOptions) error {
	st := newTreeStyles(w, opts.Color)

	hideBelow := -1
	for _, row := range rows {
		it := row.Item
		if it == nil {
			continue
		}
		if hideBelow >= 0 {
			if row.Level > hideBelow {
				continue
			}
			hideBelow = -1
		}

		marker := " "
		if it.HasChildren() {
			marker = "▾"
			if it.Collapsed {
				marker = "▸"
			}
		}

		var b strings.Builder
		b.WriteString(strings.Repeat("  ", row.Level))
		b.WriteString(marker)
		b.WriteString(" ")
		b.WriteString(st.number.Render(it.DisplayNumber))
		b.WriteString(" ")
		b.WriteString(st.name.Render(it.Name))
		if it.HasChildren() {
			b.WriteString(" ")
			b.WriteString(st.meta.Render(fmt.Sprintf("(%d) %s", it.ItemCount, it.SubCategories)))
		}

		line := b.String()
		if opts.Width > 0 && xansi.StringWidth(line) > opts.Width {
			line = xansi.Truncate(line, opts.Width, "…")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}

		if opts.HideCollapsed && it.Collapsed && it.HasChildren() {
			hideBelow = row.Level
		}
	}
	return nil
}
