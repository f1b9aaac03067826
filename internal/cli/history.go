package cli

import (
	"github.com/spf13/cobra"

	"catalog-cli/internal/tree"
)

type historyEntry struct {
	ID        string `json:"id" yaml:"id"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp"`
	Roots     int    `json:"roots" yaml:"roots"`
	Nodes     int    `json:"nodes" yaml:"nodes"`
	Current   bool   `json:"current" yaml:"current"`
}

type navResult struct {
	Applied bool `json:"applied" yaml:"applied"`
	Index   int  `json:"index" yaml:"index"`
	Len     int  `json:"len" yaml:"len"`
	CanUndo bool `json:"canUndo" yaml:"canUndo"`
	CanRedo bool `json:"canRedo" yaml:"canRedo"`
}

func newUndoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Step back one history entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]any{"data": navigation(app, app.Store.Undo())})
		},
	}
}

func newRedoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Step forward one history entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]any{"data": navigation(app, app.Store.Redo())})
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List history entries, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := app.Store.History()
			idx := h.Index()
			entries := h.Entries()
			out := make([]historyEntry, 0, len(entries))
			for i, e := range entries {
				out = append(out, historyEntry{
					ID:        e.ID,
					Timestamp: e.Timestamp,
					Roots:     len(e.ItemsState),
					Nodes:     tree.CountAll(e.ItemsState),
					Current:   i == idx,
				})
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
}

func navigation(app *App, applied bool) navResult {
	h := app.Store.History()
	return navResult{
		Applied: applied,
		Index:   h.Index(),
		Len:     h.Len(),
		CanUndo: h.CanUndo(),
		CanRedo: h.CanRedo(),
	}
}
