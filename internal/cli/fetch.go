package cli

import (
	"github.com/spf13/cobra"
)

func newFetchCmd(app *App) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:         "fetch",
		Short:       "Fetch a page from the source and show it",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipResume: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("page") {
				if err := app.Store.ChangePage(cmd.Context(), page); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": app.Store.Items(),
				"meta": app.Store.Pagination(),
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page to fetch (1..totalPages)")
	return cmd
}

func newPageCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "page",
		Short: "Show pagination state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := app.Store.Pagination()
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"currentPage":    p.CurrentPage,
					"totalPages":     p.TotalPages,
					"totalItems":     p.TotalItems,
					"itemsPerPage":   p.ItemsPerPage,
					"mainItemsCount": app.Store.MainItemsCount(),
					"canUndo":        app.Store.CanUndo(),
					"canRedo":        app.Store.CanRedo(),
				},
			})
		},
	}
}
