package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"catalog-cli/internal/mutate"
)

func newListCmd(app *App) *cobra.Command {
	var flat bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalog tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := map[string]any{
				"meta": app.Store.Pagination(),
			}
			if flat {
				env["data"] = app.Store.Flattened()
			} else {
				env["data"] = app.Store.Items()
			}
			return writeOut(cmd, app, env)
		},
	}
	cmd.Flags().BoolVar(&flat, "flat", false, "Pre-order rows with level and parentId")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one item and its subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			it, ok := app.Store.FindItem(id)
			if !ok {
				return writeErr(cmd, mutate.NotFoundError{Kind: "item", ID: id})
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <parent-id> <name>",
		Short: "Add a subcategory",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parentID, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			name, err := joinName(args[1:])
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := app.Store.AddSubcategory(parentID, name)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   it,
				"_hints": []string{"catalog undo", fmt.Sprintf("catalog edit %d <name>", it.ID)},
			})
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <name>",
		Short: "Rename an item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			name, err := joinName(args[1:])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.Store.EditItem(id, name); err != nil {
				return writeErr(cmd, err)
			}
			it, _ := app.Store.FindItem(id)
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an item and its subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			parentID, err := parseParent(parent)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.Store.RemoveItem(id, parentID); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   map[string]any{"removed": id, "parentId": parentID},
				"_hints": []string{"catalog undo"},
			})
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "Parent id (omit for a root item)")
	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "move <id> <index>",
		Short: "Move an item to a 0-based position among its siblings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			idx, err := strconv.Atoi(args[1])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid index %q: %w", args[1], err))
			}
			parentID, err := parseParent(parent)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.Store.MoveItem(id, idx, parentID); err != nil {
				return writeErr(cmd, err)
			}
			it, _ := app.Store.FindItem(id)
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "Parent id (omit for a root item)")
	return cmd
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip an item's collapsed flag (not recorded in history)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.Store.ToggleCollapse(id); err != nil {
				return writeErr(cmd, err)
			}
			it, _ := app.Store.FindItem(id)
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}
}
