package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"catalog-cli/internal/docs"
)

func newDocsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:         "docs [topic]",
		Short:       "Show reference docs",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipOpen: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"data": docs.Topics()})
			}
			body, ok := docs.Get(args[0])
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown topic %q (try: %s)", args[0], strings.Join(docs.Topics(), ", ")))
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), body)
			return err
		},
	}
}
