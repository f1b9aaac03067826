package main

import (
	"os"
	"strconv"
	"strings"

	"catalog-cli/internal/cli"
)

func isItemID(s string) bool {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil && n > 0
}

// rewriteDirectShowArgs turns `catalog <id>` into `catalog show <id>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before
// parsing. Persistent flags may come first (`catalog --dir x 12`), so we look for the
// first positional token rather than argv[1].
func rewriteDirectShowArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":  true,
		"--storage": true,
		"--dir":     true,
		"--source":  true,
		"--format":  true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
		"--fresh":  true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// Cobra stops resolving subcommands at "--", so show goes in front of it.
			if i+1 < len(argv) && isItemID(argv[i+1]) {
				return insertShow(argv, i)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		if isItemID(a) {
			return insertShow(argv, i)
		}
		return argv
	}

	return argv
}

func insertShow(argv []string, at int) []string {
	out := make([]string, 0, len(argv)+1)
	out = append(out, argv[:at]...)
	out = append(out, "show")
	out = append(out, argv[at:]...)
	return out
}

func main() {
	os.Args = rewriteDirectShowArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
