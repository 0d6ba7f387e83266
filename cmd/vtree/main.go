// Command vtree renders, diffs and serves virtual trees.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	vterrors "github.com/vango-dev/vtree/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vtree",
		Short: "Reconcile virtual trees against real ones",
		Long: `vtree drives the virtual tree reconciliation engine from the command line.

Tree documents are YAML files holding one or more versions of a tree,
separated by ---. Each version after the first is diffed against the
one before it.

  vtree render todo.yaml   apply every version to an in-memory document
  vtree diff todo.yaml     print the wire patches of every version
  vtree serve              stream the todo demo over websockets`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		renderCmd(),
		diffCmd(),
		serveCmd(),
		versionCmd(),
	)
	return rootCmd
}

// printError prints coded errors in their long form and anything else on
// one line.
func printError(w io.Writer, err error) {
	if _, ok := err.(*vterrors.Error); ok {
		vterrors.Print(w, err)
		return
	}
	fmt.Fprintf(w, "\033[31mError:\033[0m %s\n", err)
}

// step prints the header of one document version.
func step(w io.Writer, i int, format string, args ...any) {
	fmt.Fprintf(w, "# %d: %s\n", i+1, fmt.Sprintf(format, args...))
}
