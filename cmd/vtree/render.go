package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/pkg/memdom"
)

func renderCmd() *cobra.Command {
	var (
		showLog bool
		last    bool
		rootTag string
	)

	cmd := &cobra.Command{
		Use:   "render <file.yaml>",
		Short: "Render a tree document to HTML",
		Long: `Apply every version of a tree document to an in-memory document and
print the resulting HTML after each one.

Examples:
  vtree render todo.yaml
  vtree render --log todo.yaml
  vtree render --last todo.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			doc := memdom.New(rootTag)
			var html string
			err := replay[*memdom.Node](args[0], doc, doc.Root(), func(i int) error {
				html = doc.HTML()
				if last {
					return nil
				}
				step(out, i, "%d nodes, %d mutations", doc.Live(), len(doc.Log()))
				if showLog {
					for _, line := range doc.Log() {
						fmt.Fprintf(out, "  %s\n", line)
					}
				}
				fmt.Fprintln(out, html)
				doc.ResetLog()
				return nil
			})
			if err != nil {
				return err
			}
			if last {
				fmt.Fprintln(out, html)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showLog, "log", "l", false, "Print the backend mutations of every version")
	cmd.Flags().BoolVar(&last, "last", false, "Print only the HTML of the final version")
	cmd.Flags().StringVar(&rootTag, "root", "body", "Tag of the container element")

	return cmd
}
