package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/pkg/protocol"
	"github.com/vango-dev/vtree/pkg/remote"
)

func diffCmd() *cobra.Command {
	var maxPayload int

	cmd := &cobra.Command{
		Use:   "diff <file.yaml>",
		Short: "Print the wire patches of a tree document",
		Long: `Apply every version of a tree document to a patch recorder and print
the patches each version produces, with their encoded frame sizes.

Examples:
  vtree diff todo.yaml
  vtree diff --max-payload 256 todo.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxPayload <= 0 || maxPayload > protocol.MaxPayloadSize {
				return fmt.Errorf("--max-payload must be in 1..%d", protocol.MaxPayloadSize)
			}
			out := cmd.OutOrStdout()
			rec := remote.NewRecorder()
			return replay[remote.NodeID](args[0], rec, rec.Root(), func(i int) error {
				frames := rec.FlushFrames(maxPayload)
				n, size := 0, 0
				for _, pf := range frames {
					n += len(pf.Patches)
					size += protocol.FrameHeaderSize + len(protocol.EncodePatches(pf))
				}
				step(out, i, "%d patches, %d frames, %d bytes", n, len(frames), size)
				for _, pf := range frames {
					for _, p := range pf.Patches {
						fmt.Fprintf(out, "  %s\n", p)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&maxPayload, "max-payload", protocol.MaxPayloadSize, "Largest frame payload in bytes")

	return cmd
}
