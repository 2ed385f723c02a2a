package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ydockit/pkg/jsonv"
)

var decodeCompact bool

func init() {
	cmd := newDecodeCmd()
	cmd.Flags().BoolVar(&decodeCompact, "compact", false, "Print JSON on a single line")
	rootCmd.AddCommand(cmd)
}

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <file>...",
		Short: "Decode updates and print them as JSON",
		Long: `The decode command decodes each update and prints the resulting JSON.

The value comes from the first decode stage that applies: the "object_data"
entry of the "objects" container, then the whole "objects" container, then
every top-level container. Use "-" to read from stdin.

Example:
  ydocctl decode doc.bin
  ydocctl decode a.bin b.bin.gz --compact
  ydocctl decode doc.bin --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(args)
		},
	}
	return cmd
}

type decodedJSON struct {
	Name        string      `json:"name"`
	Stage       string      `json:"stage"`
	Size        int         `json:"size"`
	Fingerprint string      `json:"fingerprint"`
	DecodedAt   time.Time   `json:"decoded_at"`
	Value       jsonv.Value `json:"value"`
}

func runDecode(args []string) error {
	docs, failed, err := loadDocuments(args)
	if err != nil {
		return err
	}

	if jsonOut {
		out := make([]decodedJSON, 0, len(docs))
		for _, d := range docs {
			out = append(out, decodedJSON{
				Name:        d.Name,
				Stage:       d.Stage.String(),
				Size:        d.Size,
				Fingerprint: d.Fingerprint,
				DecodedAt:   d.DecodedAt,
				Value:       d.Value,
			})
		}
		if err := printJSON(out); err != nil {
			return err
		}
		return batchError(failed, len(args))
	}

	for _, d := range docs {
		if len(args) > 1 {
			printInfo("==> %s <==\n", d.Name)
		}
		printVerbose("Stage: %s\n", d.Stage)

		var text []byte
		if decodeCompact {
			text = jsonv.Marshal(d.Value)
		} else {
			text = jsonv.MarshalIndent(d.Value, "", "  ")
		}
		if err := writeHighlighted(os.Stdout, string(text)+"\n", "json"); err != nil {
			return err
		}
	}
	return batchError(failed, len(args))
}
