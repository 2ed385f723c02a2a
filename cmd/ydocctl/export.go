package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ydockit/pkg/jsonv"
	"github.com/joshuapare/ydockit/pkg/tree"
	"github.com/joshuapare/ydockit/pkg/types"
)

var (
	exportFormat string
	exportOutput string
	exportPath   string
)

func init() {
	cmd := newExportCmd()
	cmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format (json, yaml, cbor)")
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().StringVar(&exportPath, "path", "", "Export only the subtree at this path, e.g. $.objects")
	rootCmd.AddCommand(cmd)
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a decoded update as JSON, YAML or CBOR",
		Long: `The export command decodes one update and writes its value in the chosen
format. YAML keeps object key order; CBOR uses deterministic encoding.

Example:
  ydocctl export doc.bin --format yaml
  ydocctl export doc.bin --format cbor -o doc.cbor
  ydocctl export doc.bin --path '$.tags'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args)
		},
	}
	return cmd
}

// marshalAs encodes v in format.
func marshalAs(v jsonv.Value, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return append(jsonv.MarshalIndent(v, "", "  "), '\n'), nil
	case "yaml", "yml":
		return jsonv.MarshalYAML(v)
	case "cbor":
		return jsonv.MarshalCBOR(v)
	default:
		return nil, types.New(types.ErrKindUnsupported, fmt.Sprintf("export format %q (use json, yaml or cbor)", format), nil)
	}
}

func runExport(args []string) error {
	// Reject the format before doing any work.
	if _, err := marshalAs(jsonv.Null{}, exportFormat); err != nil {
		return err
	}

	docs, failed, err := loadDocuments(args)
	if err != nil {
		return err
	}
	if failed > 0 {
		return batchError(failed, len(args))
	}
	doc := docs[0]

	value := doc.Value
	if exportPath != "" {
		p, err := tree.ParsePath(exportPath)
		if err != nil {
			return fmt.Errorf("invalid --path %q: %w", exportPath, err)
		}
		sub, ok := tree.Lookup(value, p)
		if !ok {
			return fmt.Errorf("path %s not found in %s", p, doc.Name)
		}
		value = sub
	}

	data, err := marshalAs(value, exportFormat)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if exportOutput != "" {
		printVerbose("Wrote %d bytes to %s\n", len(data), exportOutput)
	}
	return nil
}
