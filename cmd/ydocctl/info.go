package main

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/ydockit/pkg/decode"
	"github.com/joshuapare/ydockit/pkg/session"
	"github.com/joshuapare/ydockit/pkg/types"
)

var infoCompact bool

func init() {
	cmd := newInfoCmd()
	cmd.Flags().BoolVar(&infoCompact, "compact", false, "One line per diagnostic")
	rootCmd.AddCommand(cmd)
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file>...",
		Short: "Report update structure and decode diagnostics",
		Long: `The info command decodes each update and reports its size, fingerprint,
the decode stage that produced the value, the top-level containers, struct
counts, and any diagnostics (missing dependencies, unknown deletes, stages
that fell through).

Example:
  ydocctl info doc.bin
  ydocctl info doc.bin --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

type infoJSON struct {
	Name        string                  `json:"name"`
	Size        int                     `json:"size"`
	Fingerprint string                  `json:"fingerprint"`
	Stage       string                  `json:"stage,omitempty"`
	Stats       *decode.Stats           `json:"stats,omitempty"`
	Error       string                  `json:"error,omitempty"`
	Report      *types.DiagnosticReport `json:"report"`
}

func runInfo(args []string) error {
	inputs, failures, err := readInputs(args)
	if err != nil {
		return err
	}
	dec, err := newDecoder()
	if err != nil {
		return err
	}
	failed := len(failures)
	for _, f := range failures {
		printError("%s\n", f.Error())
	}

	var out []infoJSON
	for _, in := range inputs {
		printVerbose("Decoding: %s\n", in.Name)
		report := types.NewDiagnosticReport()
		res, derr := dec.DecodeWithReport(in.Data, in.Name, report)

		info := infoJSON{
			Name:        in.Name,
			Size:        len(in.Data),
			Fingerprint: session.Fingerprint(in.Data),
			Stats:       res.Stats,
			Report:      report,
		}
		if derr != nil {
			failed++
			info.Error = derr.Error()
		} else {
			info.Stage = res.Stage.String()
		}

		if jsonOut {
			out = append(out, info)
			continue
		}
		printInfoText(info)
	}

	if jsonOut {
		if err := printJSON(out); err != nil {
			return err
		}
	}
	return batchError(failed, len(args))
}

func printInfoText(info infoJSON) {
	printInfo("\nUpdate Information:\n")
	printInfo("  File:        %s\n", info.Name)
	printInfo("  Size:        %s (%d bytes)\n", humanize.Bytes(uint64(info.Size)), info.Size)
	printInfo("  Fingerprint: %s\n", info.Fingerprint)
	if info.Error != "" {
		printInfo("  Status:      %s\n", info.Error)
	} else {
		printInfo("  Stage:       %s\n", info.Stage)
	}

	if st := info.Stats; st != nil {
		containers := "(none)"
		if len(st.Containers) > 0 {
			containers = strings.Join(st.Containers, ", ")
		}
		printInfo("  Containers:  %s\n", containers)
		printInfo("  Clients:     %s\n", humanize.Comma(int64(st.Clients)))
		printInfo("  Items:       %s\n", humanize.Comma(int64(st.Items)))
		printInfo("  Deleted:     %s\n", humanize.Comma(int64(st.Deleted)))
		printInfo("  GC:          %s\n", humanize.Comma(int64(st.GC)))
		if st.Pending > 0 {
			printInfo("  Pending:     %s\n", humanize.Comma(int64(st.Pending)))
		}
	}

	printInfo("\nDiagnostics:\n")
	var text string
	if infoCompact {
		text = info.Report.FormatTextCompact()
	} else {
		text = diagnosticsOnly(info.Report.FormatText())
	}
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		printInfo("  %s\n", line)
	}
}

// diagnosticsOnly drops the header lines of a text report; info prints its
// own.
func diagnosticsOnly(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if strings.HasPrefix(l, "Decode time:") {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return text
}
