package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ydockit/internal/source"
	"github.com/joshuapare/ydockit/pkg/jsonv"
	"github.com/joshuapare/ydockit/pkg/tree"
)

var (
	treeDepth     int
	treeIndent    int
	treeInputJSON bool
	treeCollapse  []string
)

func init() {
	cmd := newTreeCmd()
	cmd.Flags().IntVar(&treeDepth, "depth", -1, "Collapse nodes at this depth and deeper (default from config, 0 = expand all)")
	cmd.Flags().IntVar(&treeIndent, "indent", 2, "Spaces per level")
	cmd.Flags().BoolVar(&treeInputJSON, "input-json", false, "Read files as JSON/JSONC instead of updates")
	cmd.Flags().StringSliceVar(&treeCollapse, "collapse", nil, "Collapse the node at this path, e.g. $.objects.items (repeatable)")
	rootCmd.AddCommand(cmd)
}

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <file>...",
		Short: "Display decoded values as a tree",
		Long: `The tree command renders each decoded value the way the explorer shows
it: one line per node, with collapsed nodes shown as {…} or […].

Example:
  ydocctl tree doc.bin
  ydocctl tree doc.bin --depth 2
  ydocctl tree doc.bin --collapse '$.tags'
  ydocctl tree data.jsonc --input-json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(args)
		},
	}
	return cmd
}

type namedValue struct {
	name  string
	value jsonv.Value
}

func runTree(args []string) error {
	var values []namedValue
	failed := 0

	if treeInputJSON {
		c, err := appConfig()
		if err != nil {
			return err
		}
		reader := source.NewReader(c.Limits())
		for _, arg := range args {
			in, err := reader.ReadFile(arg)
			if err != nil {
				printError("%s: %v\n", arg, err)
				failed++
				continue
			}
			v, err := jsonv.Parse(in.Data)
			if err != nil {
				printError("%s: %v\n", filepath.Base(arg), err)
				failed++
				continue
			}
			values = append(values, namedValue{name: in.Name, value: v})
		}
	} else {
		docs, n, err := loadDocuments(args)
		if err != nil {
			return err
		}
		failed = n
		for _, d := range docs {
			values = append(values, namedValue{name: d.Name, value: d.Value})
		}
	}

	depth := treeDepth
	if depth < 0 {
		c, err := appConfig()
		if err != nil {
			return err
		}
		depth = c.CollapseDepth
	}

	collapse, err := parsePaths(treeCollapse)
	if err != nil {
		return err
	}

	for _, nv := range values {
		if len(args) > 1 {
			printInfo("==> %s <==\n", nv.name)
		}
		state := tree.NewState()
		if depth > 0 {
			state.CollapseBelow(nv.value, depth)
		}
		for _, p := range collapse {
			state.Collapse(p)
		}
		out := tree.Format(nv.value, state, strings.Repeat(" ", max(treeIndent, 0)))
		if _, err := fmt.Fprintln(os.Stdout, out); err != nil {
			return err
		}
	}
	return batchError(failed, len(args))
}

func parsePaths(raw []string) ([]tree.Path, error) {
	paths := make([]tree.Path, 0, len(raw))
	for _, s := range raw {
		p, err := tree.ParsePath(s)
		if err != nil {
			return nil, fmt.Errorf("invalid --collapse path %q: %w", s, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
