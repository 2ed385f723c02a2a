package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/ydockit/cmd/ydocexplorer/logger"
	"github.com/joshuapare/ydockit/internal/config"
)

func main() {
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printUsage()
		os.Exit(1)
	}

	if args.help {
		printHelp()
		return
	}
	if args.version {
		fmt.Printf("ydocexplorer %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		return
	}

	cfg, err := config.Load(args.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger (must be before any logging calls)
	closer, err := logger.Init(logger.Options{
		Enabled: args.debug,
		LogDir:  cfg.LogDir,
		Level:   slog.LevelDebug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}
	defer closer.Close()

	logger.Info("starting ydocexplorer", "paths", len(args.paths), "config", cfg.Path, "debug", args.debug)

	// Bracketed paste stays on for the life of the program so dropped files
	// reach Update as paste events; bubbletea turns it off again on exit.
	p := tea.NewProgram(
		NewModel(cfg, args.paths),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		closer.Close()
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	logger.Info("ydocexplorer exited normally")
}

type cliArgs struct {
	debug      bool
	help       bool
	version    bool
	configPath string
	paths      []string
}

// parseArgs extracts flags from anywhere on the command line; everything
// else is a file to open.
func parseArgs(args []string) (cliArgs, error) {
	var out cliArgs
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--debug" || arg == "-d":
			out.debug = true
		case arg == "--help" || arg == "-h":
			out.help = true
		case arg == "--version" || arg == "-v":
			out.version = true
		case arg == "--config":
			if i+1 >= len(args) {
				return out, fmt.Errorf("--config needs a path")
			}
			i++
			out.configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			out.configPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--":
			out.paths = append(out.paths, args[i+1:]...)
			return out, nil
		case strings.HasPrefix(arg, "-") && arg != "-":
			return out, fmt.Errorf("unknown option %s", arg)
		default:
			out.paths = append(out.paths, arg)
		}
	}
	return out, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: ydocexplorer [options] [update-file...]\n")
	fmt.Fprintf(os.Stderr, "Try 'ydocexplorer --help' for more information.\n")
}

func printHelp() {
	fmt.Println("ydocexplorer - Interactive TUI for Yjs update files")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  ydocexplorer [options] [update-file...]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Decodes Yjs binary updates and shows each document as a collapsible")
	fmt.Println("  JSON tree. More files can be opened at any time by dropping them on")
	fmt.Println("  the terminal, with the file picker (o) or by typing a path (O).")
	fmt.Println()
	fmt.Println("  Navigation:")
	fmt.Println("    ↑/k, ↓/j      Navigate up/down")
	fmt.Println("    →/l, ←/h      Expand / collapse, or move in and out")
	fmt.Println("    Enter, Space  Toggle the node under the cursor")
	fmt.Println("    Tab           Switch between documents and tree")
	fmt.Println("    [ / ]         Previous / next document")
	fmt.Println("    c / y         Copy path / copy value")
	fmt.Println("    ?             Show help")
	fmt.Println("    q             Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -d, --debug        Enable debug logging to ~/.ydocexplorer/logs/")
	fmt.Println("      --config PATH  Load settings from PATH")
	fmt.Println("  -h, --help         Show this help message")
	fmt.Println("  -v, --version      Show version information")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  ydocexplorer doc.bin")
	fmt.Println("  ydocexplorer updates/*.bin")
	fmt.Println()
	fmt.Println("For non-interactive operations, use the 'ydocctl' command instead.")
}
