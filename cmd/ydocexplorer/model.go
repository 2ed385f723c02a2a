package main

import (
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/ydockit/cmd/ydocexplorer/doclist"
	"github.com/joshuapare/ydockit/cmd/ydocexplorer/jsontree"
	"github.com/joshuapare/ydockit/cmd/ydocexplorer/logger"
	"github.com/joshuapare/ydockit/internal/config"
	"github.com/joshuapare/ydockit/internal/source"
	"github.com/joshuapare/ydockit/pkg/decode"
	"github.com/joshuapare/ydockit/pkg/session"
	"github.com/joshuapare/ydockit/pkg/tree"
)

// Pane represents which pane is focused
type Pane int

const (
	DocPane Pane = iota
	TreePane
)

// InputMode represents different input modes
type InputMode int

const (
	NormalMode InputMode = iota
	FilterMode
	OpenPathMode
	PickerMode
)

// Layout constants
const (
	headerHeight    = 2
	statusHeight    = 1
	paneChrome      = 3 // border top/bottom + title line
	minPaneHeight   = 3
	docPaneMinWidth = 24
)

// statusDuration is how long a status message stays up.
var statusDuration = 3 * time.Second

// Model is the main application model
type Model struct {
	cfg      *config.Config
	registry *session.Registry
	states   []*tree.State // expand state per registry index
	reader   *source.Reader
	loader   *session.Loader

	docList *doclist.Model
	tree    *jsontree.Model
	picker  filepicker.Model
	prompt  textinput.Model
	keys    KeyMap

	focusedPane Pane
	inputMode   InputMode
	width       int
	height      int

	showHelp bool

	// Status message for temporary feedback
	statusMessage string
	statusIsError bool
	statusSeq     int // invalidates clear timers of older messages

	loading      int // batches in flight
	initialPaths []string
}

// NewModel creates a new TUI model. paths are loaded as one batch on Init.
func NewModel(cfg *config.Config, paths []string) Model {
	keys := DefaultKeyMap()

	dec := decode.New(append(cfg.DecodeOptions(), decode.WithLogger(logger.L))...)

	picker := filepicker.New()
	picker.ShowHidden = false
	picker.AutoHeight = false
	if wd, err := os.Getwd(); err == nil {
		picker.CurrentDirectory = wd
	}

	prompt := textinput.New()
	prompt.CharLimit = 4096

	loading := 0
	if len(paths) > 0 {
		loading = 1
	}

	return Model{
		cfg:      cfg,
		registry: session.NewRegistry(session.WithLogger(logger.L)),
		reader:   source.NewReader(cfg.Limits()),
		loader: session.NewLoader(
			session.WithDecoder(dec),
			session.WithConcurrency(cfg.Concurrency),
		),
		docList:      doclist.New(keys.listKeys()),
		tree:         jsontree.New(keys.treeKeys()),
		picker:       picker,
		prompt:       prompt,
		keys:         keys,
		focusedPane:  TreePane,
		inputMode:    NormalMode,
		loading:      loading,
		initialPaths: paths,
	}
}

// Init loads the documents named on the command line.
func (m Model) Init() tea.Cmd {
	if len(m.initialPaths) == 0 {
		return nil
	}
	return m.loadFiles(m.initialPaths)
}

// Messages

// documentsLoadedMsg carries the outcome of one load batch, in input order.
type documentsLoadedMsg struct {
	docs     []session.Document
	failures []session.Failure
}

type clearStatusMsg struct{ seq int }

// Registry returns the session registry (for testing)
func (m *Model) Registry() *session.Registry {
	return m.registry
}
