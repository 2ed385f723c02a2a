package jsontree

// CopyKind says what a copy request copied.
type CopyKind int

const (
	CopyPath CopyKind = iota
	CopyValue
)

// CopyRequestedMsg reports a clipboard copy of the node under the cursor.
type CopyRequestedMsg struct {
	Kind CopyKind
	Path string // rendered path of the node
	Text string // what was written to the clipboard
	Err  error
}
