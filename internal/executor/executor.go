// Package executor owns the live document and selection and the
// undo/redo history. It is the only mutation entry point: UI code
// submits commands here and never touches a document directly.
package executor

import (
	"log/slog"

	"github.com/vellum/vellum/editor-go/internal/command"
	"github.com/vellum/vellum/editor-go/internal/document"
)

// DefaultCapacity bounds the undo stack; the oldest entries are dropped
// first once it fills.
const DefaultCapacity = 100

// Entry records one executed command together with everything needed to
// replay it in either direction.
type Entry struct {
	Forward         command.Command
	Inverse         command.Command
	SelectionBefore []string
	SelectionAfter  []string
	DocumentBefore  *document.Document
	DocumentAfter   *document.Document
}

// Executor applies commands to the current document and keeps bounded
// undo/redo history. All methods must be called from the single event
// loop that owns the editor; the executor does no locking of its own.
type Executor struct {
	doc       *document.Document
	selection []string
	undo      []Entry
	redo      []Entry
	capacity  int
	logger    *slog.Logger
}

// New creates an executor owning the given document with the default
// history capacity.
func New(doc *document.Document) *Executor {
	return NewWithCapacity(doc, DefaultCapacity)
}

// NewWithCapacity creates an executor with an explicit undo capacity.
func NewWithCapacity(doc *document.Document, capacity int) *Executor {
	if capacity < 1 {
		capacity = 1
	}
	return &Executor{
		doc:      doc,
		capacity: capacity,
		logger:   slog.Default(),
	}
}

// Document returns the current document. Callers must treat it as
// immutable.
func (e *Executor) Document() *document.Document { return e.doc }

// Selection returns the current selection ids in order.
func (e *Executor) Selection() []string {
	out := make([]string, len(e.selection))
	copy(out, e.selection)
	return out
}

// SetSelection replaces the current selection. Selection changes are
// not commands and do not touch history.
func (e *Executor) SetSelection(ids []string) {
	e.selection = make([]string, len(ids))
	copy(e.selection, ids)
}

// Replace swaps in a different document wholesale (e.g. opening another
// file) and clears all history and selection.
func (e *Executor) Replace(doc *document.Document) {
	e.doc = doc
	e.selection = nil
	e.undo = nil
	e.redo = nil
}

// Execute applies the command against the current document. A command
// that performs no change, by returning the same document reference or
// a deep-equal tree, is not recorded. Returns whether a history entry
// was pushed.
func (e *Executor) Execute(cmd command.Command) bool {
	return e.ExecuteWithSelection(cmd, nil)
}

// ExecuteWithSelection executes the command and, if it changed the
// document, installs the given selection as the post-command selection
// recorded in the history entry. A nil selection keeps the current one.
// Used by gestures whose result should be selected (duplicate, group).
func (e *Executor) ExecuteWithSelection(cmd command.Command, selectionAfter []string) bool {
	if cmd == nil {
		return false
	}
	before := e.doc
	selBefore := e.Selection()

	after := cmd.Apply(command.Context{Document: before, Selection: selBefore})
	if after == before || document.Equal(before, after) {
		return false
	}

	inverse := cmd.Invert(before, after)
	if inverse == nil {
		// Degraded case: keep the stack structurally consistent.
		e.logger.Warn("command provided no inverse, installing no-op", "command", cmd.ID())
		inverse = noop{}
	}

	e.doc = after
	if selectionAfter != nil {
		e.SetSelection(selectionAfter)
	}
	e.undo = append(e.undo, Entry{
		Forward:         cmd,
		Inverse:         inverse,
		SelectionBefore: selBefore,
		SelectionAfter:  e.Selection(),
		DocumentBefore:  before,
		DocumentAfter:   after,
	})
	if len(e.undo) > e.capacity {
		e.undo = e.undo[len(e.undo)-e.capacity:]
	}
	e.redo = nil
	return true
}

// AmendSelection sets the current selection and records it as the
// post-command selection of the most recent history entry. Used by
// gestures that can only know the resulting selection after the command
// ran, e.g. selecting the clones a duplicate produced.
func (e *Executor) AmendSelection(ids []string) {
	e.SetSelection(ids)
	if len(e.undo) > 0 {
		e.undo[len(e.undo)-1].SelectionAfter = e.Selection()
	}
}

// Undo reverts the most recent command and restores the selection that
// existed before it ran. The entry moves to the redo stack so the
// operation is exactly replayable.
func (e *Executor) Undo() bool {
	if len(e.undo) == 0 {
		return false
	}
	entry := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]

	e.doc = entry.Inverse.Apply(command.Context{Document: e.doc, Selection: e.selection})
	e.selection = entry.SelectionBefore
	e.redo = append(e.redo, entry)
	return true
}

// Redo re-applies the most recently undone command and restores the
// selection that existed after it originally ran.
func (e *Executor) Redo() bool {
	if len(e.redo) == 0 {
		return false
	}
	entry := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]

	e.doc = entry.Forward.Apply(command.Context{Document: e.doc, Selection: e.selection})
	e.selection = entry.SelectionAfter
	e.undo = append(e.undo, entry)
	return true
}

// CanUndo reports whether an undo entry is available.
func (e *Executor) CanUndo() bool { return len(e.undo) > 0 }

// CanRedo reports whether a redo entry is available.
func (e *Executor) CanRedo() bool { return len(e.redo) > 0 }

// HistorySize returns the number of entries on the undo stack.
func (e *Executor) HistorySize() int { return len(e.undo) }

// noop is the placeholder inverse for commands that decline to provide
// one.
type noop struct{}

func (noop) ID() string { return "noop" }

func (noop) Apply(ctx command.Context) *document.Document { return ctx.Document }

func (noop) Invert(before, after *document.Document) command.Command { return noop{} }
