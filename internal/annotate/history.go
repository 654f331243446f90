package annotate

// RedoCapacity is the number of undone annotations kept for redo.
const RedoCapacity = 10

// History owns the committed annotation sequence, the optional in-progress
// draft and the redo buffer. Render order is insertion order with the draft
// drawn last.
type History struct {
	items []Annotation
	draft Annotation
	redo  *RedoBuffer[Annotation]
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{redo: NewRedoBuffer[Annotation](RedoCapacity)}
}

// Commit appends a to the sequence. Any pending redo is discarded.
func (h *History) Commit(a Annotation) {
	if a == nil {
		return
	}
	h.items = append(h.items, a)
	h.redo.Clear()
}

// SetDraft replaces the in-progress annotation.
func (h *History) SetDraft(a Annotation) { h.draft = a }

// Draft returns the in-progress annotation or nil.
func (h *History) Draft() Annotation { return h.draft }

// CommitDraft moves the draft into the sequence. It reports false when there
// was no draft.
func (h *History) CommitDraft() bool {
	if h.draft == nil {
		return false
	}
	d := h.draft
	h.draft = nil
	h.Commit(d)
	return true
}

// DiscardDraft drops the draft without committing it.
func (h *History) DiscardDraft() { h.draft = nil }

// Undo moves the last committed annotation to the redo buffer. It is a no-op
// reporting false on an empty sequence.
func (h *History) Undo() bool {
	n := len(h.items)
	if n == 0 {
		return false
	}
	last := h.items[n-1]
	h.items[n-1] = nil
	h.items = h.items[:n-1]
	h.redo.Push(last)
	return true
}

// Redo restores the most recently undone annotation.
func (h *History) Redo() bool {
	a, ok := h.redo.Pop()
	if !ok {
		return false
	}
	h.items = append(h.items, a)
	return true
}

func (h *History) CanUndo() bool { return len(h.items) > 0 }

func (h *History) CanRedo() bool { return !h.redo.IsEmpty() }

// ClearRedo discards pending redo entries, as any new edit does.
func (h *History) ClearRedo() { h.redo.Clear() }

// Len is the number of committed annotations.
func (h *History) Len() int { return len(h.items) }

// Items returns a copy of the committed sequence.
func (h *History) Items() []Annotation {
	out := make([]Annotation, len(h.items))
	copy(out, h.items)
	return out
}

// Visible returns the committed sequence followed by the draft, if any, in
// the order they should be drawn.
func (h *History) Visible() []Annotation {
	out := make([]Annotation, 0, len(h.items)+1)
	out = append(out, h.items...)
	if h.draft != nil {
		out = append(out, h.draft)
	}
	return out
}

// Reset drops everything, used when a new capture replaces the image.
func (h *History) Reset() {
	h.items = nil
	h.draft = nil
	h.redo.Clear()
}
