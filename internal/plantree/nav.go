package plantree

// VisibleNode is one row of the flattened, expansion-aware view.
type VisibleNode struct {
	Index int
	Level int
}

// VisibleNodes flattens the roots in pre-order, descending into children
// only when the parent is expanded.
func (t *Tree) VisibleNodes() []VisibleNode {
	var out []VisibleNode
	var walk func(indices []int, level int)
	walk = func(indices []int, level int) {
		for _, idx := range indices {
			if idx < 0 || idx >= len(t.Nodes) {
				continue
			}
			out = append(out, VisibleNode{Index: idx, Level: level})
			entry := &t.Nodes[idx]
			if entry.Expanded && len(entry.Children) > 0 {
				walk(entry.Children, level+1)
			}
		}
	}
	walk(t.RootIndices, 0)
	return out
}

// Session carries the navigation state for one viewer of a Tree. Each
// concurrent session owns its own Session value; the selection and scroll
// position are never ambient.
type Session struct {
	tree *Tree

	// Selected is an index into tree.Nodes, or -1 when nothing is selected.
	Selected     int
	ScrollOffset int
}

// NewSession starts a session with the first root selected, when present.
func NewSession(tree *Tree) *Session {
	s := &Session{tree: tree, Selected: -1}
	if len(tree.RootIndices) > 0 {
		s.Selected = tree.RootIndices[0]
	}
	return s
}

// Tree returns the tree this session navigates.
func (s *Session) Tree() *Tree { return s.tree }

func (s *Session) selectedEntry() *NodeUI {
	if s.Selected < 0 || s.Selected >= len(s.tree.Nodes) {
		return nil
	}
	return &s.tree.Nodes[s.Selected]
}

// MoveSelection moves the selection by delta positions within the visible
// list, clamping at both ends.
func (s *Session) MoveSelection(delta int) {
	visible := s.tree.VisibleNodes()
	if len(visible) == 0 {
		return
	}
	if s.Selected < 0 {
		s.Selected = visible[0].Index
		return
	}

	pos := 0
	for i, v := range visible {
		if v.Index == s.Selected {
			pos = i
			break
		}
	}

	pos += delta
	if pos < 0 {
		pos = 0
	}
	if pos > len(visible)-1 {
		pos = len(visible) - 1
	}
	s.Selected = visible[pos].Index
}

// ExpandRight expands a collapsed parent and moves the selection to its
// first child; on an already-expanded parent it moves to the first child.
// On a leaf it is a no-op.
func (s *Session) ExpandRight() {
	if s.Selected < 0 && len(s.tree.RootIndices) > 0 {
		s.Selected = s.tree.RootIndices[0]
	}
	entry := s.selectedEntry()
	if entry == nil || len(entry.Children) == 0 {
		return
	}
	if !entry.Expanded {
		entry.Expanded = true
	}
	s.Selected = entry.Children[0]
}

// CollapseLeft collapses an expanded node in place; on an already-collapsed
// node it moves the selection to the parent.
func (s *Session) CollapseLeft() {
	entry := s.selectedEntry()
	if entry == nil {
		return
	}
	if entry.Expanded && len(entry.Children) > 0 {
		entry.Expanded = false
		return
	}
	if parent := s.tree.ParentOf(s.Selected); parent >= 0 {
		s.Selected = parent
	}
}

// Toggle flips the expansion state of the selected node. Expanding a parent
// moves the selection to its first child.
func (s *Session) Toggle() {
	entry := s.selectedEntry()
	if entry == nil || len(entry.Children) == 0 {
		return
	}
	entry.Expanded = !entry.Expanded
	if entry.Expanded {
		s.Selected = entry.Children[0]
	}
}
