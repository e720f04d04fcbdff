// Package plantree projects an ExecutionPlan into a flat, index-addressed
// tree suitable for interactive display. Entries reference children by index
// only; there are no parent pointers and no cycles, so the structure hashes
// and serializes trivially.
package plantree

import (
	"encoding/json"
	"fmt"
	"hash/fnv"

	"github.com/sqltrace/sqltrace/internal/model"
)

// Policy controls the default expansion state of freshly built trees.
type Policy struct {
	// ExpandAll expands every node regardless of depth.
	ExpandAll bool `json:"expand_all"`
	// ExpandLevels expands nodes shallower than this depth when ExpandAll
	// is false. Zero collapses everything.
	ExpandLevels int `json:"expand_levels"`
}

// DefaultPolicy expands the first two levels.
func DefaultPolicy() Policy {
	return Policy{ExpandLevels: 2}
}

func (p Policy) expanded(level int) bool {
	return p.ExpandAll || level < p.ExpandLevels
}

// NodeUI is one entry of the flat tree: the source node data plus the
// visual state attached to it.
type NodeUI struct {
	Expanded bool `json:"expanded"`
	// Children holds indices into the owning Tree's Nodes slice. Each index
	// appears in exactly one parent's list.
	Children []int           `json:"children"`
	Level    int             `json:"level"`
	Node     *model.PlanNode `json:"node"`
}

// Tree is the flat projection of one ExecutionPlan.
type Tree struct {
	Nodes       []NodeUI `json:"nodes"`
	RootIndices []int    `json:"root_indices"`

	policy   Policy
	lastHash uint64
	hashed   bool
}

// Build indexes the plan depth-first in pre-order: each node is appended at
// the current sequence length, children are recursed into, and the parent's
// child-index list is fixed up afterwards.
func Build(plan *model.ExecutionPlan, policy Policy) (*Tree, error) {
	if plan == nil || plan.Root == nil {
		return nil, fmt.Errorf("plantree: missing plan root")
	}
	t := &Tree{policy: policy}
	t.buildNode(plan.Root, 0, -1)

	hash, err := planHash(plan)
	if err != nil {
		return nil, err
	}
	t.lastHash = hash
	t.hashed = true
	return t, nil
}

func (t *Tree) buildNode(node *model.PlanNode, level, parentIndex int) int {
	index := len(t.Nodes)
	t.Nodes = append(t.Nodes, NodeUI{
		Expanded: t.policy.expanded(level),
		Level:    level,
		Node:     node,
	})

	childIndices := make([]int, 0, len(node.Plans))
	for _, child := range node.Plans {
		childIndices = append(childIndices, t.buildNode(child, level+1, index))
	}
	t.Nodes[index].Children = childIndices

	if parentIndex < 0 {
		t.RootIndices = append(t.RootIndices, index)
	}
	return index
}

// Rebuild re-indexes the tree from plan unless the serialized plan content
// is unchanged since the last build. It reports whether a rebuild happened.
// Traversal order is deterministic, so identical input yields identical
// index assignment.
func (t *Tree) Rebuild(plan *model.ExecutionPlan) (bool, error) {
	if plan == nil || plan.Root == nil {
		return false, fmt.Errorf("plantree: missing plan root")
	}
	hash, err := planHash(plan)
	if err != nil {
		return false, err
	}
	if t.hashed && hash == t.lastHash {
		return false, nil
	}

	t.Nodes = nil
	t.RootIndices = nil
	t.buildNode(plan.Root, 0, -1)
	t.lastHash = hash
	t.hashed = true
	return true, nil
}

// ParentOf returns the index of the entry whose child list contains index,
// or -1 for roots and out-of-range indices. Parents are found by scanning;
// entries deliberately carry no parent pointers.
func (t *Tree) ParentOf(index int) int {
	if index < 0 || index >= len(t.Nodes) {
		return -1
	}
	for i := range t.Nodes {
		for _, child := range t.Nodes[i].Children {
			if child == index {
				return i
			}
		}
	}
	return -1
}

// Len returns the number of indexed entries.
func (t *Tree) Len() int { return len(t.Nodes) }

// planHash computes a non-cryptographic content hash of the serialized plan
// for change detection.
func planHash(plan *model.ExecutionPlan) (uint64, error) {
	data, err := json.Marshal(plan)
	if err != nil {
		return 0, fmt.Errorf("plantree: hash plan: %w", err)
	}
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64(), nil
}
