package ast

// NodeID uniquely identifies an AST node across a single optimizer run.
type NodeID uint32

// Metadata carries bookkeeping attached to nodes: an ID, whether the node
// is annotated with a skip marker preserved from the input, and a cache
// slot field for tests and tooling. The pass itself reads only Skip.
type Metadata struct {
	NodeID NodeID

	// Skip marks a statement whose rewrite is suppressed; it is emitted
	// unchanged by the Optimizer's statement walk.
	Skip bool

	// Slot records a cache slot for this node when HasSlot is set.
	// Purely diagnostic; the optimizer does not fill it in.
	Slot int
	HasSlot bool
}

// NodeTracker assigns monotonically increasing NodeIDs.
type NodeTracker struct {
	next NodeID
}

func NewNodeTracker() *NodeTracker {
	return &NodeTracker{next: 1}
}

func (t *NodeTracker) GenerateID() NodeID {
	id := t.next
	t.next++
	return id
}

// EnsureMetadata returns a node's metadata, allocating an empty one (and
// assigning it a fresh ID) the first time it is requested.
func EnsureMetadata(n Node, tracker *NodeTracker) *Metadata {
	if m := n.Metadata(); m != nil {
		return m
	}
	m := &Metadata{NodeID: tracker.GenerateID()}
	n.SetMetadata(m)
	return m
}
