package document

import (
	"errors"
	"fmt"

	"github.com/0xalexb/hjarta-conf/config/keypath"
)

// ErrStructuralConflict is returned when a path runs through a scalar or sequence
// where a mapping is required.
var ErrStructuralConflict = errors.New("structural conflict")

// ErrRootNotMapping is returned when a document root is not a mapping.
var ErrRootNotMapping = errors.New("document root must be a mapping")

// Document is a configuration tree rooted at a mapping.
type Document struct {
	root *Node
}

// New creates an empty document.
func New() *Document {
	return &Document{root: NewMapping()}
}

// FromRoot wraps root in a Document, taking ownership of it.
func FromRoot(root *Node) (*Document, error) {
	if root == nil {
		return New(), nil
	}

	if root.Kind() != KindMapping {
		return nil, fmt.Errorf("%w: got %s", ErrRootNotMapping, root.Kind())
	}

	return &Document{root: root}, nil
}

// Root returns the root mapping.
func (d *Document) Root() *Node {
	return d.root
}

// Get returns the node at path.
// The root path returns the root itself. Paths that run into a scalar or
// sequence before their last segment are reported as missing.
func (d *Document) Get(path keypath.Path) (*Node, bool) {
	node := d.root

	for i := range path.Len() {
		child, ok := node.Child(path.Segment(i))
		if !ok {
			return nil, false
		}

		node = child
	}

	return node, true
}

// Set stores a copy of node at path, creating intermediate mappings as needed.
func (d *Document) Set(path keypath.Path, node *Node) error {
	if path.IsRoot() {
		return fmt.Errorf("%w: cannot replace the document root", ErrStructuralConflict)
	}

	if node == nil {
		node = NewScalar(nil)
	}

	parent := d.root

	for i := range path.Len() - 1 {
		segment := path.Segment(i)

		child, ok := parent.Child(segment)
		if !ok {
			child = NewMapping()
			parent.Put(segment, child)
		}

		if child.Kind() != KindMapping {
			return fmt.Errorf("%w: %q holds a %s", ErrStructuralConflict, path.String(), child.Kind())
		}

		parent = child
	}

	parent.Put(path.Last(), node.Clone())

	return nil
}

// Remove deletes the entry at path and reports whether anything was removed.
// The root itself cannot be removed.
func (d *Document) Remove(path keypath.Path) bool {
	if path.IsRoot() {
		return false
	}

	parent, ok := d.Get(path.Parent())
	if !ok {
		return false
	}

	return parent.Delete(path.Last())
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	return &Document{root: d.root.Clone()}
}

// Equal reports whether both documents hold identical trees.
func (d *Document) Equal(other *Document) bool {
	return d.root.Equal(other.root)
}

// LeafPaths lists the path of every leaf: scalars, sequences and empty mappings.
// The root is never listed, even when empty.
func (d *Document) LeafPaths() []keypath.Path {
	var paths []keypath.Path

	collectLeaves(d.root, keypath.Path{}, &paths)

	return paths
}

func collectLeaves(node *Node, prefix keypath.Path, paths *[]keypath.Path) {
	for _, key := range node.keys {
		child := node.children[key]
		childPath := prefix.Child(key)

		if child.Kind() == KindMapping && child.Len() > 0 {
			collectLeaves(child, childPath, paths)

			continue
		}

		*paths = append(*paths, childPath)
	}
}
