package document

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"sort"
)

// ErrUnsupportedValue is returned when a Go value has no node representation.
var ErrUnsupportedValue = errors.New("unsupported value")

// Kind identifies the shape of a node.
type Kind int

const (
	// KindScalar is a leaf value.
	KindScalar Kind = iota
	// KindMapping is an ordered set of keyed children.
	KindMapping
	// KindSequence is an ordered list of children.
	KindSequence
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Node is a single element of a document tree.
type Node struct {
	kind     Kind
	scalar   any
	keys     []string
	children map[string]*Node
	items    []*Node
}

// NewScalar creates a leaf holding value. Nil yields a null scalar.
func NewScalar(value any) *Node {
	return &Node{kind: KindScalar, scalar: value}
}

// NewMapping creates an empty mapping.
func NewMapping() *Node {
	return &Node{kind: KindMapping, children: make(map[string]*Node)}
}

// NewSequence creates a sequence owning items.
func NewSequence(items ...*Node) *Node {
	return &Node{kind: KindSequence, items: items}
}

// Kind returns the node kind.
func (n *Node) Kind() Kind {
	return n.kind
}

// Scalar returns the leaf value. It is nil for mappings and sequences.
func (n *Node) Scalar() any {
	return n.scalar
}

// Len returns the number of entries of a mapping or items of a sequence.
func (n *Node) Len() int {
	switch n.kind {
	case KindMapping:
		return len(n.keys)
	case KindSequence:
		return len(n.items)
	default:
		return 0
	}
}

// Keys returns a snapshot of the mapping keys in order.
// Mutating the mapping afterwards does not affect the returned slice.
func (n *Node) Keys() []string {
	return slices.Clone(n.keys)
}

// Child returns the child stored under key.
func (n *Node) Child(key string) (*Node, bool) {
	if n.kind != KindMapping {
		return nil, false
	}

	child, ok := n.children[key]

	return child, ok
}

// Put stores child under key, taking ownership of it.
// A new key is appended; an existing key keeps its position.
// Put on a non-mapping node is a no-op.
func (n *Node) Put(key string, child *Node) {
	if n.kind != KindMapping {
		return
	}

	if child == nil {
		child = NewScalar(nil)
	}

	if _, exists := n.children[key]; !exists {
		n.keys = append(n.keys, key)
	}

	n.children[key] = child
}

// Delete removes key from a mapping and reports whether it was present.
func (n *Node) Delete(key string) bool {
	if n.kind != KindMapping {
		return false
	}

	if _, exists := n.children[key]; !exists {
		return false
	}

	delete(n.children, key)

	idx := slices.Index(n.keys, key)
	n.keys = slices.Delete(n.keys, idx, idx+1)

	return true
}

// Items returns a snapshot of the sequence items.
func (n *Node) Items() []*Node {
	return slices.Clone(n.items)
}

// Append adds an item to a sequence, taking ownership of it.
func (n *Node) Append(item *Node) {
	if n.kind != KindSequence {
		return
	}

	n.items = append(n.items, item)
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	switch n.kind {
	case KindMapping:
		clone := NewMapping()
		for _, key := range n.keys {
			clone.Put(key, n.children[key].Clone())
		}

		return clone
	case KindSequence:
		items := make([]*Node, len(n.items))
		for i, item := range n.items {
			items[i] = item.Clone()
		}

		return NewSequence(items...)
	default:
		return NewScalar(n.scalar)
	}
}

// Equal reports whether both trees have the same shape, key order and scalar values.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}

	if n.kind != other.kind {
		return false
	}

	switch n.kind {
	case KindMapping:
		if !slices.Equal(n.keys, other.keys) {
			return false
		}

		for _, key := range n.keys {
			if !n.children[key].Equal(other.children[key]) {
				return false
			}
		}

		return true
	case KindSequence:
		return slices.EqualFunc(n.items, other.items, (*Node).Equal)
	default:
		return reflect.DeepEqual(n.scalar, other.scalar)
	}
}

// Value converts the node into plain Go values:
// scalars as stored, mappings as map[string]any and sequences as []any.
func (n *Node) Value() any {
	switch n.kind {
	case KindMapping:
		out := make(map[string]any, len(n.keys))
		for _, key := range n.keys {
			out[key] = n.children[key].Value()
		}

		return out
	case KindSequence:
		out := make([]any, len(n.items))
		for i, item := range n.items {
			out[i] = item.Value()
		}

		return out
	default:
		return n.scalar
	}
}

// IsEmptyMapping reports whether node is a mapping with no entries.
func IsEmptyMapping(node *Node) bool {
	return node != nil && node.kind == KindMapping && len(node.keys) == 0
}

// FromValue builds a node from a Go value.
//
// Booleans, strings, numbers and nil become scalars. Maps with string keys become
// mappings with keys sorted, since Go maps carry no order. Slices and arrays become
// sequences. A *Node is deep-copied. Anything else yields ErrUnsupportedValue.
func FromValue(value any) (*Node, error) {
	switch typed := value.(type) {
	case nil:
		return NewScalar(nil), nil
	case *Node:
		return typed.Clone(), nil
	case string, bool:
		return NewScalar(typed), nil
	case []byte:
		return NewScalar(string(typed)), nil
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewScalar(int(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt {
			return NewScalar(u), nil
		}

		return NewScalar(int(u)), nil
	case reflect.Float32, reflect.Float64:
		return NewScalar(rv.Float()), nil
	case reflect.String:
		return NewScalar(rv.String()), nil
	case reflect.Bool:
		return NewScalar(rv.Bool()), nil
	case reflect.Map:
		return mappingFromValue(rv)
	case reflect.Slice, reflect.Array:
		return sequenceFromValue(rv)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NewScalar(nil), nil
		}

		return FromValue(rv.Elem().Interface())
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
	}
}

func mappingFromValue(rv reflect.Value) (*Node, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("%w: map key type %s", ErrUnsupportedValue, rv.Type().Key())
	}

	keys := make([]string, 0, rv.Len())
	for _, key := range rv.MapKeys() {
		keys = append(keys, key.String())
	}

	sort.Strings(keys)

	mapping := NewMapping()

	for _, key := range keys {
		child, err := FromValue(rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key())).Interface())
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		mapping.Put(key, child)
	}

	return mapping, nil
}

func sequenceFromValue(rv reflect.Value) (*Node, error) {
	sequence := NewSequence()

	for i := range rv.Len() {
		item, err := FromValue(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}

		sequence.Append(item)
	}

	return sequence, nil
}
