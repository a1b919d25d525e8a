// Package document provides the in-memory tree a configuration file is loaded into.
//
// A tree is made of three node kinds:
//   - Scalar: an opaque leaf (string, number, boolean or null)
//   - Mapping: ordered, unique keys each owning one child node
//   - Sequence: an ordered list of child nodes
//
// A Document wraps a root Mapping and offers path-based Get, Set and Remove
// using keypath.Path addresses. Every node has exactly one owner; Set stores a
// copy of the node it is given, so a node can never end up under two parents.
//
// Mapping order is insertion order. Overwriting an existing key keeps its
// position, which lets codecs round-trip files without reshuffling keys.
package document
