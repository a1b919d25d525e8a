// Package binding keeps track of the configuration keys a program declares.
//
// Each Binding pairs a keypath.Path with the default value used when the
// document has no usable value at that path. A Registry holds the bindings of
// one configuration object in declaration order and rejects a second
// declaration of the same path.
//
// The declared paths are the only input, besides the document itself, that
// redundant-key pruning needs. Every binding a program will ever use must be
// declared before pruning runs; keys of bindings declared later are not
// protected.
package binding
