package binding

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/0xalexb/hjarta-conf/config/document"
	"github.com/0xalexb/hjarta-conf/config/keypath"
)

// ErrDuplicateBinding is returned when a path is declared twice on one registry.
var ErrDuplicateBinding = errors.New("path already declared")

// Binding is one declared configuration key.
type Binding struct {
	path            keypath.Path
	defaultValue    any
	kind            document.Kind
	preserveSubtree bool
}

// Path returns the declared path.
func (b *Binding) Path() keypath.Path {
	return b.path
}

// Default returns the declared default value.
func (b *Binding) Default() any {
	return b.defaultValue
}

// Kind returns the node kind inferred from the default value.
func (b *Binding) Kind() document.Kind {
	return b.kind
}

// PreserveSubtree reports whether everything beneath the path is kept verbatim,
// including entries that were never declared individually.
// It is true for mapping and sequence defaults.
func (b *Binding) PreserveSubtree() bool {
	return b.preserveSubtree
}

// Registry is an insertion-ordered set of bindings with unique paths.
type Registry struct {
	bindings []*Binding
	index    map[string]*Binding
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		index: make(map[string]*Binding),
	}
}

// Declare records a binding for path with the given default.
// Returns ErrDuplicateBinding if path is already declared.
func (r *Registry) Declare(path keypath.Path, defaultValue any) (*Binding, error) {
	if path.IsRoot() {
		return nil, fmt.Errorf("%w: the document root cannot be declared", keypath.ErrMalformedPath)
	}

	key := path.String()

	if _, exists := r.index[key]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateBinding, key)
	}

	kind := KindOf(defaultValue)
	binding := &Binding{
		path:            path,
		defaultValue:    defaultValue,
		kind:            kind,
		preserveSubtree: kind != document.KindScalar,
	}

	r.bindings = append(r.bindings, binding)
	r.index[key] = binding

	return binding, nil
}

// Lookup returns the binding declared for path.
func (r *Registry) Lookup(path keypath.Path) (*Binding, bool) {
	binding, ok := r.index[path.String()]

	return binding, ok
}

// Len returns the number of declared bindings.
func (r *Registry) Len() int {
	return len(r.bindings)
}

// Bindings returns the bindings in declaration order.
func (r *Registry) Bindings() []*Binding {
	result := make([]*Binding, len(r.bindings))
	copy(result, r.bindings)

	return result
}

// DeclaredPaths returns every declared path in declaration order.
func (r *Registry) DeclaredPaths() []keypath.Path {
	paths := make([]keypath.Path, len(r.bindings))
	for i, binding := range r.bindings {
		paths[i] = binding.path
	}

	return paths
}

// KindOf infers the node kind a default value maps to.
// Maps and structs are mappings, slices and arrays (other than []byte) are
// sequences, everything else is a scalar.
func KindOf(value any) document.Kind {
	if node, ok := value.(*document.Node); ok && node != nil {
		return node.Kind()
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		return document.KindMapping
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return document.KindScalar
		}

		return document.KindSequence
	default:
		return document.KindScalar
	}
}
