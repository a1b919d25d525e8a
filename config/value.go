package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/0xalexb/hjarta-conf/config/binding"
	yamlcodec "github.com/0xalexb/hjarta-conf/config/codec/yaml"
	"github.com/0xalexb/hjarta-conf/config/document"
	"github.com/0xalexb/hjarta-conf/config/keypath"
)

var errNullValue = errors.New("null value")

// Value is a typed accessor for one declared key.
type Value[T any] struct {
	object       *Object
	binding      *binding.Binding
	defaultValue T
}

// Declare records path with its default on obj and returns an accessor for it.
// It fails with keypath.ErrMalformedPath or binding.ErrDuplicateBinding.
func Declare[T any](obj *Object, path string, defaultValue T) (*Value[T], error) {
	b, err := obj.declare(path, defaultValue)
	if err != nil {
		return nil, err
	}

	return &Value[T]{
		object:       obj,
		binding:      b,
		defaultValue: defaultValue,
	}, nil
}

// MustDeclare is like Declare but panics on error.
// Declarations are fixed at build time, so a failure is a programming error.
func MustDeclare[T any](obj *Object, path string, defaultValue T) *Value[T] {
	value, err := Declare(obj, path, defaultValue)
	if err != nil {
		panic(err)
	}

	return value
}

// Path returns the declared path.
func (v *Value[T]) Path() keypath.Path {
	return v.binding.Path()
}

// Default returns the declared default.
func (v *Value[T]) Default() T {
	return v.defaultValue
}

// Binding returns the registry entry backing this accessor.
func (v *Value[T]) Binding() *binding.Binding {
	return v.binding
}

// Read returns the stored value converted to T.
// The default is returned when the key is missing, null, or not convertible.
func (v *Value[T]) Read() T {
	node, found := v.object.doc.Get(v.binding.Path())
	if !found {
		return v.defaultValue
	}

	value, err := decode[T](node)
	if err != nil {
		v.object.logger.Debug("using default value",
			slog.String("path", v.binding.Path().String()),
			slog.String("reason", err.Error()),
		)

		return v.defaultValue
	}

	return value
}

// Write stores value at the declared path.
// It fails with document.ErrStructuralConflict when a scalar or sequence sits
// where a parent mapping is needed.
func (v *Value[T]) Write(value T) error {
	node, err := nodeOf(value)
	if err != nil {
		return fmt.Errorf("writing %s: %w", v.binding.Path(), err)
	}

	err = v.object.doc.Set(v.binding.Path(), node)
	if err != nil {
		return fmt.Errorf("writing %s: %w", v.binding.Path(), err)
	}

	return nil
}

// Unset removes the stored value so Read returns the default again.
// It reports whether a value was removed.
func (v *Value[T]) Unset() bool {
	return v.object.doc.Remove(v.binding.Path())
}

func decode[T any](node *document.Node) (T, error) {
	var out T

	if node.Kind() == document.KindScalar && node.Scalar() == nil {
		return out, errNullValue
	}

	if typed, ok := node.Value().(T); ok {
		return typed, nil
	}

	err := yamlcodec.Convert(node, &out)
	if err != nil {
		return out, fmt.Errorf("converting %s to %T: %w", node.Kind(), out, err)
	}

	return out, nil
}

// nodeOf converts a Go value to a node, falling back to YAML marshaling for
// types document.FromValue does not know, such as structs.
func nodeOf(value any) (*document.Node, error) {
	node, err := document.FromValue(value)
	if err == nil {
		return node, nil
	}

	if !errors.Is(err, document.ErrUnsupportedValue) {
		return nil, err
	}

	node, err = yamlcodec.NodeOf(value)
	if err != nil {
		return nil, fmt.Errorf("converting %T: %w", value, err)
	}

	return node, nil
}
