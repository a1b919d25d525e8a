package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/0xalexb/hjarta-conf/config/document"
	"github.com/0xalexb/hjarta-conf/config/keypath"

	"github.com/goccy/go-yaml"
)

var (
	// ErrPathNotFound is returned when the specified path is not found in the YAML document.
	ErrPathNotFound = errors.New("path not found")
	// ErrUnsupportedKey is returned for mapping keys that are not scalars.
	ErrUnsupportedKey = errors.New("unsupported mapping key")
	// ErrDuplicateKey is returned when two keys of one mapping read the same as strings, like 1 and "1".
	ErrDuplicateKey = errors.New("duplicate mapping key")
)

// Codec implements config.Codec for YAML data.
type Codec struct{}

// NewCodec creates a new YAML codec instance.
func NewCodec() *Codec {
	return &Codec{}
}

// Decode parses YAML data into a document.
// Empty input, or input holding only comments, yields an empty document.
// Scalar keys that are not strings are stored in their string form, so 1: a
// is written back as "1": a.
func (c *Codec) Decode(data []byte) (*document.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return document.New(), nil
	}

	var raw any

	err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap())
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	if raw == nil {
		return document.New(), nil
	}

	root, err := toNode(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	doc, err := document.FromRoot(root)
	if err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	return doc, nil
}

// Encode renders a document as YAML, keeping mapping order.
func (c *Codec) Encode(doc *document.Document) ([]byte, error) {
	data, err := yaml.MarshalWithOptions(toValue(doc.Root()), yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	return data, nil
}

// Lookup unmarshals the value at path inside raw YAML data into target.
// The root path unmarshals the entire document.
func (c *Codec) Lookup(data []byte, target any, path keypath.Path) error {
	if path.IsRoot() {
		err := yaml.Unmarshal(data, target)
		if err != nil {
			return fmt.Errorf("unmarshal error: %w", err)
		}

		return nil
	}

	pathObj, err := yaml.PathString(convertToYAMLPath(path))
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}

	err = pathObj.Read(bytes.NewReader(data), target)
	if err != nil {
		if yaml.IsNotFoundNodeError(err) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}

		return fmt.Errorf("reading path %q: %w", path, err)
	}

	return nil
}

// Convert decodes node into target using YAML typing rules.
// It fails when the stored shape or scalar cannot be interpreted as target's type.
func Convert(node *document.Node, target any) error {
	data, err := yaml.Marshal(toValue(node))
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	err = yaml.Unmarshal(data, target)
	if err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}

	return nil
}

// NodeOf converts any YAML-marshalable value, structs included, into a node.
// Struct fields keep their declaration order.
func NodeOf(value any) (*document.Node, error) {
	data, err := yaml.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	var raw any

	err = yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap())
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	return toNode(raw)
}

// convertToYAMLPath converts a keypath to goccy/go-yaml PathString format.
// Examples:
//   - "key" -> "$.key"
//   - "api.permissions" -> "$.api.permissions"
func convertToYAMLPath(path keypath.Path) string {
	return "$." + strings.Join(path.Segments(), ".")
}

func toNode(raw any) (*document.Node, error) {
	switch value := raw.(type) {
	case yaml.MapSlice:
		mapping := document.NewMapping()

		for _, item := range value {
			key, err := keyString(item.Key)
			if err != nil {
				return nil, err
			}

			err = putChild(mapping, key, item.Value)
			if err != nil {
				return nil, err
			}
		}

		return mapping, nil
	case map[string]any:
		keys := make([]string, 0, len(value))
		for key := range value {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		mapping := document.NewMapping()

		for _, key := range keys {
			err := putChild(mapping, key, value[key])
			if err != nil {
				return nil, err
			}
		}

		return mapping, nil
	case []any:
		sequence := document.NewSequence()

		for _, item := range value {
			child, err := toNode(item)
			if err != nil {
				return nil, err
			}

			sequence.Append(child)
		}

		return sequence, nil
	default:
		return document.NewScalar(normalizeScalar(value)), nil
	}
}

func putChild(mapping *document.Node, key string, raw any) error {
	if _, exists := mapping.Child(key); exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}

	child, err := toNode(raw)
	if err != nil {
		return fmt.Errorf("key %q: %w", key, err)
	}

	mapping.Put(key, child)

	return nil
}

func keyString(key any) (string, error) {
	switch value := key.(type) {
	case string:
		return value, nil
	case nil:
		return "", fmt.Errorf("%w: null", ErrUnsupportedKey)
	case yaml.MapSlice, map[string]any, []any, map[any]any:
		return "", fmt.Errorf("%w: %v", ErrUnsupportedKey, value)
	default:
		return fmt.Sprint(value), nil
	}
}

// normalizeScalar narrows decoded integers to int when they fit.
func normalizeScalar(value any) any {
	switch number := value.(type) {
	case int64:
		if number >= math.MinInt && number <= math.MaxInt {
			return int(number)
		}
	case uint64:
		if number <= math.MaxInt {
			return int(number)
		}
	}

	return value
}

func toValue(node *document.Node) any {
	switch node.Kind() {
	case document.KindMapping:
		keys := node.Keys()
		slice := make(yaml.MapSlice, 0, len(keys))

		for _, key := range keys {
			child, _ := node.Child(key)
			slice = append(slice, yaml.MapItem{Key: key, Value: toValue(child)})
		}

		return slice
	case document.KindSequence:
		items := node.Items()
		values := make([]any, len(items))

		for i, item := range items {
			values[i] = toValue(item)
		}

		return values
	default:
		return node.Scalar()
	}
}
