package keypath

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Separator joins path segments in the textual form.
const Separator = "."

// ErrMalformedPath is returned when a path is empty or contains an empty segment.
var ErrMalformedPath = errors.New("malformed path")

// Path is a dotted-segment address into a configuration document.
// The zero value addresses the document root.
type Path struct {
	segments []string
}

// Parse splits a dotted string into a Path.
// An empty string and strings with empty segments ("a..b", ".a", "a.") are rejected.
func Parse(dotted string) (Path, error) {
	if dotted == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrMalformedPath)
	}

	segments := strings.Split(dotted, Separator)
	for _, segment := range segments {
		if segment == "" {
			return Path{}, fmt.Errorf("%w: %q has an empty segment", ErrMalformedPath, dotted)
		}
	}

	return Path{segments: segments}, nil
}

// MustParse is like Parse but panics on malformed input.
// Intended for package-level path constants.
func MustParse(dotted string) Path {
	path, err := Parse(dotted)
	if err != nil {
		panic(err)
	}

	return path
}

// New builds a Path from individual segments.
func New(segments ...string) (Path, error) {
	for _, segment := range segments {
		if segment == "" {
			return Path{}, fmt.Errorf("%w: empty segment", ErrMalformedPath)
		}

		if strings.Contains(segment, Separator) {
			return Path{}, fmt.Errorf("%w: segment %q contains %q", ErrMalformedPath, segment, Separator)
		}
	}

	return Path{segments: slices.Clone(segments)}, nil
}

// Segments returns a copy of the path segments.
func (p Path) Segments() []string {
	return slices.Clone(p.segments)
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// IsRoot reports whether the path addresses the document root.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Segment returns the i-th segment.
func (p Path) Segment(i int) string {
	return p.segments[i]
}

// Last returns the final segment, or "" for the root path.
func (p Path) Last() string {
	if p.IsRoot() {
		return ""
	}

	return p.segments[len(p.segments)-1]
}

// Parent returns the path without its final segment.
// The parent of the root is the root.
func (p Path) Parent() Path {
	if p.IsRoot() {
		return p
	}

	return Path{segments: p.segments[:len(p.segments)-1:len(p.segments)-1]}
}

// Child returns a new path with key appended.
// The key is not validated; callers walking an existing document pass keys taken from it.
func (p Path) Child(key string) Path {
	segments := make([]string, len(p.segments), len(p.segments)+1)
	copy(segments, p.segments)

	return Path{segments: append(segments, key)}
}

// Equal reports whether both paths have identical segments.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p.segments, other.segments)
}

// IsAncestorOf reports whether p is a strict prefix of other.
func (p Path) IsAncestorOf(other Path) bool {
	if len(p.segments) >= len(other.segments) {
		return false
	}

	return slices.Equal(p.segments, other.segments[:len(p.segments)])
}

// String returns the dotted form. The root path renders as "".
func (p Path) String() string {
	return strings.Join(p.segments, Separator)
}
