package prune

import (
	"strings"

	"github.com/0xalexb/hjarta-conf/config/document"
	"github.com/0xalexb/hjarta-conf/config/keypath"
)

// Prune deletes every entry of root that is neither declared, an ancestor of a
// declared path, nor inside a declared subtree. It returns the removed paths in
// deletion order; entries nested in a removed subtree are not listed separately.
//
// root must be a mapping. Any other node is left untouched.
func Prune(root *document.Node, declared []keypath.Path) []keypath.Path {
	if root == nil || root.Kind() != document.KindMapping {
		return nil
	}

	pruner := newPruner(declared)
	pruner.walk(root, keypath.Path{})

	return pruner.removed
}

// Redundant reports what Prune would remove, without mutating root.
func Redundant(root *document.Node, declared []keypath.Path) []keypath.Path {
	if root == nil {
		return nil
	}

	return Prune(root.Clone(), declared)
}

type pruner struct {
	declared  map[string]struct{}
	ancestors map[string]struct{}
	removed   []keypath.Path
}

func newPruner(declared []keypath.Path) *pruner {
	pruner := &pruner{
		declared:  make(map[string]struct{}, len(declared)),
		ancestors: make(map[string]struct{}),
	}

	for _, path := range declared {
		pruner.declared[setKey(path)] = struct{}{}

		for ancestor := path.Parent(); !ancestor.IsRoot(); ancestor = ancestor.Parent() {
			pruner.ancestors[setKey(ancestor)] = struct{}{}
		}
	}

	return pruner
}

// setKey joins segments with a byte keys cannot hold, so a key "a.b" never
// matches the two segments a and b.
func setKey(path keypath.Path) string {
	return strings.Join(path.Segments(), "\x00")
}

func (p *pruner) isDeclared(path keypath.Path) bool {
	_, ok := p.declared[setKey(path)]

	return ok
}

func (p *pruner) isAncestor(path keypath.Path) bool {
	_, ok := p.ancestors[setKey(path)]

	return ok
}

// walk prunes the mapping at prefix and returns how many entries it deleted
// directly from that mapping.
func (p *pruner) walk(mapping *document.Node, prefix keypath.Path) int {
	if !prefix.IsRoot() && p.isDeclared(prefix) {
		return 0
	}

	deleted := 0

	for _, key := range mapping.Keys() {
		childPath := prefix.Child(key)

		switch {
		case p.isDeclared(childPath):
			continue
		case p.isAncestor(childPath):
			child, _ := mapping.Child(key)
			if child.Kind() != document.KindMapping {
				p.remove(mapping, key, childPath)
				deleted++

				continue
			}

			if p.walk(child, childPath) > 0 && document.IsEmptyMapping(child) {
				p.remove(mapping, key, childPath)
				deleted++
			}
		default:
			p.remove(mapping, key, childPath)
			deleted++
		}
	}

	return deleted
}

func (p *pruner) remove(mapping *document.Node, key string, path keypath.Path) {
	if mapping.Delete(key) {
		p.removed = append(p.removed, path)
	}
}
