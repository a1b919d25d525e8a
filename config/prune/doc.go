// Package prune removes configuration keys nobody declared.
//
// Given a document root and the set of declared paths, Prune keeps:
//   - every key that lies on the way to a declared path
//   - the complete subtree at each declared path, whatever its shape
//
// and deletes everything else. A mapping that loses all of its entries because
// of the deletions is removed from its parent as well, cascading upwards. The
// root always survives, even when it ends up empty.
//
// Decisions are made on path membership only. Values are never inspected, so
// scalars, sequences and mappings below a declared path are all kept verbatim,
// and a sequence or scalar sitting where a declared path needs a mapping is
// dropped wholesale.
//
// Prune is idempotent: running it again with the same paths removes nothing.
package prune
