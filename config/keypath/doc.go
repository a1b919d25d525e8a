// Package keypath provides the dotted address type used to locate values in a
// configuration document.
//
// A Path is an immutable sequence of non-empty segments. Textual paths use the
// dot (.) as the separator:
//
//	"active"                    -> [active]
//	"section.active_in_section" -> [section active_in_section]
//
// Segments can never contain the separator, so the textual form of a Path is
// unambiguous and doubles as its identity.
package keypath
