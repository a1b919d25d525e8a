// Package config binds declared configuration keys to a hierarchical document
// and removes the keys nobody declared.
//
// An Object owns one document.Document, loaded through two collaborators:
//   - Store: reads and writes raw bytes (file, embedded data, etc.)
//   - Codec: turns raw bytes into a document and back
//
// Application code declares the keys it uses with Declare, which records the
// path in the object's binding registry and returns a typed accessor:
//
//	obj, err := config.New(yamlcodec.NewCodec(), store)
//	port, err := config.Declare(obj, "server.port", 25565)
//	fmt.Println(port.Read())
//
// Read falls back to the declared default when the key is missing or its value
// cannot be interpreted as the accessor's type. Write stores through to the
// document immediately; Save persists it.
//
// # Redundant keys
//
// PruneRedundant deletes every key that is not declared, not on the way to a
// declared key, and not inside a declared mapping or sequence. Declare every
// binding before pruning: keys of bindings declared afterwards are gone.
//
// # Path Navigation
//
// Paths use the dot (.) as the separator:
//
//	"api.permissions"           -> config["api"]["permissions"]
//	"database.connection"       -> config["database"]["connection"]
//
// # Sections
//
// Provider reads a whole subtree into a struct, applying Defaulter and
// Validator when the struct implements them. The subtree path is declared, so
// pruning keeps it verbatim.
package config
