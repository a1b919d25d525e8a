// Package file provides a file-based Store implementation for the config package.
//
// Unlike a read-once fetcher, the Store opens the file on every call: Fetch
// reads the current contents so a reload observes edits made on disk, and
// Persist writes through a temporary file in the same directory followed by a
// rename, so readers never see a half-written configuration.
//
// A missing file is not an error for Fetch; it yields empty data, which the
// codec turns into an empty document. The first Persist creates the file and
// any missing parent directories.
//
// Usage:
//
//	store, err := file.NewStore("/path/to/config.yaml")()
//	if err != nil {
//	    // Handle error: path is a directory, stat failure, etc.
//	}
//	data, err := store.Fetch()
//
// Error Handling:
//   - Errors include the filepath for easier debugging
//   - Use errors.Is(err, file.ErrPathIsDirectory) to check for directory errors
package file
