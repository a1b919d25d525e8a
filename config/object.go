package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/0xalexb/hjarta-conf/config/binding"
	"github.com/0xalexb/hjarta-conf/config/document"
	"github.com/0xalexb/hjarta-conf/config/keypath"
	"github.com/0xalexb/hjarta-conf/config/prune"
)

// ErrNoStore is returned by Reload and Save on an object created without a Store.
var ErrNoStore = errors.New("no backing store configured")

// ErrNilCodec is returned when an object is created without a Codec.
var ErrNilCodec = errors.New("codec must not be nil")

// Codec converts raw configuration data to a document and back.
// Implementations must keep mapping key order in both directions.
type Codec interface {
	Decode(data []byte) (*document.Document, error)
	Encode(doc *document.Document) ([]byte, error)
}

// Store reads and writes raw configuration data.
// Fetch returns empty data when nothing has been stored yet.
type Store interface {
	Fetch() ([]byte, error)
	Persist(data []byte) error
}

// Object is a configuration document together with the bindings declared on it.
// It is not safe for concurrent use.
type Object struct {
	codec    Codec
	store    Store
	doc      *document.Document
	registry *binding.Registry
	logger   *slog.Logger
}

// Option configures an Object.
type Option func(*Object)

// WithLogger sets the logger used for reload, save and pruning events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Object) {
		o.logger = logger
	}
}

// WithDocument sets the initial document. When a Store is also given,
// New still loads from it and the store contents win.
func WithDocument(doc *document.Document) Option {
	return func(o *Object) {
		o.doc = doc
	}
}

// New creates an Object. When store is not nil the document is loaded from it;
// otherwise the object starts with an empty document and cannot be saved.
func New(codec Codec, store Store, opts ...Option) (*Object, error) {
	if codec == nil {
		return nil, ErrNilCodec
	}

	obj := &Object{
		codec:    codec,
		store:    store,
		doc:      document.New(),
		registry: binding.New(),
		logger:   slog.Default(),
	}

	for _, apply := range opts {
		apply(obj)
	}

	if store != nil {
		err := obj.Reload()
		if err != nil {
			return nil, err
		}
	}

	return obj, nil
}

// Document returns the live document.
// It is replaced on Reload; do not keep references across reloads.
func (o *Object) Document() *document.Document {
	return o.doc
}

// Bindings returns the declared bindings in declaration order.
func (o *Object) Bindings() []*binding.Binding {
	return o.registry.Bindings()
}

// DeclaredPaths returns every declared path in declaration order.
func (o *Object) DeclaredPaths() []keypath.Path {
	return o.registry.DeclaredPaths()
}

// Reload replaces the document with the store contents.
// On error the current document is kept.
func (o *Object) Reload() error {
	if o.store == nil {
		return ErrNoStore
	}

	data, err := o.store.Fetch()
	if err != nil {
		return fmt.Errorf("reading data error: %w", err)
	}

	doc, err := o.codec.Decode(data)
	if err != nil {
		return fmt.Errorf("parsing error: %w", err)
	}

	o.doc = doc
	o.logger.Debug("configuration reloaded", slog.Int("bytes", len(data)))

	return nil
}

// Save encodes the document and writes it to the store.
func (o *Object) Save() error {
	if o.store == nil {
		return ErrNoStore
	}

	data, err := o.codec.Encode(o.doc)
	if err != nil {
		return fmt.Errorf("encoding error: %w", err)
	}

	err = o.store.Persist(data)
	if err != nil {
		return fmt.Errorf("writing data error: %w", err)
	}

	o.logger.Debug("configuration saved", slog.Int("bytes", len(data)))

	return nil
}

// PruneRedundant deletes every key that no declared binding needs.
// Calling it twice in a row is a no-op the second time.
func (o *Object) PruneRedundant() {
	removed := prune.Prune(o.doc.Root(), o.registry.DeclaredPaths())

	for _, path := range removed {
		o.logger.Info("redundant key removed", slog.String("path", path.String()))
	}
}

// RedundantKeys reports what PruneRedundant would remove without changing the document.
func (o *Object) RedundantKeys() []keypath.Path {
	return prune.Redundant(o.doc.Root(), o.registry.DeclaredPaths())
}

// ApplyDefaults stores the default of every binding whose key is missing and
// returns how many defaults were written. Keys blocked by a scalar or sequence
// on the way are skipped.
func (o *Object) ApplyDefaults() int {
	written := 0

	for _, b := range o.registry.Bindings() {
		if _, found := o.doc.Get(b.Path()); found {
			continue
		}

		node, err := nodeOf(b.Default())
		if err == nil {
			err = o.doc.Set(b.Path(), node)
		}

		if err != nil {
			o.logger.Warn("default not applied",
				slog.String("path", b.Path().String()),
				slog.String("error", err.Error()),
			)

			continue
		}

		written++
	}

	if written > 0 {
		o.logger.Info("defaults applied", slog.Int("count", written))
	}

	return written
}

func (o *Object) declare(path string, defaultValue any) (*binding.Binding, error) {
	parsed, err := keypath.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("declaring %q: %w", path, err)
	}

	b, err := o.registry.Declare(parsed, defaultValue)
	if err != nil {
		return nil, fmt.Errorf("declaring %q: %w", path, err)
	}

	return b, nil
}
