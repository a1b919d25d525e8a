package config

import (
	"fmt"
	"log/slog"

	yamlcodec "github.com/0xalexb/hjarta-conf/config/codec/yaml"
)

// Validator defines an interface for validating configuration structures.
type Validator interface {
	Validate() error
}

// Defaulter defines an interface for setting default values in configuration structures.
type Defaulter interface {
	SetDefaults() (changed bool)
}

// Provider returns a function that declares path on an Object, reads the subtree
// there into target, sets defaults, and validates it.
//
// The path is declared with target's current value as its default, so pruning
// keeps the whole subtree. A missing subtree leaves target untouched before
// defaults are applied.
func Provider[T any](target *T, path string) func(*Object) (*T, error) {
	return func(obj *Object) (*T, error) {
		b, err := obj.declare(path, *target)
		if err != nil {
			return nil, err
		}

		node, found := obj.doc.Get(b.Path())
		if found {
			err = yamlcodec.Convert(node, target)
			if err != nil {
				return nil, fmt.Errorf("parsing error: %w", err)
			}
		}

		targetDefaulter, isDefaulter := any(target).(Defaulter)
		if isDefaulter {
			changed := targetDefaulter.SetDefaults()
			if changed {
				obj.logger.Info("defaults applied", slog.String("path", path))
			}
		}

		targetValidatable, isValidatable := any(target).(Validator)
		if isValidatable {
			err := targetValidatable.Validate()
			if err != nil {
				return nil, fmt.Errorf("validating error: %w", err)
			}
		}

		return target, nil
	}
}
