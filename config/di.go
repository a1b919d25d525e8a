package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	yamlcodec "github.com/0xalexb/hjarta-conf/config/codec/yaml"
	filestore "github.com/0xalexb/hjarta-conf/config/store/file"

	"go.uber.org/fx"
)

// ErrEmptyName is returned when the module name is empty.
var ErrEmptyName = errors.New("config module name must not be empty")

// ModuleOption configures the lifecycle of a config module.
type ModuleOption func(*moduleConfig)

type moduleConfig struct {
	applyDefaults bool
	prune         bool
	saveOnStop    bool
}

// WithDefaultsOnStart writes missing defaults when the application starts.
func WithDefaultsOnStart() ModuleOption {
	return func(cfg *moduleConfig) {
		cfg.applyDefaults = true
	}
}

// WithPruneOnStart removes redundant keys when the application starts.
// Every binding must be declared by constructors or invokes, which all run
// before start hooks.
func WithPruneOnStart() ModuleOption {
	return func(cfg *moduleConfig) {
		cfg.prune = true
	}
}

// WithSaveOnStop saves the document when the application stops.
func WithSaveOnStop() ModuleOption {
	return func(cfg *moduleConfig) {
		cfg.saveOnStop = true
	}
}

// NewModule creates an Fx module providing a named *Object backed by the YAML file at path.
// The name is used as both the module name and the DI named tag for *Object.
// When defaults or pruning are enabled, the document is saved right after they run on start.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(name, path string, opts ...ModuleOption) fx.Option {
	if name == "" {
		return fx.Error(ErrEmptyName)
	}

	var cfg moduleConfig

	for _, apply := range opts {
		apply(&cfg)
	}

	nameTag := fmt.Sprintf(`name:"%s"`, name)

	return fx.Module(name,
		fx.Provide(
			fx.Annotate(
				func(logger *slog.Logger) (*Object, error) {
					if logger == nil {
						logger = slog.Default()
					}

					store, err := filestore.NewStore(path)()
					if err != nil {
						return nil, err
					}

					return New(yamlcodec.NewCodec(), store, WithLogger(logger.With(slog.String("config", name))))
				},
				fx.ParamTags(`optional:"true"`),
				fx.ResultTags(nameTag),
			),
		),
		fx.Invoke(
			fx.Annotate(
				func(lifecycle fx.Lifecycle, obj *Object) {
					lifecycle.Append(fx.Hook{
						OnStart: func(_ context.Context) error {
							return cfg.start(obj)
						},
						OnStop: func(_ context.Context) error {
							if !cfg.saveOnStop {
								return nil
							}

							return obj.Save()
						},
					})
				},
				fx.ParamTags("", nameTag),
			),
		),
	)
}

func (cfg *moduleConfig) start(obj *Object) error {
	if !cfg.applyDefaults && !cfg.prune {
		return nil
	}

	if cfg.applyDefaults {
		obj.ApplyDefaults()
	}

	if cfg.prune {
		obj.PruneRedundant()
	}

	return obj.Save()
}
