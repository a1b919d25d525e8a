package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"slices"

	conf "github.com/0xalexb/hjarta-conf"
	"github.com/0xalexb/hjarta-conf/config"
	yamlcodec "github.com/0xalexb/hjarta-conf/config/codec/yaml"
	"github.com/0xalexb/hjarta-conf/config/keypath"
	filestore "github.com/0xalexb/hjarta-conf/config/store/file"
	"github.com/0xalexb/hjarta-conf/logging"

	"github.com/spf13/cobra"
)

var errNoKeepPaths = errors.New("at least one --keep path or a --keep-file is required")

type globalFlags struct {
	file     string
	logLevel string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "confprune",
		Short:         "Inspect YAML configuration files and remove undeclared keys",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&flags.file, "file", "f", "config.yml", "configuration file")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newVersionCommand(),
		newKeysCommand(flags),
		newGetCommand(flags),
		newPruneCommand(flags),
	)

	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "confprune %s (%s)\n", conf.Version, conf.Commit)
			fmt.Fprintf(out, "Compiled at: %s\n", conf.CompiledAt)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
		},
	}
}

func newKeysCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List every leaf key of the file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			obj, err := openObject(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			for _, path := range obj.Document().LeafPaths() {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}

			return nil
		},
	}
}

func newGetCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "Print the value stored at a dotted path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := keypath.Parse(args[0])
			if err != nil {
				return err
			}

			data, err := os.ReadFile(flags.file)
			if err != nil {
				return fmt.Errorf("reading %q: %w", flags.file, err)
			}

			var value any

			err = yamlcodec.NewCodec().Lookup(data, &value, path)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), value)

			return nil
		},
	}
}

func newPruneCommand(flags *globalFlags) *cobra.Command {
	var (
		keep     []string
		keepFile string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove keys that are not declared",
		Long: `Remove every key that is neither kept, on the way to a kept key, nor inside a kept key.
Kept keys are preserved with their whole subtree.

Example:
  confprune prune --file config.yml --keep active --keep section.active_in_section --keep map`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := keepPaths(keep, keepFile)
			if err != nil {
				return err
			}

			obj, err := openObject(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			for _, path := range paths {
				_, err := config.Declare[any](obj, path, nil)
				if err != nil {
					return err
				}
			}

			redundant := obj.RedundantKeys()
			for _, path := range redundant {
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", path)
			}

			if dryRun || len(redundant) == 0 {
				return nil
			}

			obj.PruneRedundant()

			return obj.Save()
		},
	}

	cmd.Flags().StringSliceVarP(&keep, "keep", "k", nil, "dotted path to keep (repeatable)")
	cmd.Flags().StringVar(&keepFile, "keep-file", "", "YAML file holding a list of dotted paths to keep")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only print what would be removed")

	return cmd
}

func openObject(flags *globalFlags, stderr io.Writer) (*config.Object, error) {
	store, err := filestore.NewStore(flags.file)()
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(logging.LoggerConfig{Level: flags.logLevel, Format: logging.FormatText}, stderr)

	obj, err := config.New(yamlcodec.NewCodec(), store,
		config.WithLogger(logger.With(slog.String("file", store.Path()))))
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", store.Path(), err)
	}

	return obj, nil
}

// keepPaths merges the --keep values with the --keep-file list into a new slice.
func keepPaths(keep []string, keepFile string) ([]string, error) {
	paths := slices.Clone(keep)

	if keepFile != "" {
		listed, err := readKeepFile(keepFile)
		if err != nil {
			return nil, err
		}

		paths = append(paths, listed...)
	}

	if len(paths) == 0 {
		return nil, errNoKeepPaths
	}

	return paths, nil
}

func readKeepFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}

	var paths []string

	err = yamlcodec.NewCodec().Lookup(data, &paths, keypath.Path{})
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}

	return paths, nil
}
