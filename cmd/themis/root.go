package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/backmassage/themis/internal/config"
	"github.com/backmassage/themis/internal/logging"
)

// app is the state shared by every subcommand: the layered config and the
// logger built from it once flags are parsed.
type app struct {
	cfg   config.Config
	flags *config.Flags
	log   *logging.Logger
}

func newApp() *app {
	a := &app{cfg: config.DefaultConfig()}
	a.flags = config.NewFlags(&a.cfg)
	return a
}

// setup resolves the config file and flags, validates the result and opens
// the logger. Bootstrap errors are returned before any logger exists.
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.flags.Resolve(cmd.Flags()); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	log, err := logging.NewLogger(&a.cfg)
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

func (a *app) close() {
	if a.log != nil {
		_ = a.log.Close()
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "themis",
		Short:         "Conform source media to one delivery format",
		Version:       version + " (" + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	a.flags.BindGlobal(root.PersistentFlags())

	root.AddCommand(newTranscodeCommand(a))
	root.AddCommand(newPlanCommand(a))
	root.AddCommand(newInspectCommand(a))
	root.AddCommand(newCheckCommand(a))
	root.AddCommand(newVersionCommand())
	return root
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of input vs output directory hierarchies. A path that does not exist yet
// is resolved through its nearest existing parent.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if os.IsNotExist(err) {
		parent := filepath.Dir(abs)
		if parent == abs {
			return abs, nil
		}
		p, err := absPath(parent)
		if err != nil {
			return "", err
		}
		return filepath.Join(p, filepath.Base(abs)), nil
	}
	return resolved, err
}
