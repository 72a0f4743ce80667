package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/eetest/internal/config"
	"github.com/alexisbeaulieu97/eetest/internal/target"
)

// runFlags are shared by every provider subcommand.
type runFlags struct {
	image          string
	collectionPath string
	targets        string
	useStdout      bool
	allowSlow      bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.image, "eei", "", "Execution environment image")
	cmd.Flags().StringVar(&f.collectionPath, "collection-path", "", "Path to the collection under test")
	cmd.Flags().StringVar(&f.targets, "targets", "", "Comma separated list of targets to run (default: all)")
	cmd.Flags().BoolVar(&f.useStdout, "use-stdout", false, "Stream target output to the terminal instead of capturing it")
	cmd.Flags().BoolVar(&f.allowSlow, "allow-slow", false, "Run targets whose aliases declare more than 5 minutes")
	cmd.MarkFlagRequired("eei")             //nolint:errcheck
	cmd.MarkFlagRequired("collection-path") //nolint:errcheck
}

func (f *runFlags) options(root *rootFlags, out io.Writer) config.RunOptions {
	return config.RunOptions{
		Image:           f.image,
		CollectionPath:  f.collectionPath,
		Targets:         target.ParseTargets(f.targets),
		UseStdout:       f.useStdout,
		AllowSlow:       f.allowSlow,
		ContainerEngine: root.containerEngine,
		OutputDir:       root.outputDir,
		SummaryTable:    root.summaryTable,
		Color:           isTerminal(out),
	}
}

// validateRunOptions checks opts and makes the collection path absolute so it
// can be mounted into containers.
func validateRunOptions(opts *config.RunOptions) error {
	if err := config.ValidateRunOptions(opts); err != nil {
		return err
	}

	abs, err := filepath.Abs(opts.CollectionPath)
	if err != nil {
		return fmt.Errorf("resolve collection path: %w", err)
	}
	opts.CollectionPath = abs

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
