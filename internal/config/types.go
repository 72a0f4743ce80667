package config

import (
	"path/filepath"
)

// TargetsSubdir is where a collection keeps its integration targets.
var TargetsSubdir = filepath.Join("tests", "integration", "targets")

// RunOptions holds everything a run needs from the command line.
// The flag tag names the CLI flag reported in validation errors.
type RunOptions struct {
	Image           string   `flag:"eei" validate:"required"`
	CollectionPath  string   `flag:"collection-path" validate:"required,collection"`
	VarsFile        string   `flag:"vars-file" validate:"omitempty,file"`
	Targets         []string `flag:"targets" validate:"omitempty,dive,required"`
	UseStdout       bool     `flag:"use-stdout"`
	AllowSlow       bool     `flag:"allow-slow"`
	ContainerEngine string   `flag:"container-engine" validate:"required,oneof=docker podman"`
	OutputDir       string   `flag:"output-dir" validate:"omitempty,dir"`
	Kubeconfig      string   `flag:"kubeconfig" validate:"omitempty,file"`
	SummaryTable    bool     `flag:"summary-table"`
	Color           bool     `flag:"-"`
}

// TargetsDir returns the directory holding the collection's integration targets.
func (o RunOptions) TargetsDir() string {
	return filepath.Join(o.CollectionPath, TargetsSubdir)
}
