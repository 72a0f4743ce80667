package envprovider

import (
	"context"

	"github.com/alexisbeaulieu97/eetest/internal/artifact"
	"github.com/alexisbeaulieu97/eetest/internal/command"
	"github.com/alexisbeaulieu97/eetest/internal/config"
	"github.com/alexisbeaulieu97/eetest/internal/target"
)

const (
	// RolesPath is where the targets directory is mounted inside the execution environment.
	RolesPath = "/roles"
	// RolesPathVar points the automation toolchain at RolesPath.
	RolesPathVar = "ANSIBLE_ROLES_PATH"
)

// Provider supplies the credentials, mounts and variables that differ between
// the cloud-credential and cluster flavours of a run.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// Prepare performs one-time setup before any target runs.
	Prepare(ctx context.Context) error
	// Variables returns the variables for one target. A nil map means none.
	Variables(gen config.Generated) map[string]any
	// PlaybookMode selects the generated playbook shape.
	PlaybookMode() artifact.Mode
	// Assignments are forwarded to ansible-navigator with --senv.
	Assignments() []command.EnvVar
	// NavigatorMounts are forwarded to ansible-navigator with --eev.
	NavigatorMounts() []command.Mount
	// ContainerRun describes the direct run of a target's runme.sh.
	ContainerRun(t target.Target, artifactPath string) command.ContainerRun
	// Cleanup releases anything Prepare created.
	Cleanup() error
}

func rolesMount(targetsDir string) command.Mount {
	return command.Mount{Source: targetsDir, Target: RolesPath, Options: "Z"}
}

func rolesAssignment() command.EnvVar {
	return command.EnvVar{Key: RolesPathVar, Value: RolesPath}
}
