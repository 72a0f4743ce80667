package envprovider

import (
	"context"
	"path"
	"path/filepath"

	"github.com/alexisbeaulieu97/eetest/internal/artifact"
	"github.com/alexisbeaulieu97/eetest/internal/command"
	"github.com/alexisbeaulieu97/eetest/internal/config"
	"github.com/alexisbeaulieu97/eetest/internal/target"
)

// credentialMapping pairs variable names with the environment variables they feed.
var credentialMapping = []struct {
	env   string
	value func(*config.Variables) string
}{
	{"AWS_ACCESS_KEY_ID", func(v *config.Variables) string { return v.AWSAccessKey }},
	{"AWS_SECRET_ACCESS_KEY", func(v *config.Variables) string { return v.AWSSecretKey }},
	{"AWS_SESSION_TOKEN", func(v *config.Variables) string { return v.SecurityToken }},
	{"AWS_REGION", func(v *config.Variables) string { return v.AWSRegion }},
}

// AWS passes cloud credentials from the variables file into the execution environment.
type AWS struct {
	vars       *config.Variables
	targetsDir string
}

var _ Provider = (*AWS)(nil)

// NewAWS creates the credential provider. targetsDir must be absolute.
func NewAWS(vars *config.Variables, targetsDir string) *AWS {
	if vars == nil {
		vars = &config.Variables{}
	}
	return &AWS{vars: vars, targetsDir: targetsDir}
}

func (p *AWS) Name() string { return "aws" }

func (p *AWS) Prepare(context.Context) error { return nil }

func (p *AWS) Variables(gen config.Generated) map[string]any {
	return p.vars.ForTarget(gen)
}

func (p *AWS) PlaybookMode() artifact.Mode { return artifact.ModeManagedTempDir }

// Assignments always starts with the roles path; credentials follow only when set.
func (p *AWS) Assignments() []command.EnvVar {
	out := []command.EnvVar{rolesAssignment()}
	for _, m := range credentialMapping {
		if value := m.value(p.vars); value != "" {
			out = append(out, command.EnvVar{Key: m.env, Value: value})
		}
	}
	return out
}

func (p *AWS) NavigatorMounts() []command.Mount {
	return []command.Mount{rolesMount(p.targetsDir)}
}

func (p *AWS) ContainerRun(t target.Target, artifactPath string) command.ContainerRun {
	return command.ContainerRun{
		Mounts: []command.Mount{
			{Source: t.Path, Target: "/test"},
			{Source: filepath.Dir(artifactPath), Target: "/vars"},
		},
		WorkDir: "/test",
		Command: []string{"./" + target.EntrypointFile, "-e", "@" + path.Join("/vars", filepath.Base(artifactPath))},
	}
}

func (p *AWS) Cleanup() error { return nil }
