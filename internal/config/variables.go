package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	eeerrors "github.com/alexisbeaulieu97/eetest/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Variables is the global variables document supplied with --vars-file.
// Credential keys are typed; every other key is kept verbatim in Extra.
type Variables struct {
	AWSAccessKey  string         `yaml:"aws_access_key,omitempty"`
	AWSSecretKey  string         `yaml:"aws_secret_key,omitempty"`
	SecurityToken string         `yaml:"security_token,omitempty"`
	AWSRegion     string         `yaml:"aws_region,omitempty"`
	Extra         map[string]any `yaml:",inline"`
}

// LoadVariables reads a variables file. An empty path or empty document yields empty Variables.
func LoadVariables(path string) (*Variables, error) {
	vars := &Variables{}
	if path == "" {
		return vars, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eeerrors.NewParseError(path, 0, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(vars); err != nil && !errors.Is(err, io.EOF) {
		return nil, eeerrors.NewParseError(path, extractLine(err), err)
	}

	return vars, nil
}

// Generated holds the per-target identifiers used to namespace cloud resources.
type Generated struct {
	ResourcePrefix string
	TinyPrefix     string
}

// Map renders the variables as a plain document, typed keys included only when set.
func (v *Variables) Map() map[string]any {
	out := make(map[string]any, len(v.Extra)+4)
	for k, val := range v.Extra {
		out[k] = val
	}
	setIfPresent(out, "aws_access_key", v.AWSAccessKey)
	setIfPresent(out, "aws_secret_key", v.AWSSecretKey)
	setIfPresent(out, "security_token", v.SecurityToken)
	setIfPresent(out, "aws_region", v.AWSRegion)
	return out
}

// ForTarget merges global variables, generated identifiers and fixed overrides,
// in that order of precedence.
func (v *Variables) ForTarget(gen Generated) map[string]any {
	out := v.Map()
	out["resource_prefix"] = gen.ResourcePrefix
	out["tiny_prefix"] = gen.TinyPrefix
	for k, val := range fixedOverrides() {
		out[k] = val
	}
	return out
}

// String is used in debug logs; credential values are masked.
func (v *Variables) String() string {
	masked := v.Map()
	for _, key := range []string{"aws_access_key", "aws_secret_key", "security_token"} {
		if _, ok := masked[key]; ok {
			masked[key] = "****"
		}
	}
	return fmt.Sprintf("%v", masked)
}

func fixedOverrides() map[string]any {
	return map[string]any{
		"ansible_test": map[string]any{
			"environment": map[string]any{
				"ANSIBLE_DEBUG_BOTOCORE_LOGS": "True",
			},
			"module_defaults": nil,
		},
	}
}

func setIfPresent(out map[string]any, key, value string) {
	if value != "" {
		out[key] = value
	}
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}
