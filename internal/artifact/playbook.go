package artifact

import "fmt"

// Mode selects the shape of the generated play.
type Mode int

const (
	// ModeManagedTempDir wraps the role in a block that owns a temporary output_dir.
	ModeManagedTempDir Mode = iota
	// ModeRole references the role directly through the play's roles list.
	ModeRole
)

func (m Mode) String() string {
	switch m {
	case ModeManagedTempDir:
		return "managed-tempdir"
	case ModeRole:
		return "role"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Play is a single play of a playbook.
type Play struct {
	Hosts       string         `yaml:"hosts"`
	GatherFacts bool           `yaml:"gather_facts"`
	Vars        map[string]any `yaml:"vars,omitempty"`
	Roles       []RoleRef      `yaml:"roles,omitempty"`
	Tasks       []Task         `yaml:"tasks,omitempty"`
}

// RoleRef is an entry of a play's roles list.
type RoleRef struct {
	Role string `yaml:"role"`
}

// Task is a playbook task. Module carries the action keyword and its arguments.
type Task struct {
	Name     string         `yaml:"name,omitempty"`
	Register string         `yaml:"register,omitempty"`
	Vars     map[string]any `yaml:"vars,omitempty"`
	Module   map[string]any `yaml:",inline"`
	Block    []Task         `yaml:"block,omitempty"`
	Always   []Task         `yaml:"always,omitempty"`
}

const tmpPathExpr = "{{ tmp_path.path }}"

// BuildPlay synthesises the single play that runs role against localhost.
func BuildPlay(role string, vars map[string]any, mode Mode) Play {
	play := Play{
		Hosts:       "localhost",
		GatherFacts: false,
		Vars:        vars,
	}

	switch mode {
	case ModeRole:
		play.Roles = []RoleRef{{Role: role}}
	default:
		play.Tasks = []Task{
			{
				Name:     "Create temporary directory to run test.",
				Register: "tmp_path",
				Module: map[string]any{
					"ansible.builtin.tempfile": map[string]any{"suffix": ".tf", "state": "directory"},
				},
			},
			{
				Name: fmt.Sprintf("Execute ansible role '%s'", role),
				Vars: map[string]any{"output_dir": tmpPathExpr},
				Block: []Task{
					{Module: map[string]any{"ansible.builtin.include_role": map[string]any{"name": role}}},
				},
				Always: []Task{
					{
						Name: "Delete temporary directory",
						Module: map[string]any{
							"ansible.builtin.file": map[string]any{"state": "absent", "path": tmpPathExpr},
						},
					},
				},
			},
		}
	}

	return play
}
