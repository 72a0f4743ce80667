package command

// ContainerRun describes `<engine> run` of a target's own entrypoint.
type ContainerRun struct {
	Engine  string
	Network string
	Env     []EnvVar
	Mounts  []Mount
	WorkDir string
	Command []string
}

// Build produces the container invocation for image.
func (r ContainerRun) Build(image string) Command {
	engine := r.Engine
	if engine == "" {
		engine = "docker"
	}

	args := []string{"run"}
	if r.Network != "" {
		args = append(args, "--network", r.Network)
	}
	for _, env := range r.Env {
		args = append(args, "--env", env.String())
	}
	for _, m := range r.Mounts {
		args = append(args, "-v", m.String())
	}
	if r.WorkDir != "" {
		args = append(args, "-w", r.WorkDir)
	}
	args = append(args, image)
	args = append(args, r.Command...)

	return Command{Program: engine, Args: args}
}

// Navigator describes an ansible-navigator run of a generated playbook.
type Navigator struct {
	Playbook string
	Image    string
	Engine   string
	Mounts   []Mount
	Env      []EnvVar
}

// Build produces the ansible-navigator invocation.
func (n Navigator) Build() Command {
	engine := n.Engine
	if engine == "" {
		engine = "docker"
	}

	args := []string{
		"run", n.Playbook,
		"-v",
		"--ee", "true",
		"--eei", n.Image,
		"--ce", engine,
	}
	for _, m := range n.Mounts {
		args = append(args, "--eev", m.String())
	}
	args = append(args, "-m", "stdout")
	for _, env := range n.Env {
		args = append(args, "--senv", env.String())
	}

	return Command{Program: "ansible-navigator", Args: args}
}
