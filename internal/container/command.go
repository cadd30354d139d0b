package container

import "strings"

const fqnClausePrefix = "FullyQualifiedName="

// FilterExpression OR-joins one FullyQualifiedName clause per test name
func FilterExpression(names []string) string {
	var b strings.Builder
	b.WriteString(fqnClausePrefix)
	b.WriteString(strings.Join(names, "|"+fqnClausePrefix))
	return b.String()
}

// RunSpec describes one containerized test run
type RunSpec struct {
	AssemblyDir  string   // Working directory and build context
	AssemblyName string   // Primary argument of the contained process
	HostDir      string   // Host result directory, bind-mounted into the container
	TestNames    []string // Fully qualified names to run
}

// BuildArgs returns the runtime arguments that build the test image
func (r *Runner) BuildArgs() []string {
	return []string{"build", "-t", r.cfg.ImageName, "."}
}

// RunArgs returns the runtime arguments that run the test container
func (r *Runner) RunArgs(spec RunSpec) []string {
	return []string{
		"run",
		"--rm",
		"--name", r.cfg.ContainerName,
		"--network", r.cfg.NetworkName,
		"-v", spec.HostDir + ":" + r.cfg.ContainerResultsDir,
		r.cfg.ImageName, spec.AssemblyName,
		"--filter", FilterExpression(spec.TestNames),
		"--", r.cfg.ResultPathOption + "=" + r.cfg.ContainerResultsDir,
	}
}

// CommandLine renders args as a single command line, quoting the values of
// -v and --filter the way they are written in a shell.
func (r *Runner) CommandLine(args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, r.cfg.Binary)
	for i, arg := range args {
		if i > 0 && (args[i-1] == "-v" || args[i-1] == "--filter") {
			arg = `"` + arg + `"`
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}
