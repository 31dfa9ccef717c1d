package service

import (
	"fmt"
	"sort"
	"strings"
)

// PrepareContainerOptions produces the final engine payload for env
// (dev|prod): the environment-scoped volume list split into container-side
// mount paths and host-binding specs, the environment file's values merged
// with the explicit environment entries (explicit wins on collision), all
// flattened into a single map compatible with the engine's create-container
// operation. Grounded on UniService.prepare_container_options.
func (s *Service) PrepareContainerOptions(env string, envFileValues map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(s.Container)+len(s.HostConfig)+2)
	for k, v := range s.Container {
		out[k] = v
	}
	for k, v := range s.HostConfig {
		out[k] = v
	}

	containerPaths, binds := SplitVolumes(s.Volumes.EnvVolumes(env))
	out["volumes"] = containerPaths
	out["binds"] = binds

	merged := map[string]string{}
	for k, v := range envFileValues {
		merged[k] = v
	}
	for _, kv := range toStringList(s.Container["environment"]) {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			merged[k] = v
		}
	}
	env_ := make([]string, 0, len(merged))
	for k, v := range merged {
		env_ = append(env_, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(env_)
	out["environment"] = env_

	return out
}

// argument is a single rendered flag, sortable by flag name the way
// cli_builder.py's Argument type sorts for deterministic dump output.
type argument struct {
	flag  string
	value string
}

func (a argument) String() string {
	if a.value != "" {
		return fmt.Sprintf("%s %s", a.flag, a.value)
	}
	return a.flag
}

// Dump renders the equivalent engine CLI invocation for this service.
// mode selects "build" or "run"; pretty selects one-flag-per-line with tab
// indentation, otherwise a single space separates flags. Output is
// deterministic: flags sorted lexically, list-valued flags keep insertion
// order, single-valued flags take the last assignment, positionals last.
func (s *Service) Dump(mode string, env string, pretty bool, envFileValues map[string]string) string {
	sep := " "
	if pretty {
		sep = "\\\n\t"
	}

	var args []argument
	switch mode {
	case "build":
		args = s.buildArgs(env)
	default:
		args = s.runArgs(env, envFileValues)
	}
	sort.SliceStable(args, func(i, j int) bool { return args[i].flag < args[j].flag })

	parts := make([]string, 0, len(args)+2)
	for _, a := range args {
		parts = append(parts, a.String())
	}

	switch mode {
	case "build":
		dir := "."
		return fmt.Sprintf("docker build%s%s%s%s", sep, strings.Join(parts, sep), sep, dir)
	default:
		ref := s.Image.String()
		cmd := strings.Join(toStringList(s.Container["command"]), " ")
		tail := sep + ref
		if cmd != "" {
			tail += sep + cmd
		}
		return fmt.Sprintf("docker run%s%s%s", sep, strings.Join(parts, sep), tail)
	}
}

func (s *Service) buildArgs(env string) []argument {
	var args []argument
	if tag := s.Image.String(); tag != "" {
		args = append(args, argument{"--tag", tag})
	}
	if df, ok := s.Dockerfile[env]; ok && df != "" {
		args = append(args, argument{"--file", df})
	}
	return args
}

func (s *Service) runArgs(env string, envFileValues map[string]string) []argument {
	opts := s.PrepareContainerOptions(env, envFileValues)
	var args []argument

	if name, ok := opts["name"].(string); ok && name != "" {
		args = append(args, argument{"--name", name})
	}
	if hostname, ok := opts["hostname"].(string); ok && hostname != "" {
		args = append(args, argument{"--hostname", hostname})
	}
	if workdir, ok := opts["working_dir"].(string); ok && workdir != "" {
		args = append(args, argument{"--workdir", workdir})
	}
	if user, ok := opts["user"].(string); ok && user != "" {
		args = append(args, argument{"--user", user})
	}
	if stdin, ok := opts["stdin_open"].(bool); ok && stdin {
		args = append(args, argument{"--interactive", ""})
	}
	if tty, ok := opts["tty"].(bool); ok && tty {
		args = append(args, argument{"--tty", ""})
	}
	if privileged, ok := opts["privileged"].(bool); ok && privileged {
		args = append(args, argument{"--privileged", ""})
	}
	for _, v := range toStringList(opts["volumes"]) {
		args = append(args, argument{"--volume", v})
	}
	for _, v := range toStringList(opts["binds"]) {
		args = append(args, argument{"--volume", v})
	}
	for _, v := range toStringList(opts["environment"]) {
		args = append(args, argument{"--env", v})
	}
	for _, v := range toStringList(opts["dns"]) {
		args = append(args, argument{"--dns", v})
	}
	return args
}
