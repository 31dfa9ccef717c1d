package substitute

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"github.com/google/uuid"
)

// AmbientVars builds the source-independent variable set described in §4.C:
// PROJECT_DIR, PROJECT_PATH, SESSION_UUID, UID, GID, HOSTNAME, and (when the
// descriptor lives inside a git working tree) the VCS_* tuple. sessionUUID
// is threaded in by the caller so it is generated exactly once per process,
// not once per descriptor file.
func AmbientVars(projectDir, sessionUUID string) map[string]string {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		abs = projectDir
	}
	vars := map[string]string{
		"PROJECT_DIR":  abs,
		"PROJECT_PATH": filepath.Dir(abs),
		"SESSION_UUID": sessionUUID,
		"UID":          strconv.Itoa(os.Getuid()),
		"GID":          strconv.Itoa(os.Getgid()),
	}
	if host, err := os.Hostname(); err == nil {
		vars["HOSTNAME"] = host
	}
	for k, v := range vcsVars(abs) {
		vars[k] = v
	}
	return vars
}

// NewSessionUUID generates the per-invocation SESSION_UUID ambient variable.
func NewSessionUUID() string {
	return uuid.NewString()
}

// vcsVars shells out to git for the VCS_* keys; a non-git working tree
// simply contributes no VCS_* keys.
func vcsVars(dir string) map[string]string {
	root, err := runGit(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil
	}
	branch, _ := runGit(dir, "rev-parse", "--abbrev-ref", "HEAD")
	commit, err := runGit(dir, "rev-parse", "HEAD")
	if err != nil {
		return map[string]string{"VCS_ROOT": root, "VCS_BRANCH": branch}
	}
	short := commit
	if len(short) > 7 {
		short = short[:7]
	}
	return map[string]string{
		"VCS_ROOT":         root,
		"VCS_BRANCH":       branch,
		"VCS_COMMIT":       commit,
		"VCS_SHORT_COMMIT": short,
	}
}

func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Layer combines the ambient variable map, the process environment, and any
// metaservice-scoped `vars` blocks into a single lookup map, process
// environment and descriptor-scoped vars overriding ambient variables in
// that order. Uses the same override-precedence idiom compose-go's own
// layered merge (dario.cat/mergo) applies to its config layers.
func Layer(ambient map[string]string, env map[string]string, scoped map[string]string) (map[string]string, error) {
	result := map[string]string{}
	if err := mergo.Merge(&result, ambient, mergo.WithOverride); err != nil {
		return nil, err
	}
	if err := mergo.Merge(&result, env, mergo.WithOverride); err != nil {
		return nil, err
	}
	if err := mergo.Merge(&result, scoped, mergo.WithOverride); err != nil {
		return nil, err
	}
	return result, nil
}

// ProcessEnv snapshots os.Environ() into a map for layering.
func ProcessEnv() map[string]string {
	env := os.Environ()
	out := make(map[string]string, len(env))
	for _, kv := range env {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			out[kv[:i]] = kv[i+1:]
		}
	}
	return out
}
