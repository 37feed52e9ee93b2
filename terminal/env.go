package terminal

import (
	"os"
	"strings"
)

// EnvProvider builds the base environment for the child process.
type EnvProvider interface {
	BuildEnv(spec CommandSpec) ([]string, error)
}

// DefaultEnvProvider returns the current process environment unchanged.
type DefaultEnvProvider struct{}

func (DefaultEnvProvider) BuildEnv(CommandSpec) ([]string, error) {
	return os.Environ(), nil
}

// childEnv layers spec.Env and the terminal variables over base. Later entries
// win, and keys are replaced in place so the child never sees duplicates.
func childEnv(base []string, spec CommandSpec, termEnv TerminalEnv) []string {
	env := append([]string{}, base...)
	env = setEnv(env, spec.Env...)
	if termEnv.Term != "" {
		env = setEnv(env, "TERM="+termEnv.Term)
	}
	if termEnv.ColorTerm != "" {
		env = setEnv(env, "COLORTERM="+termEnv.ColorTerm)
	}
	if termEnv.Lang != "" {
		env = setEnv(env, "LANG="+termEnv.Lang)
	}
	return env
}

func setEnv(env []string, entries ...string) []string {
	for _, entry := range entries {
		key, _, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		replaced := false
		for i, existing := range env {
			if strings.HasPrefix(existing, key+"=") {
				env[i] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			env = append(env, entry)
		}
	}
	return env
}
