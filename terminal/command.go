package terminal

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrEmptyCommand is returned when a CommandSpec has no program.
var ErrEmptyCommand = errors.New("empty command")

var fallbackProgramDirs = []string{"/usr/bin", "/bin", "/usr/local/bin", "/opt/homebrew/bin"}

// resolveProgram returns the executable path for program.
func resolveProgram(program string, logger Logger) (string, error) {
	program = strings.TrimSpace(program)
	if program == "" {
		return "", ErrEmptyCommand
	}

	if strings.ContainsRune(program, filepath.Separator) {
		if _, err := os.Stat(program); err != nil {
			return "", fmt.Errorf("program %q: %w", program, err)
		}
		return program, nil
	}

	if path, err := exec.LookPath(program); err == nil {
		return path, nil
	}

	for _, dir := range fallbackProgramDirs {
		candidate := filepath.Join(dir, program)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			logger.Info("Using fallback program path", "program", candidate)
			return candidate, nil
		}
	}

	return "", fmt.Errorf("program %q not found in PATH", program)
}

// buildCommand prepares the child process described by spec.
func buildCommand(spec CommandSpec, env []string, logger Logger) (*exec.Cmd, error) {
	path, err := resolveProgram(spec.Program, logger)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = env
	return cmd, nil
}
