package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/floegence/fssh/internal/selector"
	"github.com/floegence/fssh/internal/sshconfig"
)

// SelectTarget shows the host table on the controlling terminal. ok is false
// when the user quit without choosing.
func SelectTarget(targets []sshconfig.Target) (target sshconfig.Target, ok bool, err error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return sshconfig.Target{}, false, fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return sshconfig.Target{}, false, fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	return selector.Select(screen, targets)
}
