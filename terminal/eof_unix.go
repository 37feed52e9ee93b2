//go:build !windows

package terminal

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isEIO reports the error Linux returns from a PTY master once the slave side
// has no open descriptors left.
func isEIO(err error) bool {
	return errors.Is(err, unix.EIO)
}
