//go:build windows

package terminal

func isEIO(error) bool { return false }
