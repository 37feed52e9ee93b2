//go:build !windows

package terminal

var enterSequence = []byte{'\n'}
