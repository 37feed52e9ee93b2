// Package sshconfig lists connectable hosts from an OpenSSH client configuration.
package sshconfig

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// Target is one host alias that ssh can connect to.
type Target struct {
	Host     string
	User     string
	HostName string
}

// String renders the target as user@host (hostname).
func (t Target) String() string {
	return fmt.Sprintf("%s@%s (%s)", t.User, t.Host, t.HostName)
}

// DefaultPath returns ~/.ssh/config.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".ssh", "config"), nil
}

// CurrentUser returns the login name used when a host sets no User.
func CurrentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return os.Getenv("USERNAME")
}

// LoadFile parses the configuration at path. A missing file yields no targets.
func LoadFile(path, defaultUser string) ([]Target, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ssh config: %w", err)
	}
	defer f.Close()

	targets, err := Parse(f, defaultUser)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return targets, nil
}

// Parse returns one Target per concrete alias of every Host block that sets a
// HostName. Wildcard and negated patterns are skipped; hosts without a User
// get defaultUser.
func Parse(r io.Reader, defaultUser string) ([]Target, error) {
	cfg, err := ssh_config.Decode(r)
	if err != nil {
		return nil, err
	}

	var targets []Target
	seen := make(map[string]struct{})
	for _, host := range cfg.Hosts {
		hostName, hostUser := hostParams(host)
		if hostName == "" {
			continue
		}
		if hostUser == "" {
			hostUser = defaultUser
		}

		for _, pattern := range host.Patterns {
			alias := pattern.String()
			if !concreteAlias(alias) {
				continue
			}
			if _, dup := seen[alias]; dup {
				continue
			}
			seen[alias] = struct{}{}
			targets = append(targets, Target{Host: alias, User: hostUser, HostName: hostName})
		}
	}
	return targets, nil
}

func hostParams(host *ssh_config.Host) (hostName, hostUser string) {
	for _, node := range host.Nodes {
		kv, ok := node.(*ssh_config.KV)
		if !ok {
			continue
		}
		switch strings.ToLower(kv.Key) {
		case "hostname":
			if hostName == "" {
				hostName = kv.Value
			}
		case "user":
			if hostUser == "" {
				hostUser = kv.Value
			}
		}
	}
	return hostName, hostUser
}

func concreteAlias(alias string) bool {
	return alias != "" && !strings.ContainsAny(alias, "*?!")
}
