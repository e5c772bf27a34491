// Package runtimepath resolves where webdesk keeps per-session runtime files.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// SocketEnv overrides the daemon socket path when set.
	SocketEnv = "WEBDESK_SOCKET"

	socketName = "webdesk.sock"
)

// env is the slice of the OS the lookup depends on.
type env struct {
	getenv func(string) string
	uid    int
	isDir  func(string) bool
	mkdir  func(string) error
}

func osEnv() env {
	return env{
		getenv: os.Getenv,
		uid:    os.Getuid(),
		isDir: func(p string) bool {
			info, err := os.Stat(p)
			return err == nil && info.IsDir()
		},
		mkdir: func(p string) error { return os.MkdirAll(p, 0700) },
	}
}

// Dir returns the per-user runtime directory: $XDG_RUNTIME_DIR, else
// /run/user/<uid> when it exists, else /tmp/webdesk-runtime-<uid>, which is
// created.
func Dir() (string, error) {
	return osEnv().dir()
}

// SocketPath returns the daemon IPC socket path, honouring SocketEnv.
func SocketPath() (string, error) {
	return osEnv().socketPath()
}

func (e env) dir() (string, error) {
	if d := e.getenv("XDG_RUNTIME_DIR"); d != "" {
		return d, nil
	}
	if d := fmt.Sprintf("/run/user/%d", e.uid); e.isDir(d) {
		return d, nil
	}
	d := fmt.Sprintf("/tmp/webdesk-runtime-%d", e.uid)
	if err := e.mkdir(d); err != nil {
		return "", fmt.Errorf("create runtime dir: %w", err)
	}
	return d, nil
}

func (e env) socketPath() (string, error) {
	if p := e.getenv(SocketEnv); p != "" {
		return p, nil
	}
	d, err := e.dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, socketName), nil
}
