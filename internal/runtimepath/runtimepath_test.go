package runtimepath

import (
	"errors"
	"path/filepath"
	"testing"
)

func fakeEnv(vars map[string]string, runUserExists bool, mkdirErr error) (env, *[]string) {
	var made []string
	return env{
		getenv: func(k string) string { return vars[k] },
		uid:    1000,
		isDir:  func(p string) bool { return runUserExists && p == "/run/user/1000" },
		mkdir: func(p string) error {
			made = append(made, p)
			return mkdirErr
		},
	}, &made
}

func TestDirResolution(t *testing.T) {
	tests := []struct {
		name      string
		vars      map[string]string
		runUser   bool
		want      string
		wantMkdir bool
	}{
		{"xdg runtime dir", map[string]string{"XDG_RUNTIME_DIR": "/xdg"}, true, "/xdg", false},
		{"run user fallback", nil, true, "/run/user/1000", false},
		{"tmp fallback", nil, false, "/tmp/webdesk-runtime-1000", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, made := fakeEnv(tt.vars, tt.runUser, nil)
			got, err := e.dir()
			if err != nil {
				t.Fatalf("dir() error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("dir() = %q, want %q", got, tt.want)
			}
			if (len(*made) > 0) != tt.wantMkdir {
				t.Fatalf("mkdir calls = %v, want created=%v", *made, tt.wantMkdir)
			}
		})
	}
}

func TestDirMkdirError(t *testing.T) {
	boom := errors.New("read-only")
	e, _ := fakeEnv(nil, false, boom)
	if _, err := e.dir(); !errors.Is(err, boom) {
		t.Fatalf("dir() error = %v, want wrapped %v", err, boom)
	}
}

func TestSocketPath(t *testing.T) {
	e, _ := fakeEnv(map[string]string{"XDG_RUNTIME_DIR": "/xdg"}, false, nil)
	got, err := e.socketPath()
	if err != nil {
		t.Fatalf("socketPath() error: %v", err)
	}
	if want := filepath.Join("/xdg", "webdesk.sock"); got != want {
		t.Fatalf("socketPath() = %q, want %q", got, want)
	}
}

func TestSocketPathEnvOverride(t *testing.T) {
	want := filepath.Join(t.TempDir(), "custom.sock")
	t.Setenv(SocketEnv, want)

	got, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if got != want {
		t.Fatalf("SocketPath() = %q, want %q", got, want)
	}
}

func TestDirUsesXDGRuntimeDir(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}
