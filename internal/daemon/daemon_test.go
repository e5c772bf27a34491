package daemon

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/1broseidon/webdesk/internal/config"
	"github.com/1broseidon/webdesk/internal/desk"
	"github.com/1broseidon/webdesk/internal/drag"
	"github.com/1broseidon/webdesk/internal/geom"
	"github.com/1broseidon/webdesk/internal/ipc"
)

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func newDesk(t *testing.T) *desk.Desk {
	t.Helper()
	d, err := desk.New(config.DefaultConfig())
	if err != nil {
		t.Fatalf("desk.New: %v", err)
	}
	return d
}

func TestReloaderAppliesChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	d := newDesk(t)
	r, err := NewReloader(path, d, config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewReloader: %v", err)
	}

	// Missing file means defaults, which match the baseline.
	if err := r.Reload(); err != nil {
		t.Fatalf("Reload (defaults): %v", err)
	}

	writeConfig(t, path, "viewport:\n  width: 1440\n  height: 900\n")
	if err := r.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got, want := d.Viewport(), (geom.Size{Width: 1440, Height: 900}); got != want {
		t.Fatalf("viewport = %+v, want %+v", got, want)
	}
}

func TestReloaderKeepsDeskOnInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	d := newDesk(t)
	r, err := NewReloader(path, d, config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewReloader: %v", err)
	}

	writeConfig(t, path, "taskbar_height: 5000\n")
	if err := r.Reload(); err == nil {
		t.Fatal("Reload accepted taskbar_height larger than the viewport")
	}
	if got := d.Viewport(); got != config.DefaultConfig().Viewport {
		t.Fatalf("viewport changed to %+v after rejected reload", got)
	}
}

func TestReconcilerEndsAbandonedDrag(t *testing.T) {
	d := newDesk(t)
	if _, err := d.OpenOrRestore("calculator"); err != nil {
		t.Fatalf("open: %v", err)
	}
	d.PointerDown("calculator", drag.RegionHeader, geom.Point{X: 80, Y: 60})

	now := time.Unix(1000, 0)
	r := NewReconciler(ReconcilerConfig{StaleAfter: 30 * time.Second}, d)
	r.now = func() time.Time { return now }

	r.ReconcileNow()
	now = now.Add(20 * time.Second)
	r.ReconcileNow()
	if rec, _ := d.Window("calculator"); !rec.Dragging {
		t.Fatal("drag ended before it went stale")
	}

	now = now.Add(20 * time.Second)
	r.ReconcileNow()
	if rec, _ := d.Window("calculator"); rec.Dragging {
		t.Fatal("abandoned drag still active")
	}
}

func TestReconcilerResetsOnMovement(t *testing.T) {
	d := newDesk(t)
	if _, err := d.OpenOrRestore("calculator"); err != nil {
		t.Fatalf("open: %v", err)
	}
	d.PointerDown("calculator", drag.RegionHeader, geom.Point{X: 80, Y: 60})

	now := time.Unix(1000, 0)
	r := NewReconciler(ReconcilerConfig{StaleAfter: 30 * time.Second}, d)
	r.now = func() time.Time { return now }

	r.ReconcileNow()
	now = now.Add(25 * time.Second)
	d.PointerMove(geom.Point{X: 120, Y: 90})
	r.ReconcileNow()
	now = now.Add(25 * time.Second)
	r.ReconcileNow()

	if rec, _ := d.Window("calculator"); !rec.Dragging {
		t.Fatal("moving drag treated as abandoned")
	}
}

func TestReconcilerDisabled(t *testing.T) {
	d := newDesk(t)
	if _, err := d.OpenOrRestore("calculator"); err != nil {
		t.Fatalf("open: %v", err)
	}
	d.PointerDown("calculator", drag.RegionHeader, geom.Point{X: 80, Y: 60})

	now := time.Unix(1000, 0)
	r := NewReconciler(ReconcilerConfig{}, d)
	r.now = func() time.Time { return now }
	r.ReconcileNow()
	now = now.Add(time.Hour)
	r.ReconcileNow()

	if rec, _ := d.Window("calculator"); !rec.Dragging {
		t.Fatal("disabled reconciler ended a drag")
	}
}

func TestRunServesAndReloads(t *testing.T) {
	dir, err := os.MkdirTemp("", "wdd")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	cfgPath := filepath.Join(dir, "config.yaml")
	sockPath := filepath.Join(dir, "d.sock")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{
			ConfigPath: cfgPath,
			SocketPath: sockPath,
			Logger:     slog.New(slog.DiscardHandler),
			Ready:      func(string) { close(ready) },
		})
	}()

	select {
	case <-ready:
	case err := <-done:
		t.Fatalf("Run exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not become ready")
	}

	client := ipc.NewClientAt(sockPath)
	if _, err := client.Open("calculator"); err != nil {
		t.Fatalf("Open: %v", err)
	}

	writeConfig(t, cfgPath, "viewport:\n  width: 1440\n  height: 900\n")
	if err := client.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	state, err := client.GetState()
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if got, want := state.Viewport, (geom.Size{Width: 1440, Height: 900}); got != want {
		t.Fatalf("viewport = %+v, want %+v", got, want)
	}
	if len(state.Windows) != 1 {
		t.Fatalf("windows = %d, want 1", len(state.Windows))
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}
	if _, err := os.Stat(sockPath); !os.IsNotExist(err) {
		t.Fatalf("socket left behind: %v", err)
	}
}
