package desk

import (
	"github.com/1broseidon/webdesk/internal/apps"
	"github.com/1broseidon/webdesk/internal/drag"
	"github.com/1broseidon/webdesk/internal/geom"
	"github.com/1broseidon/webdesk/internal/window"
)

// Local exposes a Desk through the same call shapes as the IPC client, so
// front ends can drive either an in-process desk or the daemon.
type Local struct {
	d *Desk
}

// NewLocal wraps d.
func NewLocal(d *Desk) Local {
	return Local{d: d}
}

func (l Local) Open(appID string) (window.Record, error) { return l.d.OpenOrRestore(appID) }
func (l Local) Close(id string) error                    { return l.d.Close(id) }
func (l Local) Minimize(id string) error                 { return l.d.Minimize(id) }
func (l Local) Maximize(id string) error                 { return l.d.MaximizeToggle(id) }
func (l Local) Focus(id string) error                    { return l.d.Focus(id) }
func (l Local) SwitchDesktop(desktopID string) error     { return l.d.SwitchDesktop(desktopID) }

func (l Local) MoveToDesktop(id, desktopID string) error {
	return l.d.MoveToDesktop(id, desktopID)
}

func (l Local) PointerDown(id, region string, pointer geom.Point) error {
	l.d.PointerDown(id, drag.ParseRegion(region), pointer)
	return nil
}

func (l Local) PointerMove(pointer geom.Point) error {
	l.d.PointerMove(pointer)
	return nil
}

func (l Local) PointerUp() error {
	l.d.PointerUp()
	return nil
}

func (l Local) SetViewport(size geom.Size) (geom.Size, error) {
	l.d.SetViewport(size)
	return l.d.Viewport(), nil
}

func (l Local) GetState() (State, error)        { return l.d.Snapshot(), nil }
func (l Local) ListApps() ([]apps.App, error)   { return l.d.Apps(), nil }
func (l Local) Subscribe(fn func(Event)) func() { return l.d.Subscribe(fn) }
