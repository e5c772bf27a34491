package mcp

import (
	"github.com/1broseidon/webdesk/internal/apps"
	"github.com/1broseidon/webdesk/internal/desk"
	"github.com/1broseidon/webdesk/internal/ipc"
	"github.com/1broseidon/webdesk/internal/window"
)

// Backend is the desk the tools drive. *ipc.Client satisfies it for a
// running daemon and desk.Local for an in-process desk.
type Backend interface {
	Open(appID string) (window.Record, error)
	Close(id string) error
	Minimize(id string) error
	Maximize(id string) error
	Focus(id string) error
	SwitchDesktop(desktopID string) error
	MoveToDesktop(id, desktopID string) error
	GetState() (desk.State, error)
	ListApps() ([]apps.App, error)
}

var (
	_ Backend = (*ipc.Client)(nil)
	_ Backend = desk.Local{}
)
