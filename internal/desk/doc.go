// Package desk is the window lifecycle orchestrator: open, restore, close,
// focus, minimize, maximize, drag and desktop assignment over a single
// in-memory window store.
//
// Window ids are app ids, so each app has at most one window. Mutations
// targeting unknown windows, desktops or apps return wrapped sentinel errors
// (window.ErrNotFound, desktop.ErrUnknownDesktop, apps.ErrUnknownApp) and
// leave the state untouched; callers that want the silent no-op behavior of
// a desktop shell may ignore them.
package desk
