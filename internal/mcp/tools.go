package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/webdesk/internal/desk"
)

func textResult(format string, args ...any) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

func requireArg(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, OpenWindowOutput, error) {
	if err := requireArg("app_id", args.AppID); err != nil {
		return nil, OpenWindowOutput{}, err
	}

	restored := false
	if state, err := s.backend.GetState(); err == nil {
		for _, rec := range state.Windows {
			if rec.ID == args.AppID {
				restored = true
				break
			}
		}
	}

	rec, err := s.backend.Open(args.AppID)
	if err != nil {
		s.logger.Debug("open_window failed", "app", args.AppID, "error", err)
		return nil, OpenWindowOutput{}, fmt.Errorf("open %s: %w", args.AppID, err)
	}
	s.logger.Info("open_window", "app", args.AppID, "restored", restored, "z", rec.Z)

	verb := "Opened"
	if restored {
		verb = "Restored"
	}
	return textResult("%s %s on %s at (%d,%d)", verb, rec.ID, rec.DesktopID, rec.Position.X, rec.Position.Y),
		OpenWindowOutput{Window: rec, Restored: restored}, nil
}

// windowAction runs op on args.WindowID and reports the resulting state.
func (s *Server) windowAction(action string, args WindowInput, op func(string) error) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if err := requireArg("window_id", args.WindowID); err != nil {
		return nil, ActionOutput{}, err
	}
	if err := op(args.WindowID); err != nil {
		s.logger.Debug(action+" failed", "window", args.WindowID, "error", err)
		return nil, ActionOutput{}, fmt.Errorf("%s %s: %w", action, args.WindowID, err)
	}
	s.logger.Info(action, "window", args.WindowID)
	out := s.actionOutput(action, args.WindowID)
	return textResult("%s %s", action, args.WindowID), out, nil
}

func (s *Server) actionOutput(action, windowID string) ActionOutput {
	out := ActionOutput{Action: action, WindowID: windowID}
	if state, err := s.backend.GetState(); err == nil {
		out.ActiveWindow = state.ActiveWindow
		out.ActiveDesktop = state.ActiveDesktop
	}
	return out
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.windowAction("close", args, s.backend.Close)
}

func (s *Server) handleMinimizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.windowAction("minimize", args, s.backend.Minimize)
}

func (s *Server) handleMaximizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.windowAction("maximize", args, s.backend.Maximize)
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.windowAction("focus", args, s.backend.Focus)
}

func (s *Server) handleSwitchDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, args SwitchDesktopInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if err := requireArg("desktop_id", args.DesktopID); err != nil {
		return nil, ActionOutput{}, err
	}
	if err := s.backend.SwitchDesktop(args.DesktopID); err != nil {
		return nil, ActionOutput{}, fmt.Errorf("switch to %s: %w", args.DesktopID, err)
	}
	s.logger.Info("switch_desktop", "desktop", args.DesktopID)
	return textResult("Switched to %s", args.DesktopID), s.actionOutput("switch_desktop", ""), nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if err := requireArg("window_id", args.WindowID); err != nil {
		return nil, ActionOutput{}, err
	}
	if err := requireArg("desktop_id", args.DesktopID); err != nil {
		return nil, ActionOutput{}, err
	}
	if err := s.backend.MoveToDesktop(args.WindowID, args.DesktopID); err != nil {
		return nil, ActionOutput{}, fmt.Errorf("move %s to %s: %w", args.WindowID, args.DesktopID, err)
	}
	s.logger.Info("move_window_to_desktop", "window", args.WindowID, "desktop", args.DesktopID)
	return textResult("Moved %s to %s", args.WindowID, args.DesktopID),
		s.actionOutput("move_window_to_desktop", args.WindowID), nil
}

func (s *Server) handleGetState(_ context.Context, _ *mcpsdk.CallToolRequest, args GetStateInput) (*mcpsdk.CallToolResult, GetStateOutput, error) {
	state, err := s.backend.GetState()
	if err != nil {
		return nil, GetStateOutput{}, fmt.Errorf("get state: %w", err)
	}
	out := stateOutput(state, args.DesktopID)
	return textResult("%s: %d visible, %d minimized, %d open",
		out.ActiveDesktop, len(out.Visible), len(out.Minimized), out.WindowCount), out, nil
}

// stateOutput projects a snapshot for desktopID, or for the active desktop
// when desktopID is empty.
func stateOutput(state desk.State, desktopID string) GetStateOutput {
	view := state
	if desktopID != "" {
		view.ActiveDesktop = desktopID
	}
	out := GetStateOutput{
		ActiveDesktop: state.ActiveDesktop,
		ActiveWindow:  state.ActiveWindow,
		Desktops:      state.Desktops,
		Visible:       view.Visible(),
		Minimized:     state.Minimized(),
		WindowCount:   len(state.Windows),
	}
	if state.Drag.WindowID != "" {
		out.Dragging = state.Drag.WindowID
	}
	return out
}

func (s *Server) handleListApps(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListAppsInput) (*mcpsdk.CallToolResult, ListAppsOutput, error) {
	list, err := s.backend.ListApps()
	if err != nil {
		return nil, ListAppsOutput{}, fmt.Errorf("list apps: %w", err)
	}
	names := make([]string, 0, len(list))
	for _, app := range list {
		names = append(names, app.ID)
	}
	return textResult("Apps: %s", strings.Join(names, ", ")), ListAppsOutput{Apps: list}, nil
}
