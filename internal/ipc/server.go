package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/webdesk/internal/desk"
	"github.com/1broseidon/webdesk/internal/drag"
	"github.com/1broseidon/webdesk/internal/geom"
	"github.com/1broseidon/webdesk/internal/runtimepath"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	desk         *desk.Desk
	reload       func() error
	logger       *slog.Logger
	startTime    time.Time
	conns        sync.WaitGroup
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithSocketPath overrides the socket resolved by runtimepath.
func WithSocketPath(path string) ServerOption {
	return func(s *Server) { s.socketPath = path }
}

// WithReload sets the function RELOAD runs. Without it RELOAD fails.
func WithReload(fn func() error) ServerOption {
	return func(s *Server) { s.reload = fn }
}

func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new IPC server
func NewServer(d *desk.Desk, opts ...ServerOption) (*Server, error) {
	s := &Server{
		desk:      d,
		logger:    slog.New(slog.DiscardHandler),
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.socketPath == "" {
		socketPath, err := runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
		s.socketPath = socketPath
	}

	// Remove existing socket if present
	os.Remove(s.socketPath)

	return s, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		s.shutdownMu.Lock()
		if s.shuttingDown {
			s.shutdownMu.Unlock()
			conn.Close()
			return
		}
		s.conns.Add(1)
		s.shutdownMu.Unlock()

		go func() {
			defer s.conns.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection serves one request per connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.send(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	s.send(conn, s.handleCommand(req))
}

func (s *Server) send(conn net.Conn, resp *Response) {
	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC command", "command", req.Command)

	switch req.Command {
	case CommandOpen:
		return s.handleOpen(req.Payload)
	case CommandClose:
		return s.handleWindow(req, s.desk.Close)
	case CommandMinimize:
		return s.handleWindow(req, s.desk.Minimize)
	case CommandMaximize:
		return s.handleWindow(req, s.desk.MaximizeToggle)
	case CommandFocus:
		return s.handleWindow(req, s.desk.Focus)
	case CommandMoveToDesktop:
		return s.handleMoveToDesktop(req.Payload)
	case CommandSwitchDesktop:
		return s.handleSwitchDesktop(req.Payload)
	case CommandUpdateGeometry:
		return s.handleUpdateGeometry(req.Payload)
	case CommandPointerDown, CommandPointerMove, CommandPointerUp:
		return s.handlePointer(req)
	case CommandSetViewport:
		return s.handleSetViewport(req.Payload)
	case CommandGetState:
		return okResponse(s.desk.Snapshot())
	case CommandListVisible:
		return s.handleListVisible(req.Payload)
	case CommandListMinimized:
		return okResponse(s.desk.MinimizedWindows())
	case CommandListApps:
		return okResponse(s.desk.Apps())
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func okResponse(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func decodePayload(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return fmt.Errorf("payload is required")
	}
	return json.Unmarshal(payload, v)
}

func (s *Server) handleOpen(payload json.RawMessage) *Response {
	var p OpenPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid open payload: %v", err))
	}
	if p.AppID == "" {
		return NewErrorResponse("app_id is required")
	}
	rec, err := s.desk.OpenOrRestore(p.AppID)
	if err != nil {
		return newDeskErrorResponse(err)
	}
	return okResponse(rec)
}

func (s *Server) handleWindow(req *Request, op func(string) error) *Response {
	var p WindowPayload
	if err := decodePayload(req.Payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid %s payload: %v", req.Command, err))
	}
	if p.WindowID == "" {
		return NewErrorResponse("window_id is required")
	}
	if err := op(p.WindowID); err != nil {
		return newDeskErrorResponse(err)
	}
	return okResponse(nil)
}

func (s *Server) handleMoveToDesktop(payload json.RawMessage) *Response {
	var p MoveToDesktopPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
	}
	if p.WindowID == "" || p.DesktopID == "" {
		return NewErrorResponse("window_id and desktop_id are required")
	}
	if err := s.desk.MoveToDesktop(p.WindowID, p.DesktopID); err != nil {
		return newDeskErrorResponse(err)
	}
	return okResponse(nil)
}

func (s *Server) handleSwitchDesktop(payload json.RawMessage) *Response {
	var p DesktopPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid switch payload: %v", err))
	}
	if p.DesktopID == "" {
		return NewErrorResponse("desktop_id is required")
	}
	if err := s.desk.SwitchDesktop(p.DesktopID); err != nil {
		return newDeskErrorResponse(err)
	}
	return okResponse(nil)
}

func (s *Server) handleUpdateGeometry(payload json.RawMessage) *Response {
	var p GeometryPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid geometry payload: %v", err))
	}
	if p.WindowID == "" {
		return NewErrorResponse("window_id is required")
	}
	if err := s.desk.UpdateGeometry(p.WindowID, p.Position, p.Size, p.Dragging); err != nil {
		return newDeskErrorResponse(err)
	}
	return okResponse(nil)
}

func (s *Server) handlePointer(req *Request) *Response {
	var p PointerPayload
	if len(req.Payload) > 0 {
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid pointer payload: %v", err))
		}
	}
	pointer := geom.Point{X: p.X, Y: p.Y}

	switch req.Command {
	case CommandPointerDown:
		if p.WindowID == "" {
			return NewErrorResponse("window_id is required")
		}
		s.desk.PointerDown(p.WindowID, drag.ParseRegion(p.Region), pointer)
	case CommandPointerMove:
		s.desk.PointerMove(pointer)
	case CommandPointerUp:
		s.desk.PointerUp()
	}
	return okResponse(nil)
}

func (s *Server) handleSetViewport(payload json.RawMessage) *Response {
	var p ViewportPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid viewport payload: %v", err))
	}
	s.desk.SetViewport(geom.Size{Width: p.Width, Height: p.Height})
	return okResponse(s.desk.Viewport())
}

func (s *Server) handleListVisible(payload json.RawMessage) *Response {
	var p ListVisiblePayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid list payload: %v", err))
		}
	}
	desktopID := p.DesktopID
	if desktopID == "" {
		desktopID = s.desk.ActiveDesktop()
	}
	return okResponse(s.desk.VisibleWindows(desktopID))
}

func (s *Server) handleGetStatus() *Response {
	snap := s.desk.Snapshot()
	return okResponse(StatusData{
		ActiveDesktop: snap.ActiveDesktop,
		ActiveWindow:  snap.ActiveWindow,
		WindowCount:   len(snap.Windows),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	})
}

func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: received RELOAD command")
	if s.reload == nil {
		return NewErrorResponse("reload is not supported by this server")
	}
	if err := s.reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	return okResponse(nil)
}

// Stop closes the listener, waits for in-flight requests and removes the
// socket file.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.conns.Wait()
	os.Remove(s.socketPath)
}
