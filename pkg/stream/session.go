package stream

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/app"
	"github.com/vango-dev/vtree/pkg/protocol"
	"github.com/vango-dev/vtree/pkg/remote"
)

// Session is one websocket client and the App it drives. All of its
// methods run on the goroutine of Run.
type Session struct {
	ID string

	conn     *websocket.Conn
	app      *app.App[remote.NodeID]
	rec      *remote.Recorder
	server   *Server
	logger   *slog.Logger
	writeErr error
}

func (s *Server) newSession(conn *websocket.Conn, requestID string) *Session {
	id := strconv.FormatUint(s.nextID.Add(1), 10)
	sess := &Session{
		ID:     id,
		conn:   conn,
		rec:    remote.NewRecorder(),
		server: s,
		logger: s.logger.With("session", id, "request_id", requestID),
	}
	view, actions := s.factory()
	sess.app = app.New[remote.NodeID](sess.rec, sess.rec.Root(), view,
		app.WithLogger(sess.logger),
		app.WithMetrics(s.appMetrics),
		app.WithTracerName(s.cfg.Tracing.TracerName),
		app.WithActions(actions),
		app.WithAfterPass(sess.flush),
	)
	return sess
}

// Run mounts the App and serves events until the client leaves or a write
// fails.
func (s *Session) Run(ctx context.Context) error {
	defer s.conn.Close()

	if err := s.app.Mount(ctx); err != nil {
		s.sendError(protocol.NewFatalError(protocol.ErrRenderFailed, err.Error()))
		return err
	}
	if s.writeErr != nil {
		return s.writeErr
	}
	s.logger.Info("mounted", "nodes", s.rec.Nodes())

	for {
		mt, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return nil
		}

		ev, err := decodeEvent(mt, msg)
		if err != nil {
			s.logger.Error("event decode error", "error", err)
			s.sendError(protocol.NewError(protocol.ErrInvalidEvent, "Invalid event format"))
		} else {
			s.handleEvent(ctx, ev)
		}
		if s.writeErr != nil {
			return s.writeErr
		}
	}
}

func decodeEvent(mt int, msg []byte) (*protocol.Event, error) {
	if mt == websocket.TextMessage {
		return protocol.ParseTextEvent(msg)
	}
	frame, err := protocol.DecodeFrame(msg)
	if err != nil {
		return nil, vterrors.FromError(err, "E040")
	}
	if frame.Type != protocol.FrameEvent {
		return nil, vterrors.New("E040").WithDetail("expected an event frame, got " + frame.Type.String())
	}
	return protocol.DecodeEvent(frame.Payload)
}

func (s *Session) handleEvent(ctx context.Context, ev *protocol.Event) {
	if !s.app.Dispatch(ev.Path, ev.Kind, ev.Data) {
		s.logger.Warn("no listener", "path", ev.Path, "event", ev.Kind)
		s.sendError(protocol.NewError(protocol.ErrNoListener, "no "+ev.Kind+" listener at "+ev.Path))
		return
	}
	err := s.app.Render(ctx)
	if err == nil {
		return
	}

	s.sendError(protocol.NewError(protocol.ErrRenderFailed, err.Error()))
	if err := s.app.Reset(ctx); err != nil {
		s.logger.Error("reset failed", "error", err)
		s.sendError(protocol.NewFatalError(protocol.ErrAppUnavailable, err.Error()))
		if s.writeErr == nil {
			s.writeErr = err
		}
	}
}

// flush sends the patches recorded by a pass.
func (s *Session) flush(p app.Pass) {
	frames := s.rec.FlushFrames(protocol.MaxPayloadSize)
	for i, pf := range frames {
		f := protocol.NewFrame(protocol.FramePatches, protocol.EncodePatches(pf))
		if p.Kind == app.KindMount && i == 0 {
			f.Flags |= protocol.FlagMount
		}
		if i < len(frames)-1 {
			f.Flags |= protocol.FlagContinued
		}
		if err := s.write(f); err != nil {
			return
		}
	}
}

func (s *Session) sendError(em *protocol.ErrorMessage) {
	_ = s.write(protocol.NewFrame(protocol.FrameError, protocol.EncodeErrorMessage(em)))
}

func (s *Session) write(f *protocol.Frame) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	data := f.Encode()
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.server.cfg.Server.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		s.logger.Error("write error", "error", err)
		s.writeErr = vterrors.New("E042").Wrap(err)
		return s.writeErr
	}
	s.server.metrics.frameSent(f.Type.String(), len(data))
	return nil
}
