package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dasomlab/dasom/internal/extract"
	"github.com/dasomlab/dasom/internal/memory"
	"github.com/dasomlab/dasom/internal/protocol"
)

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// validateUtterance cleans and checks one inbound message. Rejections carry a
// user-facing Korean message and never reach the pipeline.
func validateUtterance(raw string, maxLen int) (string, *extract.ValidationError) {
	msg := extract.CleanText(raw)
	if err := extract.ValidateInput(msg, maxLen); err != nil {
		var verr *extract.ValidationError
		if errors.As(err, &verr) {
			return "", verr
		}
		return "", &extract.ValidationError{Code: "invalid_request", Message: err.Error()}
	}
	return msg, nil
}

// handleChat streams one turn as newline-delimited JSON events.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	msg, verr := validateUtterance(req.Message, s.cfg.MaxInputLength)
	if verr != nil {
		respondError(w, http.StatusBadRequest, verr.Code, verr.Message)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming_unsupported", "response writer does not support flushing")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	userID := memory.UserIDFor(req.UserID)
	_ = s.chat.StreamTurn(r.Context(), userID, msg, func(event any) error {
		if err := enc.Encode(event); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
}

// handleChatWS serves turns over a websocket. One turn runs at a time; a
// client_control cancel aborts the in-flight turn at the next chunk boundary.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	writeEvent := func(event any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteJSON(event)
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var turnMu sync.Mutex
	var turnCancel context.CancelFunc
	turnDone := make(chan struct{})
	close(turnDone)

	conn.SetReadLimit(1 << 20)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			_ = writeEvent(protocol.NewError("요청을 이해하지 못했어요. 다시 시도해 주세요."))
			continue
		}

		switch m := parsed.(type) {
		case protocol.ClientControl:
			if m.Action == "cancel" {
				turnMu.Lock()
				if turnCancel != nil {
					turnCancel()
				}
				turnMu.Unlock()
			}
		case protocol.ClientChat:
			select {
			case <-turnDone:
			default:
				_ = writeEvent(protocol.NewError("이전 대화가 아직 진행 중이에요. 잠시만 기다려 주세요."))
				continue
			}

			msg, verr := validateUtterance(m.Message, s.cfg.MaxInputLength)
			if verr != nil {
				_ = writeEvent(protocol.NewError(verr.Message))
				continue
			}

			tctx, tcancel := context.WithCancel(ctx)
			turnMu.Lock()
			turnCancel = tcancel
			turnMu.Unlock()

			done := make(chan struct{})
			turnDone = done
			userID := memory.UserIDFor(m.UserID)
			go func() {
				defer close(done)
				defer tcancel()
				_ = s.chat.StreamTurn(tctx, userID, msg, writeEvent)
			}()
		}
	}

	cancel()
	turnMu.Lock()
	if turnCancel != nil {
		turnCancel()
	}
	turnMu.Unlock()
}
