package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"gamearena/internal/game"
	"gamearena/internal/session"
)

// WSMessage is the JSON envelope for WebSocket messages.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	PlayerID string `json:"playerId"`
}

type actionPayload struct {
	Action game.Action `json:"action"`
}

type switchPayload struct {
	GameType string `json:"gameType"`
}

type statePayload struct {
	View        game.View    `json:"view"`
	SessionInfo session.Info `json:"sessionInfo"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	sess, ok := s.manager.Get(code)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // allow any origin for dev
	})
	if err != nil {
		s.logger.Warn("websocket accept", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()

	// First message must be a join
	_, data, err := conn.Read(ctx)
	if err != nil {
		return
	}
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "join" {
		sendWSError(ctx, conn, "first message must be a join")
		return
	}
	var join joinPayload
	if err := json.Unmarshal(msg.Payload, &join); err != nil || join.PlayerID == "" {
		sendWSError(ctx, conn, "invalid join payload")
		return
	}

	playerID := join.PlayerID
	p, err := sess.Join(playerID)
	if err != nil {
		sendWSError(ctx, conn, err.Error())
		return
	}
	log := s.logger.With(zap.String("code", code), zap.String("player", playerID))
	log.Debug("player joined")
	defer func() {
		if sess.Leave(p) {
			log.Debug("player left")
			s.broadcastState(sess)
		}
	}()

	// Notify all viewers about the roster change
	s.broadcastState(sess)

	// Writer goroutine: send messages from the channel to the websocket
	go func() {
		for {
			select {
			case msg := <-p.Send:
				if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
					return
				}
			case <-p.Done():
				// left, or a newer connection took this id
				conn.Close(websocket.StatusNormalClosure, "connection replaced")
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	// Reader loop: handle incoming messages
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sendWSMsg(p.Send, "error", errorPayload{Message: "invalid message"})
			continue
		}
		s.handleMessage(sess, playerID, p.Send, msg)
	}
}

func (s *Server) handleMessage(sess *session.Session, playerID string, send chan []byte, msg WSMessage) {
	var err error
	switch msg.Type {
	case "action":
		var ap actionPayload
		if err := json.Unmarshal(msg.Payload, &ap); err != nil {
			sendWSMsg(send, "error", errorPayload{Message: "invalid action payload"})
			return
		}
		_, err = s.manager.Act(sess, playerID, ap.Action)
		if errors.Is(err, game.ErrIllegalMove) {
			// illegal input is ignored; the sender just sees the unchanged board
			s.sendState(sess, send)
			return
		}

	case "reset":
		_, err = s.manager.Reset(sess, playerID)

	case "switch":
		var sp switchPayload
		if err := json.Unmarshal(msg.Payload, &sp); err != nil || sp.GameType == "" {
			sendWSMsg(send, "error", errorPayload{Message: "invalid switch payload"})
			return
		}
		_, err = s.manager.Switch(sess, playerID, sp.GameType)

	default:
		sendWSMsg(send, "error", errorPayload{Message: "unknown message type: " + msg.Type})
		return
	}

	if err != nil {
		sendWSMsg(send, "error", errorPayload{Message: err.Error()})
		return
	}
	s.broadcastState(sess)
}

func (s *Server) broadcastState(sess *session.Session) {
	v, info := sess.Snapshot()
	p, _ := json.Marshal(statePayload{View: v, SessionInfo: info})
	msg, _ := json.Marshal(WSMessage{Type: "state", Payload: p})
	sess.Broadcast(msg)
}

func (s *Server) sendState(sess *session.Session, send chan []byte) {
	v, info := sess.Snapshot()
	sendWSMsg(send, "state", statePayload{View: v, SessionInfo: info})
}

func sendWSMsg(send chan []byte, msgType string, payload any) {
	p, _ := json.Marshal(payload)
	msg, _ := json.Marshal(WSMessage{Type: msgType, Payload: p})
	select {
	case send <- msg:
	default:
	}
}

func sendWSError(ctx context.Context, conn *websocket.Conn, message string) {
	p, _ := json.Marshal(errorPayload{Message: message})
	msg, _ := json.Marshal(WSMessage{Type: "error", Payload: p})
	conn.Write(ctx, websocket.MessageText, msg)
}
