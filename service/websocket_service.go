package service

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tieubaoca/second-brain-be/types"
)

// WebSocketService streams answers over a websocket, one fragment per
// message, with the retrieved context sent first.
type WebSocketService struct {
	brain    *BrainService
	upgrader websocket.Upgrader
}

func NewWebSocketService(brain *BrainService) *WebSocketService {
	return &WebSocketService{
		brain: brain,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

func (s *WebSocketService) HandleAsk(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	// Set connection properties
	conn.SetReadLimit(512 * 1024) // 512KB max message size
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			log.Println("Unmarshal error:", err)
			s.writeError(conn, "Error processing message")
			continue
		}

		switch req.Type {
		case types.TypeWebsocketAsk:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				log.Println("Marshal error:", err)
				s.writeError(conn, "Error processing message")
				continue
			}
			var payload types.WebSocketAskPayload
			if err := json.Unmarshal(payloadBytes, &payload); err != nil {
				log.Println("Unmarshal error:", err)
				s.writeError(conn, "Error processing message")
				continue
			}
			if err := s.streamAnswer(ctx, conn, payload.Question); err != nil {
				log.Println("Write error:", err)
				return
			}
		case types.TypeWebsocketPing:
			pongRes := types.WebSocketResponse{
				Type:    types.TypeWebsocketPong,
				Payload: nil,
			}
			if err := conn.WriteJSON(pongRes); err != nil {
				log.Println("Write error:", err)
			}
		default:
			log.Println("Invalid message type")
		}
	}
}

func (s *WebSocketService) streamAnswer(ctx context.Context, conn *websocket.Conn, question string) error {
	fragments, contextStr, results, err := s.brain.Query(ctx, question)
	if err != nil {
		s.writeError(conn, err.Error())
		return nil
	}

	// Context goes out first so the client can show provenance immediately.
	if err := conn.WriteJSON(types.WebSocketResponse{
		Type: types.TypeWebsocketContext,
		Payload: types.WebSocketContextResponse{
			Context: contextStr,
			Results: results,
		},
	}); err != nil {
		return err
	}

	for fragment := range fragments {
		if err := conn.WriteJSON(types.WebSocketResponse{
			Type:    types.TypeWebsocketFragment,
			Payload: types.WebSocketFragmentResponse{Fragment: fragment},
		}); err != nil {
			return err
		}
	}

	return conn.WriteJSON(types.WebSocketResponse{
		Type: types.TypeWebsocketDone,
	})
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) {
	res := types.WebSocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: message,
	}
	if err := conn.WriteJSON(res); err != nil {
		log.Println("Write error:", err)
	}
}

func (s *WebSocketService) Health() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}
