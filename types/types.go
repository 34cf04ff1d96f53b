package types

const (
	TypeWebsocketPing       = "ping"
	TypeWebsocketPong       = "pong"
	TypeWebsocketAsk        = "ask"
	TypeWebsocketContext    = "context"
	TypeWebsocketFragment   = "fragment"
	TypeWebsocketDone       = "done"
	TypeWebsocketError      = "error"
	TypeWebsocketProcessing = "processing"
)

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketAskPayload struct {
	Question string `json:"question"`
}

type WebSocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketContextResponse struct {
	Context string            `json:"context"`
	Results []RetrievalResult `json:"results"`
}

type WebSocketFragmentResponse struct {
	Fragment string `json:"fragment"`
}

// Handle stream responses
type StreamHandler func(response string)
