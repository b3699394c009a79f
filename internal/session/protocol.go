package session

import "encoding/json"

type Message struct {
	Type     string          `json:"type"`
	BoardID  string          `json:"boardId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Client requests.
	TypeSceneLoad = "scene.load"
	TypeSceneSave = "scene.save"

	// Server replies.
	TypeSceneSync = "scene.sync"
	TypeSceneAck  = "scene.ack"
)

type WelcomePayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// ScenePayload carries a whole scene, as the JSON array the engine
// persists, with the board version it belongs to.
type ScenePayload struct {
	Version int64           `json:"version"`
	Scene   json.RawMessage `json:"scene"`
}

type AckPayload struct {
	Version int64 `json:"version"`
}

func newMessage(typ string, payload any) *Message {
	data, _ := json.Marshal(payload)
	return &Message{Type: typ, Payload: data}
}
