package server

import (
	"encoding/json"
	"time"

	"github.com/cardroom/holdem/internal/game"
)

// Message is the base WebSocket message envelope.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server messages

type JoinData struct {
	PlayerName string `json:"playerName"`
	RoomCode   string `json:"roomCode,omitempty"`
}

type ActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

type ChatData struct {
	Text string `json:"text"`
}

type SettingsData struct {
	Settings game.Settings `json:"settings"`
}

type GiveChipsData struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
}

type KickPlayerData struct {
	PlayerID string `json:"playerId"`
}

type HandleRebuyData struct {
	PlayerID string `json:"playerId"`
	Approved bool   `json:"approved"`
}

// Server → Client messages

type RoomAssignedData struct {
	RoomCode  string `json:"roomCode"`
	SessionID string `json:"sessionId"`
	Waiting   bool   `json:"waiting"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ChatMessageData carries both player chat and system notices; Type is
// "player" or "system".
type ChatMessageData struct {
	Type      string    `json:"type"`
	Name      string    `json:"name,omitempty"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
