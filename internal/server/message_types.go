package server

// MessageType identifies a WebSocket message with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeJoin         MessageType = "join"
	MessageTypeStartHand    MessageType = "start_hand"
	MessageTypeNextHand     MessageType = "next_hand"
	MessageTypeAction       MessageType = "action"
	MessageTypeToggleAway   MessageType = "toggle_away"
	MessageTypeChat         MessageType = "chat"
	MessageTypeSettings     MessageType = "update_settings"
	MessageTypeGiveChips    MessageType = "give_chips"
	MessageTypeKickPlayer   MessageType = "kick_player"
	MessageTypeRequestRebuy MessageType = "request_rebuy"
	MessageTypeHandleRebuy  MessageType = "handle_rebuy"
	MessageTypeLeave        MessageType = "leave"

	// Server to client messages
	MessageTypeRoomAssigned MessageType = "room_assigned"
	MessageTypeGameState    MessageType = "game_state"
	MessageTypePrivateState MessageType = "private_state"
	MessageTypeChatMessage  MessageType = "chat_message"
	MessageTypeError        MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
