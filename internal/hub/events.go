package hub

import (
	"encoding/json"

	"friendchat/pkg/logger"
)

// Envelope is the named-event frame exchanged on the websocket in both
// directions. Data holds the event-specific payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Inbound event names.
const (
	EventUserJoin              = "userJoin"
	EventSendFriendRequest     = "sendFriendRequest"
	EventFriendRequestResponse = "friendRequestResponse"
	EventChatMessage           = "chatMessage"
	EventPrivateMessage        = "privateMessage"
	EventVoiceNote             = "voiceNote"
	EventTyping                = "typing"
)

// Outbound event names.
const (
	EventUserList            = "userList"
	EventMessage             = "message"
	EventFriendRequest       = "friendRequest"
	EventFriendRequestStatus = "friendRequestStatus"
	EventTypingUsers         = "typingUsers"
)

func encodeEvent(event string, payload interface{}) ([]byte, bool) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Errorf("Failed to encode %s payload: %v", event, err)
		return nil, false
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		logger.Log.Errorf("Failed to encode %s frame: %v", event, err)
		return nil, false
	}
	return frame, true
}
