package models

// Inbound event payloads.

type FriendRequestPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type FriendResponsePayload struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Accepted bool   `json:"accepted"`
}

type PrivateMessagePayload struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// Outbound event payloads.

// ChatMessage carries group and system messages.
type ChatMessage struct {
	User string `json:"user"`
	Text string `json:"text"`
	Time string `json:"time"`
}

type PrivateMessage struct {
	From string `json:"from"`
	Text string `json:"text"`
	Time string `json:"time"`
}

type VoiceNote struct {
	User         string `json:"user"`
	AudioDataURL string `json:"audioDataUrl"`
	Time         string `json:"time"`
}

// FriendRequestNotice is sent to the target of a new friend request.
type FriendRequestNotice struct {
	From   string         `json:"from"`
	Status RelationStatus `json:"status"`
}

// FriendRequestStatus is sent back to the requester after a request goes out.
type FriendRequestStatus struct {
	To     string         `json:"to"`
	Status RelationStatus `json:"status"`
}

// FriendRequestResult is sent to both parties once a request is answered.
type FriendRequestResult struct {
	From     string         `json:"from"`
	Accepted bool           `json:"accepted"`
	Status   RelationStatus `json:"status"`
}
