package hub

// Central event loop. One goroutine drains registration, teardown and inbound
// events, so every handler runs to completion before the next one starts and
// the session, typing, relation and identity maps never see interleaved
// mutation. Ordering across different connections is whatever order the
// transport delivers.

import (
	"encoding/json"
	"fmt"
	"time"

	"friendchat/internal/models"
	"friendchat/internal/relations"
	"friendchat/internal/storage"
	"friendchat/pkg/logger"
)

const systemUser = "System"

// Session is the ephemeral binding between a live connection and a resolved
// identity. Relation is this connection's cached view, not the durable state.
type Session struct {
	ConnID   string
	Username string
	UserID   string
	Relation models.RelationStatus
}

type inboundEvent struct {
	connID string
	env    Envelope
}

// Hub owns the session table and routes every event. All state behind it is
// single-writer: only the Run goroutine touches it.
type Hub struct {
	store  *storage.UserStore
	engine *relations.Engine

	clients  map[string]*Client  // connID -> client
	sessions map[string]*Session // connID -> session
	typing   map[string]struct{} // usernames currently typing

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundEvent
}

func NewHub(store *storage.UserStore, engine *relations.Engine) *Hub {
	return &Hub{
		store:      store,
		engine:     engine,
		clients:    make(map[string]*Client),
		sessions:   make(map[string]*Session),
		typing:     make(map[string]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundEvent),
	}
}

// Register hands a freshly upgraded connection to the hub loop.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister hands a dropped connection to the hub loop for teardown.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Run processes events until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		case ev := <-h.inbound:
			h.dispatch(ev)
		}
	}
}

func (h *Hub) addClient(c *Client) {
	h.clients[c.ID] = c
	logger.Log.Infof("Client connected: %s", c.ID)
}

func (h *Hub) removeClient(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	close(c.send)

	sess, ok := h.sessions[c.ID]
	if !ok {
		return
	}
	delete(h.sessions, c.ID)
	delete(h.typing, sess.Username)
	logger.Log.Infof("User disconnected: %s (%s)", sess.Username, sess.UserID)

	h.broadcastPresenceOnLeave()
	h.broadcastTyping()
	h.broadcast(EventMessage, models.ChatMessage{
		User: systemUser,
		Text: fmt.Sprintf("%s has left the chat", sess.Username),
		Time: timestamp(),
	})
}

// dispatch routes one inbound event. Any lookup miss makes the whole handler
// a silent no-op: no error event goes back to the client.
func (h *Hub) dispatch(ev inboundEvent) {
	switch ev.env.Event {
	case EventUserJoin:
		var username string
		if !h.decode(ev, &username) {
			return
		}
		h.handleJoin(ev.connID, username)
	case EventSendFriendRequest:
		var p models.FriendRequestPayload
		if !h.decode(ev, &p) {
			return
		}
		h.handleSendRequest(p)
	case EventFriendRequestResponse:
		var p models.FriendResponsePayload
		if !h.decode(ev, &p) {
			return
		}
		h.handleRespond(p)
	case EventChatMessage:
		var text string
		if !h.decode(ev, &text) {
			return
		}
		h.handleChat(ev.connID, text)
	case EventPrivateMessage:
		var p models.PrivateMessagePayload
		if !h.decode(ev, &p) {
			return
		}
		h.handlePrivate(ev.connID, p)
	case EventVoiceNote:
		var dataURL string
		if !h.decode(ev, &dataURL) {
			return
		}
		h.handleVoiceNote(ev.connID, dataURL)
	case EventTyping:
		var isTyping bool
		if !h.decode(ev, &isTyping) {
			return
		}
		h.handleTyping(ev.connID, isTyping)
	default:
		logger.Log.Debugf("Unknown event %q from %s", ev.env.Event, ev.connID)
	}
}

func (h *Hub) decode(ev inboundEvent, out interface{}) bool {
	if err := json.Unmarshal(ev.env.Data, out); err != nil {
		logger.Log.Debugf("Bad %s payload from %s: %v", ev.env.Event, ev.connID, err)
		return false
	}
	return true
}

func (h *Hub) handleJoin(connID, username string) {
	userID := h.store.ResolveOrCreate(username)

	// A fresh session always starts unrelated, even when a durable friendship
	// exists for this user. See DESIGN.md: reconnect reset.
	h.sessions[connID] = &Session{
		ConnID:   connID,
		Username: username,
		UserID:   userID,
		Relation: models.RelationNone,
	}
	logger.Log.Infof("User joined: %s (%s)", username, userID)

	h.broadcastPresence()
	h.broadcast(EventMessage, models.ChatMessage{
		User: systemUser,
		Text: fmt.Sprintf("%s has joined the chat", username),
		Time: timestamp(),
	})
}

func (h *Hub) handleSendRequest(p models.FriendRequestPayload) {
	from := h.findSession(p.From)
	target := h.findSession(p.To)
	if from == nil || target == nil {
		return
	}

	// Only an unrelated requester may open a request.
	if from.Relation != models.RelationNone {
		return
	}
	if !h.engine.SendRequest(from.UserID, target.UserID) {
		return
	}

	from.Relation = models.RelationPending
	h.store.SetRelation(from.UserID, models.RelationPending)

	h.sendTo(target.ConnID, EventFriendRequest, models.FriendRequestNotice{
		From:   p.From,
		Status: models.RelationPending,
	})
	h.sendTo(from.ConnID, EventFriendRequestStatus, models.FriendRequestStatus{
		To:     p.To,
		Status: models.RelationPending,
	})
}

// handleRespond resolves a pending request. Payload naming follows the wire
// contract: From is the original requester's username, To the responder's.
func (h *Hub) handleRespond(p models.FriendResponsePayload) {
	requester := h.findSession(p.From)
	responder := h.findSession(p.To)
	if requester == nil || responder == nil {
		return
	}

	if !h.engine.Respond(requester.UserID, responder.UserID, p.Accepted) {
		return
	}

	status := models.RelationNone
	if p.Accepted {
		status = models.RelationFriends
	}
	requester.Relation = status
	responder.Relation = status
	h.store.SetRelation(requester.UserID, status)
	h.store.SetRelation(responder.UserID, status)

	h.sendTo(responder.ConnID, EventFriendRequestResponse, models.FriendRequestResult{
		From:     p.From,
		Accepted: p.Accepted,
		Status:   status,
	})
	h.sendTo(requester.ConnID, EventFriendRequestResponse, models.FriendRequestResult{
		From:     p.To,
		Accepted: p.Accepted,
		Status:   status,
	})

	h.broadcastPresence()
}

func (h *Hub) handleChat(connID, text string) {
	sess, ok := h.sessions[connID]
	if !ok {
		return
	}
	h.broadcast(EventMessage, models.ChatMessage{
		User: sess.Username,
		Text: text,
		Time: timestamp(),
	})
}

func (h *Hub) handlePrivate(connID string, p models.PrivateMessagePayload) {
	sess, ok := h.sessions[connID]
	if !ok {
		return
	}
	target := h.findSession(p.To)
	if target == nil {
		// No offline mailbox: the message is dropped.
		logger.Log.Debugf("Private message from %s to offline user %s dropped", sess.Username, p.To)
		return
	}
	h.sendTo(target.ConnID, EventPrivateMessage, models.PrivateMessage{
		From: sess.Username,
		Text: p.Text,
		Time: timestamp(),
	})
}

func (h *Hub) handleVoiceNote(connID, dataURL string) {
	sess, ok := h.sessions[connID]
	if !ok {
		return
	}
	h.broadcast(EventVoiceNote, models.VoiceNote{
		User:         sess.Username,
		AudioDataURL: dataURL,
		Time:         timestamp(),
	})
}

func (h *Hub) handleTyping(connID string, isTyping bool) {
	sess, ok := h.sessions[connID]
	if !ok {
		return
	}
	if isTyping {
		h.typing[sess.Username] = struct{}{}
	} else {
		delete(h.typing, sess.Username)
	}
	h.broadcastTyping()
}

// findSession scans the session table for a username. Linear, fine at this
// scale; see DESIGN.md before reusing at higher session counts.
func (h *Hub) findSession(username string) *Session {
	for _, s := range h.sessions {
		if s.Username == username {
			return s
		}
	}
	return nil
}

func (h *Hub) presenceList(selfCheck bool) []models.PresenceEntry {
	list := make([]models.PresenceEntry, 0, len(h.sessions))
	for _, s := range h.sessions {
		isFriend := false
		if selfCheck {
			// Checks the user against their own id, so this stays false. The
			// field rides along in the payload but nothing consumes it.
			isFriend = h.engine.AreFriends(s.UserID, s.UserID)
		}
		list = append(list, models.PresenceEntry{
			ID:       s.ConnID,
			Username: s.Username,
			Online:   true,
			UserID:   s.UserID,
			Relation: s.Relation,
			IsFriend: isFriend,
		})
	}
	return list
}

func (h *Hub) broadcastPresence() {
	h.broadcast(EventUserList, h.presenceList(false))
}

func (h *Hub) broadcastPresenceOnLeave() {
	h.broadcast(EventUserList, h.presenceList(true))
}

func (h *Hub) broadcastTyping() {
	names := make([]string, 0, len(h.typing))
	for name := range h.typing {
		names = append(names, name)
	}
	h.broadcast(EventTypingUsers, names)
}

// broadcast fans an event out to every connection, sender included.
func (h *Hub) broadcast(event string, payload interface{}) {
	frame, ok := encodeEvent(event, payload)
	if !ok {
		return
	}
	for _, c := range h.clients {
		h.push(c, frame)
	}
}

func (h *Hub) sendTo(connID, event string, payload interface{}) {
	c, ok := h.clients[connID]
	if !ok {
		return
	}
	frame, ok := encodeEvent(event, payload)
	if !ok {
		return
	}
	h.push(c, frame)
}

// push queues a frame without blocking the loop. A client whose buffer is
// full is evicted rather than allowed to stall everyone else.
func (h *Hub) push(c *Client, frame []byte) {
	select {
	case c.send <- frame:
	default:
		logger.Log.Warnf("Dropping slow client %s", c.ID)
		delete(h.clients, c.ID)
		close(c.send)
		if sess, ok := h.sessions[c.ID]; ok {
			delete(h.sessions, c.ID)
			delete(h.typing, sess.Username)
		}
	}
}

// timestamp matches the locale-style wall clock the client renders, e.g.
// "3:04:05 PM".
func timestamp() string {
	return time.Now().Format("3:04:05 PM")
}
