package relations

// Engine holds the pending-request set and the symmetric friendship set,
// keyed by durable user ids. Not safe for concurrent use; the hub goroutine
// owns it.
type Engine struct {
	requests map[string]map[string]struct{} // toID -> set of fromID
	friends  map[string]map[string]struct{} // userID -> set of userID
}

func NewEngine() *Engine {
	return &Engine{
		requests: make(map[string]map[string]struct{}),
		friends:  make(map[string]map[string]struct{}),
	}
}

// SendRequest records a pending request from fromID to toID. It reports false
// without mutating anything when the request is directed at the sender, the
// pair is already friends, or an identical request is already pending.
func (e *Engine) SendRequest(fromID, toID string) bool {
	if fromID == toID {
		return false
	}
	if e.AreFriends(fromID, toID) {
		return false
	}
	if e.HasPending(toID, fromID) {
		return false
	}

	if e.requests[toID] == nil {
		e.requests[toID] = make(map[string]struct{})
	}
	e.requests[toID][fromID] = struct{}{}
	return true
}

// Respond resolves the pending request from fromID to toID. Accepting adds the
// friendship edge in both directions; either outcome removes the pending entry.
// It reports false when no such request is pending. Friendships never shrink:
// there is no unfriend transition.
func (e *Engine) Respond(fromID, toID string, accepted bool) bool {
	if !e.HasPending(toID, fromID) {
		return false
	}
	delete(e.requests[toID], fromID)

	if accepted {
		e.addEdge(fromID, toID)
		e.addEdge(toID, fromID)
	}
	return true
}

func (e *Engine) addEdge(a, b string) {
	if e.friends[a] == nil {
		e.friends[a] = make(map[string]struct{})
	}
	e.friends[a][b] = struct{}{}
}

// AreFriends reports whether a friendship edge exists from a to b. Edges are
// always written symmetrically, so argument order does not matter in practice.
func (e *Engine) AreFriends(a, b string) bool {
	_, ok := e.friends[a][b]
	return ok
}

// HasPending reports whether a request from fromID to toID is awaiting a
// response.
func (e *Engine) HasPending(toID, fromID string) bool {
	_, ok := e.requests[toID][fromID]
	return ok
}
