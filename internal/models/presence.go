package models

// PresenceEntry is one row of the userList broadcast. Online is always true:
// only connected sessions appear in the list.
type PresenceEntry struct {
	ID       string         `json:"id"`
	Username string         `json:"username"`
	Online   bool           `json:"online"`
	UserID   string         `json:"userId"`
	Relation RelationStatus `json:"relationInt"`
	IsFriend bool           `json:"isFriend"`
}
