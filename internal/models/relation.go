package models

// RelationStatus describes the friendship state as seen from one party.
type RelationStatus int

const (
	RelationNone    RelationStatus = 0
	RelationPending RelationStatus = 1
	RelationFriends RelationStatus = 2
)

// Identity is the durable record kept for every username ever seen.
// The JSON shape is the on-disk layout of the user data file.
type Identity struct {
	Username string         `json:"username"`
	Relation RelationStatus `json:"relationInt"`
}
