package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"friendchat/internal/models"
	"friendchat/pkg/logger"
)

// UserStore is the durable username-to-id registry. Records are kept in memory
// and mirrored to a single JSON file, rewritten wholesale after every mutation.
// It is not safe for concurrent use; the hub goroutine owns it.
type UserStore struct {
	path    string
	records map[string]*models.Identity // userId -> identity
	byName  map[string]string           // username -> userId
	nextID  int
}

// NewUserStore loads the registry from path. Read or parse failures are logged
// and leave the store empty; the process keeps running.
func NewUserStore(path string) *UserStore {
	s := &UserStore{
		path:    path,
		records: make(map[string]*models.Identity),
		byName:  make(map[string]string),
		nextID:  1,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Log.Errorf("Error loading user data: %v", err)
		}
		return s
	}

	if err := json.Unmarshal(data, &s.records); err != nil {
		logger.Log.Errorf("Error loading user data: %v", err)
		s.records = make(map[string]*models.Identity)
		return s
	}

	for id, rec := range s.records {
		s.byName[rec.Username] = id
		if n, err := strconv.Atoi(id); err == nil && n >= s.nextID {
			s.nextID = n + 1
		}
	}
	return s
}

// ResolveOrCreate returns the durable id for username, allocating the next
// sequential 7-digit id on first sight. New identities are persisted before
// returning. The first id ever written for a username wins permanently.
func (s *UserStore) ResolveOrCreate(username string) string {
	if id, ok := s.byName[username]; ok {
		return id
	}

	id := fmt.Sprintf("%07d", s.nextID)
	s.nextID++
	s.records[id] = &models.Identity{Username: username, Relation: models.RelationNone}
	s.byName[username] = id
	s.save()
	return id
}

// SetRelation updates the persisted relation scalar for userID and rewrites
// the file. Unknown ids are ignored.
func (s *UserStore) SetRelation(userID string, r models.RelationStatus) {
	rec, ok := s.records[userID]
	if !ok {
		return
	}
	rec.Relation = r
	s.save()
}

// Relation returns the persisted relation scalar, RelationNone for unknown ids.
func (s *UserStore) Relation(userID string) models.RelationStatus {
	if rec, ok := s.records[userID]; ok {
		return rec.Relation
	}
	return models.RelationNone
}

// Username returns the name registered for userID, empty when unknown.
func (s *UserStore) Username(userID string) string {
	if rec, ok := s.records[userID]; ok {
		return rec.Username
	}
	return ""
}

func (s *UserStore) save() {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		logger.Log.Errorf("Error saving user data: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		logger.Log.Errorf("Error saving user data: %v", err)
	}
}
