package addons

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// User is the record kept by the sample users add-on.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SimpleFileDB keeps users in memory. With a connection string of the form
// file://<directory> it also persists them to users.json inside that directory.
type SimpleFileDB struct {
	mu         sync.RWMutex
	connString string
	path       string
	nextID     int
	users      map[int]User
}

// Connect prepares the store, creating the database directory when needed.
func (s *SimpleFileDB) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[int]User)
	s.nextID = 1
	if len(s.connString) <= 0 {
		return nil
	}
	if !strings.HasPrefix(s.connString, "file://") {
		return fmt.Errorf("SimpleFileDB connString %q must start with file://", s.connString)
	}

	dbPath := s.connString[len("file://"):]
	if err := os.MkdirAll(dbPath, 0o755); err != nil {
		return fmt.Errorf("error creating SimpleFileDB %s: %w", dbPath, err)
	}
	s.path = filepath.Join(dbPath, "users.json")

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("error reading SimpleFileDB %s: %w", s.path, err)
	}
	for _, u := range users {
		s.users[u.ID] = u
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}
	return nil
}

func (s *SimpleFileDB) Insert(name string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := User{ID: s.nextID, Name: name}
	s.users[u.ID] = u
	s.nextID++
	return u, s.flush()
}

func (s *SimpleFileDB) FindOne(id int) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, found := s.users[id]
	return u, found
}

// Find returns the users whose name contains filter, ordered by id.
func (s *SimpleFileDB) Find(filter string) []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, 0, len(s.users))
	for _, u := range s.users {
		if strings.Contains(u.Name, filter) {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (s *SimpleFileDB) Delete(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.users[id]; !found {
		return false, nil
	}
	delete(s.users, id)
	return true, s.flush()
}

// flush must be called with the write lock held.
func (s *SimpleFileDB) flush() error {
	if len(s.path) <= 0 {
		return nil
	}
	users := make([]User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
