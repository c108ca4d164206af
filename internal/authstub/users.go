package authstub

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	errUserNotFound = errors.New("user not found")
	errUserExists   = errors.New("user already exists")
)

// User is an account held by the stub.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Username     string
	Role         string
	PasswordHash []byte
	Verified     bool
	CreatedAt    time.Time
}

// userRepository is an in-memory user store keyed by id, with lookups by
// email or username. Lookups are case-insensitive.
type userRepository struct {
	mu         sync.RWMutex
	byID       map[string]*User
	byEmail    map[string]string
	byUsername map[string]string
}

func newUserRepository() *userRepository {
	return &userRepository{
		byID:       make(map[string]*User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
	}
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Create stores u under a new id. An unverified account with the same email
// is replaced, so that registration can be retried.
func (r *userRepository) Create(u User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalize(u.Email)
	if id, ok := r.byEmail[email]; ok {
		if r.byID[id].Verified {
			return nil, errUserExists
		}
		r.deleteLocked(id)
	}

	u.ID = uuid.NewString()
	u.Username = r.uniqueUsernameLocked(email)
	stored := u
	r.byID[u.ID] = &stored
	r.byEmail[email] = u.ID
	r.byUsername[normalize(u.Username)] = u.ID
	return clone(&stored), nil
}

// Find looks a user up by email or username.
func (r *userRepository) Find(identifier string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := normalize(identifier)
	id, ok := r.byEmail[key]
	if !ok {
		id, ok = r.byUsername[key]
	}
	if !ok {
		return nil, errUserNotFound
	}
	return clone(r.byID[id]), nil
}

// Get looks a user up by id.
func (r *userRepository) Get(id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, errUserNotFound
	}
	return clone(u), nil
}

// Update applies fn to the stored user.
func (r *userRepository) Update(id string, fn func(u *User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return errUserNotFound
	}
	fn(u)
	return nil
}

func (r *userRepository) deleteLocked(id string) {
	u := r.byID[id]
	delete(r.byEmail, normalize(u.Email))
	delete(r.byUsername, normalize(u.Username))
	delete(r.byID, id)
}

// uniqueUsernameLocked derives a username from the local part of email.
func (r *userRepository) uniqueUsernameLocked(email string) string {
	base, _, _ := strings.Cut(email, "@")
	if base == "" {
		base = "user"
	}
	name := base
	for i := 2; ; i++ {
		if _, taken := r.byUsername[name]; !taken {
			return name
		}
		name = base + strconv.Itoa(i)
	}
}

func clone(u *User) *User {
	c := *u
	c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	return &c
}
