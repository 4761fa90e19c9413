package main

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

var (
	errUserExists  = errors.New("username already registered")
	errBadLogin    = errors.New("invalid username or password")
	errEmptyFields = errors.New("username and password required")
)

type tokenRecord struct {
	Username string
	Issued   time.Time
}

// Registry is an in-memory account store that issues bearer tokens with
// TTL-based expiry.
type Registry struct {
	mu       sync.RWMutex
	accounts map[string][32]byte
	tokens   map[string]*tokenRecord
	ttl      time.Duration
	stopCh   chan struct{}
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	r := &Registry{
		accounts: make(map[string][32]byte),
		tokens:   make(map[string]*tokenRecord),
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}
	go r.cleanupLoop()
	return r
}

func (r *Registry) Stop() {
	close(r.stopCh)
}

// Register creates an account and returns a token for it.
func (r *Registry) Register(username, password string) (string, error) {
	if username == "" || password == "" {
		return "", errEmptyFields
	}
	r.mu.Lock()
	if _, ok := r.accounts[username]; ok {
		r.mu.Unlock()
		return "", errUserExists
	}
	r.accounts[username] = sha256.Sum256([]byte(password))
	r.mu.Unlock()
	return r.issue(username), nil
}

func (r *Registry) Login(username, password string) (string, error) {
	if username == "" || password == "" {
		return "", errEmptyFields
	}
	r.mu.RLock()
	hash, ok := r.accounts[username]
	r.mu.RUnlock()
	if !ok || hash != sha256.Sum256([]byte(password)) {
		return "", errBadLogin
	}
	return r.issue(username), nil
}

// Lookup returns the user a live token was issued to.
func (r *Registry) Lookup(token string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.tokens[token]
	if !ok || time.Since(rec.Issued) > r.ttl {
		return "", false
	}
	return rec.Username, true
}

func (r *Registry) issue(username string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	token := fmt.Sprintf("%x", b)

	r.mu.Lock()
	r.tokens[token] = &tokenRecord{Username: username, Issued: time.Now()}
	r.mu.Unlock()
	return token
}

func (r *Registry) cleanupLoop() {
	ticker := time.NewTicker(r.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.expire()
		case <-r.stopCh:
			return
		}
	}
}

func (r *Registry) expire() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for token, rec := range r.tokens {
		if now.Sub(rec.Issued) > r.ttl {
			log.Printf("[replay] token for %q expired", rec.Username)
			delete(r.tokens, token)
		}
	}
}
