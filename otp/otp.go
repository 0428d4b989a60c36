// Package otp keeps short-lived one-time passcodes keyed by email.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultTTL         = 2 * time.Minute
	DefaultVerifiedTTL = 5 * time.Minute
)

type Store struct {
	// mu makes check-then-delete on either cache a single step
	mu       sync.Mutex
	codes    *cache.Cache
	verified *cache.Cache
}

// New creates a store; codes live for ttl, a successful verification is remembered for verifiedTTL
func New(ttl, verifiedTTL time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if verifiedTTL <= 0 {
		verifiedTTL = DefaultVerifiedTTL
	}
	return &Store{
		codes:    cache.New(ttl, 2*ttl),
		verified: cache.New(verifiedTTL, 2*verifiedTTL),
	}
}

func key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Issue stores a fresh 4-digit code for email, replacing any previous one
func (s *Store) Issue(email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%04d", n.Int64()+1000)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes.Set(key(email), code, cache.DefaultExpiration)
	return code, nil
}

// Verify consumes the code when it matches and marks the email as verified
func (s *Store) Verify(email, code string) bool {
	k := key(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.codes.Get(k)
	if !ok || v.(string) != strings.TrimSpace(code) {
		return false
	}
	s.codes.Delete(k)
	s.verified.Set(k, true, cache.DefaultExpiration)
	return true
}

// ConsumeVerified reports whether email was verified recently and forgets it
func (s *Store) ConsumeVerified(email string) bool {
	k := key(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.verified.Get(k); !ok {
		return false
	}
	s.verified.Delete(k)
	return true
}
