package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// CredentialStore keeps bcrypt password hashes keyed by user id, separate
// from the profile collection so hashes never ride along in snapshots.
type CredentialStore struct {
	mu     sync.RWMutex
	hashes map[string][]byte
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{hashes: make(map[string][]byte)}
}

// Set hashes and stores a password for a user.
func (c *CredentialStore) Set(userID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.hashes[userID] = hash
	c.mu.Unlock()
	return nil
}

// Check reports whether the password matches the stored hash. Unknown users
// fail the same way as bad passwords.
func (c *CredentialStore) Check(userID, password string) bool {
	c.mu.RLock()
	hash, ok := c.hashes[userID]
	c.mu.RUnlock()
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// Remove drops a user's credentials, for cascade deletes.
func (c *CredentialStore) Remove(userID string) {
	c.mu.Lock()
	delete(c.hashes, userID)
	c.mu.Unlock()
}
