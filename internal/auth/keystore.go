package auth

import (
	"fmt"
	"log/slog"
	"time"

	"go.etcd.io/bbolt"
)

const (
	credentialBucketName = "credentials"
	tokenKey             = "bearer_token"
)

// Keystore persists the bearer credential issued by the identity provider
// between invocations. It implements TokenSource.
type Keystore struct {
	db *bbolt.DB
}

// NewKeystore opens (or creates) the keystore file at path.
func NewKeystore(path string) (*Keystore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening keystore: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(credentialBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating credential bucket: %w", err)
	}

	return &Keystore{db: db}, nil
}

// SaveToken stores the bearer credential, replacing any previous one.
func (k *Keystore) SaveToken(token string) error {
	return k.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(credentialBucketName))
		return bucket.Put([]byte(tokenKey), []byte(token))
	})
}

// ClearToken removes the stored credential.
func (k *Keystore) ClearToken() error {
	return k.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(credentialBucketName))
		return bucket.Delete([]byte(tokenKey))
	})
}

// Token returns the stored credential and whether one is present. A keystore
// that cannot be read reports no credential.
func (k *Keystore) Token() (string, bool) {
	var token string
	err := k.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(credentialBucketName))
		if data := bucket.Get([]byte(tokenKey)); data != nil {
			token = string(data)
		}
		return nil
	})
	if err != nil {
		slog.Warn("Failed to read keystore", "error", err)
		return "", false
	}
	return token, token != ""
}

// Close closes the underlying keystore file.
func (k *Keystore) Close() error {
	return k.db.Close()
}
