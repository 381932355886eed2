// Package storage implements the on-device persistence layer: an encrypted
// key/value store plus the typed session and claims views over it.
package storage

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrStorageUnavailable is returned when the backing file cannot be read,
// written or decrypted with the configured key material.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Options configures an encrypted local store instance.
type Options struct {
	// Path is the location of the encrypted store file.
	Path string
	// ID identifies the store namespace; it is bound to the ciphertext as
	// additional data, so a file decrypts only under the ID it was written with.
	ID string
	// EncryptionKey is the symmetric key material the file key is derived from.
	EncryptionKey string
}

// LocalStore is a string-keyed store persisted as a single AES-GCM encrypted
// file. Values survive process restarts. Reads are served from memory; every
// mutation rewrites the file before returning.
type LocalStore struct {
	mu     sync.Mutex
	path   string
	id     string
	aead   cipher.AEAD
	values map[string]string
}

// Open creates or loads the encrypted store described by opts. A missing file
// yields an empty store; a present but undecryptable file (corrupt bytes or
// wrong key material) yields ErrStorageUnavailable.
func Open(opts Options) (*LocalStore, error) {
	aead, err := NewAEADFromKey([]byte(opts.EncryptionKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	ls := &LocalStore{
		path:   opts.Path,
		id:     opts.ID,
		aead:   aead,
		values: make(map[string]string),
	}

	raw, err := os.ReadFile(opts.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return ls, nil
		}
		return nil, fmt.Errorf("%w: read %s: %w", ErrStorageUnavailable, opts.Path, err)
	}

	if len(raw) < aead.NonceSize() {
		return nil, fmt.Errorf("%w: truncated store file", ErrStorageUnavailable)
	}
	nonce := raw[:aead.NonceSize()]
	plain, err := aead.Open(nil, nonce, raw[aead.NonceSize():], []byte(opts.ID))
	if err != nil {
		return nil, fmt.Errorf("%w: decrypt store: %w", ErrStorageUnavailable, err)
	}
	if err := json.Unmarshal(plain, &ls.values); err != nil {
		return nil, fmt.Errorf("%w: decode store: %w", ErrStorageUnavailable, err)
	}
	return ls, nil
}

// Get returns the value stored under key and whether it was present.
func (ls *LocalStore) Get(key string) (string, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	v, ok := ls.values[key]
	return v, ok
}

// Set durably writes value under key, overwriting any prior value.
func (ls *LocalStore) Set(key, value string) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.values[key] = value
	return ls.persist()
}

// Delete durably removes key. Deleting an absent key is not an error.
func (ls *LocalStore) Delete(key string) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	delete(ls.values, key)
	return ls.persist()
}

// ClearAll durably removes every key in the namespace.
func (ls *LocalStore) ClearAll() error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.values = make(map[string]string)
	return ls.persist()
}

// persist re-encrypts the full map and rewrites the store file.
// Callers must hold ls.mu.
func (ls *LocalStore) persist() error {
	plain, err := json.Marshal(ls.values)
	if err != nil {
		return fmt.Errorf("%w: encode store: %w", ErrStorageUnavailable, err)
	}
	nonce := make([]byte, ls.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("%w: generate nonce: %w", ErrStorageUnavailable, err)
	}
	// File layout: nonce || ciphertext.
	ct := ls.aead.Seal(nonce, nonce, plain, []byte(ls.id))
	if err := os.WriteFile(ls.path, ct, 0o600); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStorageUnavailable, ls.path, err)
	}
	return nil
}
