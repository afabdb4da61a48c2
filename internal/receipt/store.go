package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/McKlay/receipt-data-extractor/internal/auth"
)

var (
	// ErrFetchFailed indicates the persistence service did not return the
	// receipt collection.
	ErrFetchFailed = errors.New("fetching receipts failed")

	// ErrDeleteFailed indicates the persistence service did not confirm a
	// deletion; local state is left untouched.
	ErrDeleteFailed = errors.New("deleting receipt failed")

	// ErrRemoveDeclined indicates the user did not confirm a deletion.
	ErrRemoveDeclined = errors.New("receipt removal declined")
)

// PersistenceClient is the remote store of receipts.
type PersistenceClient interface {
	// ListReceipts returns the full remote collection.
	ListReceipts(ctx context.Context, token string) ([]Receipt, error)

	// DeleteReceipt removes one receipt by id.
	DeleteReceipt(ctx context.Context, token string, id string) error
}

// Confirmer is the yes/no gate guarding irreversible operations.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Store owns the authoritative in-process receipt collection and mediates
// every collection-level mutation against the persistence service. All other
// components only ever read derived views.
type Store struct {
	client  PersistenceClient
	tokens  auth.TokenSource
	confirm Confirmer

	loads singleflight.Group

	mu       sync.Mutex
	receipts []Receipt
	summary  Summary
}

// NewStore creates a Store over the given persistence client, credential
// source, and deletion confirmation gate.
func NewStore(client PersistenceClient, tokens auth.TokenSource, confirm Confirmer) *Store {
	return &Store{
		client:  client,
		tokens:  tokens,
		confirm: confirm,
	}
}

// Load replaces the local collection with the remote one and recomputes the
// full-collection summary. Concurrent callers coalesce onto a single
// in-flight request. Fails with auth.ErrTokenRequired before any network
// call when no credential is present.
func (s *Store) Load(ctx context.Context) error {
	token, ok := s.tokens.Token()
	if !ok {
		return auth.ErrTokenRequired
	}

	_, err, _ := s.loads.Do("load", func() (interface{}, error) {
		receipts, err := s.client.ListReceipts(ctx, token)
		if err != nil {
			slog.Error("Failed to load receipts", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}

		s.mu.Lock()
		s.receipts = receipts
		s.summary = Summarize(receipts)
		s.mu.Unlock()

		slog.Info("Loaded receipts", "count", len(receipts))
		return nil, nil
	})
	return err
}

// Remove deletes the receipt with the given id. The confirmation gate runs
// first, then the credential check, then the remote delete; the local
// collection and summary only change after the service confirms. The summary
// is updated incrementally, which must match a full recomputation over the
// reduced collection.
func (s *Store) Remove(ctx context.Context, id string) error {
	if !s.confirm.Confirm(fmt.Sprintf("Delete receipt %s? This cannot be undone.", id)) {
		return ErrRemoveDeclined
	}

	token, ok := s.tokens.Token()
	if !ok {
		return auth.ErrTokenRequired
	}

	if err := s.client.DeleteReceipt(ctx, token, id); err != nil {
		slog.Error("Failed to delete receipt", "id", id, "error", err)
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.receipts {
		if r.ID != id {
			continue
		}
		s.receipts = append(s.receipts[:i:i], s.receipts[i+1:]...)
		s.summary.Count--
		s.summary.Total = s.summary.Total.Sub(r.Total)
		break
	}

	slog.Info("Deleted receipt", "id", id)
	return nil
}

// Receipts returns a copy of the current collection.
func (s *Store) Receipts() []Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Receipt, len(s.receipts))
	copy(out, s.receipts)
	return out
}

// Summary returns the full-collection aggregate.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}
