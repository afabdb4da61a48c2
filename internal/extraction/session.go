package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/McKlay/receipt-data-extractor/internal/auth"
)

// State is the lifecycle phase of a Session.
type State int

const (
	Idle State = iota
	FileSelected
	Extracting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FileSelected:
		return "file_selected"
	case Extracting:
		return "extracting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session manages one upload-and-extract operation at a time:
// Idle -> FileSelected -> Extracting -> Succeeded or Failed. Selecting a new
// file from a terminal state returns to FileSelected and discards the prior
// result and error.
type Session struct {
	extractor Extractor
	tokens    auth.TokenSource

	mu     sync.Mutex
	state  State
	file   *File
	result *Result
	err    error
}

// NewSession creates a Session in the Idle state.
func NewSession(extractor Extractor, tokens auth.TokenSource) *Session {
	return &Session{
		extractor: extractor,
		tokens:    tokens,
	}
}

// SelectFile stages exactly one file for extraction, clearing any previous
// result and error. It is rejected only while an extraction is in flight.
func (s *Session) SelectFile(file File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Extracting {
		return ErrExtractionInFlight
	}
	s.file = &file
	s.result = nil
	s.err = nil
	s.state = FileSelected
	return nil
}

// Submit sends the staged file to the extraction service. It fails
// synchronously with ErrNoFileSelected when nothing is staged, with
// auth.ErrTokenRequired when no credential is present, and with
// ErrExtractionInFlight while a previous submit is still running. The
// service payload is stored as-is; there is no automatic retry.
func (s *Session) Submit(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	if s.state == Extracting {
		s.mu.Unlock()
		return nil, ErrExtractionInFlight
	}
	if s.file == nil {
		s.mu.Unlock()
		return nil, ErrNoFileSelected
	}
	token, ok := s.tokens.Token()
	if !ok {
		s.mu.Unlock()
		return nil, auth.ErrTokenRequired
	}
	file := *s.file
	s.state = Extracting
	s.result = nil
	s.err = nil
	s.mu.Unlock()

	result, err := s.extractor.Extract(ctx, token, file)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		slog.Error("Extraction failed", "filename", file.Name, "error", err)
		s.err = fmt.Errorf("%w: %v", ErrExtractFailed, err)
		s.state = Failed
		return nil, s.err
	}

	slog.Info("Extraction succeeded", "filename", file.Name)
	s.result = result
	s.state = Succeeded
	return result, nil
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the stored payload, nil unless the session has succeeded.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Err returns the failure from the last submit, nil unless the session has
// failed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
