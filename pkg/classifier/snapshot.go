package classifier

import (
	"fmt"
	"time"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

// Snapshot is the persistent form of a model: the raw counts, not the
// estimated parameters. Loading re-runs estimation, so a restored model
// is identical to the freshly trained one.
type Snapshot struct {
	Version      int       `msgpack:"version" json:"version"`
	Alpha        float64   `msgpack:"alpha" json:"alpha"`
	Tokens       []string  `msgpack:"tokens" json:"tokens"`
	SpamCounts   []int64   `msgpack:"spam_counts" json:"spam_counts"`
	HamCounts    []int64   `msgpack:"ham_counts" json:"ham_counts"`
	SpamTokens   int64     `msgpack:"spam_tokens" json:"spam_tokens"`
	HamTokens    int64     `msgpack:"ham_tokens" json:"ham_tokens"`
	SpamMessages int       `msgpack:"spam_messages" json:"spam_messages"`
	HamMessages  int       `msgpack:"ham_messages" json:"ham_messages"`
	TrainedAt    time.Time `msgpack:"trained_at" json:"trained_at"`
}

// Snapshot captures the model state for persistence.
func (m *Model) Snapshot() *Snapshot {
	s := &Snapshot{
		Version:      SnapshotVersion,
		Alpha:        m.alpha,
		Tokens:       make([]string, len(m.tokens)),
		SpamCounts:   make([]int64, len(m.tokens)),
		HamCounts:    make([]int64, len(m.tokens)),
		SpamTokens:   m.totals[Spam],
		HamTokens:    m.totals[Ham],
		SpamMessages: m.messages[Spam],
		HamMessages:  m.messages[Ham],
		TrainedAt:    m.trainedAt,
	}
	copy(s.Tokens, m.tokens)
	copy(s.SpamCounts, m.counts[Spam])
	copy(s.HamCounts, m.counts[Ham])
	return s
}

// FromSnapshot rebuilds a model from persisted counts and re-estimates
// its parameters.
func FromSnapshot(s *Snapshot) (*Model, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrInvalidInput)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", ErrInvalidInput, s.Version)
	}
	if s.Alpha < 0 {
		return nil, fmt.Errorf("%w: negative smoothing factor %g", ErrInvalidInput, s.Alpha)
	}
	if len(s.SpamCounts) != len(s.Tokens) || len(s.HamCounts) != len(s.Tokens) {
		return nil, fmt.Errorf("%w: count arrays do not match vocabulary size", ErrInvalidInput)
	}
	if s.SpamMessages+s.HamMessages == 0 {
		return nil, fmt.Errorf("%w: snapshot has no training messages", ErrInvalidInput)
	}

	m := &Model{
		vocab:     make(map[string]int32, len(s.Tokens)),
		tokens:    make([]string, len(s.Tokens)),
		alpha:     s.Alpha,
		trainedAt: s.TrainedAt,
	}
	copy(m.tokens, s.Tokens)

	m.counts[Spam] = make([]int64, len(s.Tokens))
	m.counts[Ham] = make([]int64, len(s.Tokens))
	copy(m.counts[Spam], s.SpamCounts)
	copy(m.counts[Ham], s.HamCounts)

	for id, token := range m.tokens {
		if _, exists := m.vocab[token]; exists {
			return nil, fmt.Errorf("%w: duplicate vocabulary token %q", ErrInvalidInput, token)
		}
		m.vocab[token] = int32(id)
	}

	m.totals[Spam] = s.SpamTokens
	m.totals[Ham] = s.HamTokens
	m.messages[Spam] = s.SpamMessages
	m.messages[Ham] = s.HamMessages

	m.estimate()
	return m, nil
}
