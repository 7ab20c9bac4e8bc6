package classifier

import (
	"fmt"
	"time"
)

// DefaultAlpha is the Laplace smoothing factor used when no option
// overrides it.
const DefaultAlpha = 1.0

// Document is one labeled training message.
type Document struct {
	Text  string
	Label Label
}

// Option adjusts training behavior.
type Option func(*trainOptions)

type trainOptions struct {
	alpha float64
}

// WithAlpha sets the additive smoothing factor. Zero disables smoothing
// and is permitted, but unsmoothed likelihoods can be zero and drive
// multiplicative scores to a degenerate 0/0 tie. Negative values are
// rejected by Train.
func WithAlpha(alpha float64) Option {
	return func(o *trainOptions) {
		o.alpha = alpha
	}
}

// Train builds a Model from labeled documents. The vocabulary is the
// union of tokens across both classes, per-class frequencies keep token
// multiplicity, and parameters are estimated once with additive
// smoothing. Results depend only on the multiset of documents, not
// their order.
//
// An empty training set, a negative alpha or a document carrying an
// out-of-range Label fail with ErrInvalidInput.
func Train(docs []Document, opts ...Option) (*Model, error) {
	options := trainOptions{alpha: DefaultAlpha}
	for _, opt := range opts {
		opt(&options)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: empty training set", ErrInvalidInput)
	}
	if options.alpha < 0 {
		return nil, fmt.Errorf("%w: negative smoothing factor %g", ErrInvalidInput, options.alpha)
	}

	m := &Model{
		vocab: make(map[string]int32),
		alpha: options.alpha,
	}

	for i, doc := range docs {
		if !doc.Label.Valid() {
			return nil, fmt.Errorf("%w: document %d has unknown label %d", ErrInvalidInput, i, doc.Label)
		}

		for _, token := range Tokenize(doc.Text) {
			id := m.intern(token)
			m.counts[doc.Label][id]++
			m.totals[doc.Label]++
		}
		m.messages[doc.Label]++
	}

	m.trainedAt = time.Now()
	m.estimate()

	return m, nil
}

// intern returns the dense id for token, growing the vocabulary and both
// count arrays when the token is new. Count slots for the other class
// start at zero, so every vocabulary token has an entry in both classes.
func (m *Model) intern(token string) int32 {
	if id, ok := m.vocab[token]; ok {
		return id
	}
	id := int32(len(m.tokens))
	m.vocab[token] = id
	m.tokens = append(m.tokens, token)
	for _, label := range Labels() {
		m.counts[label] = append(m.counts[label], 0)
	}
	return id
}
