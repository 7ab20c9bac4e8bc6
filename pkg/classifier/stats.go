package classifier

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// TokenStats describes one vocabulary token.
type TokenStats struct {
	Token      string  `json:"token"`
	SpamCount  int64   `json:"spam_count"`
	HamCount   int64   `json:"ham_count"`
	SpamProb   float64 `json:"spam_prob"`
	HamProb    float64 `json:"ham_prob"`
	Spamminess float64 `json:"spamminess"`
}

// TokenStats returns statistics for a token, or nil when the token is
// not in the vocabulary. The token goes through the same normalization
// as training text.
func (m *Model) TokenStats(token string) *TokenStats {
	tokens := Tokenize(token)
	if len(tokens) != 1 {
		return nil
	}
	id, ok := m.vocab[tokens[0]]
	if !ok {
		return nil
	}
	return m.tokenStatsByID(id)
}

func (m *Model) tokenStatsByID(id int32) *TokenStats {
	spamProb := m.likelihoods[Spam][id]
	hamProb := m.likelihoods[Ham][id]

	// Spamminess: 0 = pure ham, 1 = pure spam.
	var spamminess float64
	if spamProb+hamProb > 0 {
		spamminess = spamProb / (spamProb + hamProb)
	}

	return &TokenStats{
		Token:      m.tokens[id],
		SpamCount:  m.counts[Spam][id],
		HamCount:   m.counts[Ham][id],
		SpamProb:   spamProb,
		HamProb:    hamProb,
		Spamminess: spamminess,
	}
}

// TopTokens returns the tokens most characteristic of the label, ranked
// by spamminess (descending for Spam, ascending for Ham) with the raw
// class count as tie-break. Tokens never seen in the label are skipped.
func (m *Model) TopTokens(label Label, limit int) []*TokenStats {
	if !label.Valid() {
		return nil
	}

	var stats []*TokenStats
	for id := range m.tokens {
		if m.counts[label][id] == 0 {
			continue
		}
		stats = append(stats, m.tokenStatsByID(int32(id)))
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Spamminess != stats[j].Spamminess {
			if label == Spam {
				return stats[i].Spamminess > stats[j].Spamminess
			}
			return stats[i].Spamminess < stats[j].Spamminess
		}
		if label == Spam {
			return stats[i].SpamCount > stats[j].SpamCount
		}
		return stats[i].HamCount > stats[j].HamCount
	})

	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

// Info is a summary of a trained model.
type Info struct {
	SpamMessages   int       `json:"spam_messages"`
	HamMessages    int       `json:"ham_messages"`
	SpamTokens     int64     `json:"spam_tokens"`
	HamTokens      int64     `json:"ham_tokens"`
	VocabularySize int       `json:"vocabulary_size"`
	SpamPrior      float64   `json:"spam_prior"`
	HamPrior       float64   `json:"ham_prior"`
	Alpha          float64   `json:"alpha"`
	TrainedAt      time.Time `json:"trained_at"`
}

// Info returns a summary of the model.
func (m *Model) Info() Info {
	return Info{
		SpamMessages:   m.messages[Spam],
		HamMessages:    m.messages[Ham],
		SpamTokens:     m.totals[Spam],
		HamTokens:      m.totals[Ham],
		VocabularySize: len(m.tokens),
		SpamPrior:      m.priors[Spam],
		HamPrior:       m.priors[Ham],
		Alpha:          m.alpha,
		TrainedAt:      m.trainedAt,
	}
}

// PrintStats writes a human-readable model summary with the top tokens
// of each class.
func (m *Model) PrintStats(w io.Writer, topN int) {
	info := m.Info()

	fmt.Fprintf(w, "🧠 Naive Bayes SMS Model\n")
	fmt.Fprintf(w, "════════════════════════════════════════\n")
	fmt.Fprintf(w, "Training Data:\n")
	fmt.Fprintf(w, "  Spam messages: %d\n", info.SpamMessages)
	fmt.Fprintf(w, "  Ham messages: %d\n", info.HamMessages)
	fmt.Fprintf(w, "  Spam tokens: %d\n", info.SpamTokens)
	fmt.Fprintf(w, "  Ham tokens: %d\n", info.HamTokens)
	fmt.Fprintf(w, "  Vocabulary size: %d\n", info.VocabularySize)
	fmt.Fprintf(w, "  Spam prior: %.4f\n", info.SpamPrior)
	fmt.Fprintf(w, "  Ham prior: %.4f\n", info.HamPrior)
	fmt.Fprintf(w, "  Smoothing factor: %.2f\n", info.Alpha)

	if !info.TrainedAt.IsZero() {
		fmt.Fprintf(w, "  Trained: %s\n", info.TrainedAt.Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintf(w, "\n📈 Top Spam Tokens:\n")
	for i, ts := range m.TopTokens(Spam, topN) {
		fmt.Fprintf(w, "  %2d. %-15s (%.3f spamminess, %d/%d)\n",
			i+1, ts.Token, ts.Spamminess, ts.SpamCount, ts.HamCount)
	}

	fmt.Fprintf(w, "\n📉 Top Ham Tokens:\n")
	for i, ts := range m.TopTokens(Ham, topN) {
		fmt.Fprintf(w, "  %2d. %-15s (%.3f spamminess, %d/%d)\n",
			i+1, ts.Token, ts.Spamminess, ts.SpamCount, ts.HamCount)
	}

	fmt.Fprintf(w, "\n")
}
