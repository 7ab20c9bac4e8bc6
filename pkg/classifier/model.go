package classifier

import (
	"math"
	"time"
)

// Model is a trained Multinomial Naive Bayes classifier. All parameters
// are estimated once by Train (or FromSnapshot) and cached; a Model is
// immutable afterwards and safe for concurrent use.
type Model struct {
	// Vocabulary: every distinct token seen in either class, interned
	// to a dense id. tokens[id] recovers the string.
	vocab  map[string]int32
	tokens []string

	// Raw frequencies, indexed by label then token id.
	counts [numLabels][]int64
	totals [numLabels]int64

	// Training set composition.
	messages [numLabels]int

	// Cached parameters.
	priors         [numLabels]float64
	logPriors      [numLabels]float64
	likelihoods    [numLabels][]float64
	logLikelihoods [numLabels][]float64

	alpha     float64
	trainedAt time.Time
}

// estimate computes and caches priors and smoothed likelihoods from the
// accumulated counts. Called exactly once, after counting finishes.
func (m *Model) estimate() {
	totalMessages := float64(m.messages[Ham] + m.messages[Spam])
	vocabSize := float64(len(m.tokens))

	for _, label := range Labels() {
		m.priors[label] = float64(m.messages[label]) / totalMessages
		m.logPriors[label] = math.Log(m.priors[label])

		likelihoods := make([]float64, len(m.tokens))
		logLikelihoods := make([]float64, len(m.tokens))

		// Additive smoothing: (count + alpha) / (total + alpha*|V|).
		// With alpha = 0 and an empty class the denominator is zero;
		// every likelihood of that class is then zero.
		denominator := float64(m.totals[label]) + m.alpha*vocabSize
		for id := range m.tokens {
			var p float64
			if denominator > 0 {
				p = (float64(m.counts[label][id]) + m.alpha) / denominator
			}
			likelihoods[id] = p
			logLikelihoods[id] = math.Log(p)
		}

		m.likelihoods[label] = likelihoods
		m.logLikelihoods[label] = logLikelihoods
	}
}

// Alpha returns the smoothing factor the model was trained with.
func (m *Model) Alpha() float64 {
	return m.alpha
}

// TrainedAt returns when the model finished training.
func (m *Model) TrainedAt() time.Time {
	return m.trainedAt
}

// VocabularySize returns the number of distinct tokens across both
// classes.
func (m *Model) VocabularySize() int {
	return len(m.tokens)
}

// TrainedMessages returns how many training messages carried the label.
func (m *Model) TrainedMessages(label Label) int {
	if !label.Valid() {
		return 0
	}
	return m.messages[label]
}

// TokenCount returns the total token occurrences counted for the label.
func (m *Model) TokenCount(label Label) int64 {
	if !label.Valid() {
		return 0
	}
	return m.totals[label]
}

// Prior returns the class prior P(label).
func (m *Model) Prior(label Label) float64 {
	if !label.Valid() {
		return 0
	}
	return m.priors[label]
}

// Likelihood returns the cached smoothed likelihood P(token|label) and
// whether the token is in the vocabulary. Out-of-vocabulary tokens have
// no likelihood; they are skipped during scoring.
func (m *Model) Likelihood(label Label, token string) (float64, bool) {
	if !label.Valid() {
		return 0, false
	}
	id, ok := m.vocab[token]
	if !ok {
		return 0, false
	}
	return m.likelihoods[label][id], true
}
