package classifier

// Prediction is the outcome of scoring one message.
type Prediction struct {
	// Label is the winning class. Spam wins only on a strictly greater
	// score; every tie resolves to Ham.
	Label Label

	// HamScore and SpamScore are the raw class scores: products of
	// prior and per-token likelihoods by default, sums of their logs
	// when LogSpace is set.
	HamScore  float64
	SpamScore float64

	// LogSpace records which scoring mode produced the scores.
	LogSpace bool

	// Degenerate is set when both multiplicative scores underflowed to
	// exactly zero; the decision is then the Ham tie-break and the
	// scores carry no information. Log-space scoring never sets it.
	Degenerate bool
}

// Classify scores text multiplicatively, the default mode: each class
// starts at its prior and is multiplied by the cached likelihood of
// every in-vocabulary token, with multiplicity. Out-of-vocabulary
// tokens are skipped entirely, so a message of only unseen tokens
// scores exactly like an empty one.
func (m *Model) Classify(text string) Prediction {
	return m.score(Tokenize(text), false)
}

// ClassifyLog scores text in the log domain: log prior plus the sum of
// cached log likelihoods. The ranking matches Classify whenever the
// multiplicative scores stay above zero, and long messages cannot
// underflow. Log scoring is opt-in; Classify remains the default.
func (m *Model) ClassifyLog(text string) Prediction {
	return m.score(Tokenize(text), true)
}

// ClassifyTokens scores an already tokenized message multiplicatively.
func (m *Model) ClassifyTokens(tokens []string) Prediction {
	return m.score(tokens, false)
}

// ClassifyTokensLog scores an already tokenized message in the log
// domain.
func (m *Model) ClassifyTokensLog(tokens []string) Prediction {
	return m.score(tokens, true)
}

func (m *Model) score(tokens []string, logSpace bool) Prediction {
	var scores [numLabels]float64
	for _, label := range Labels() {
		if logSpace {
			scores[label] = m.logPriors[label]
		} else {
			scores[label] = m.priors[label]
		}
	}

	for _, token := range tokens {
		id, ok := m.vocab[token]
		if !ok {
			// Unseen token: no likelihood exists, contributes nothing.
			continue
		}
		for _, label := range Labels() {
			if logSpace {
				scores[label] += m.logLikelihoods[label][id]
			} else {
				scores[label] *= m.likelihoods[label][id]
			}
		}
	}

	p := Prediction{
		Label:     Ham,
		HamScore:  scores[Ham],
		SpamScore: scores[Spam],
		LogSpace:  logSpace,
	}
	if scores[Spam] > scores[Ham] {
		p.Label = Spam
	}
	if !logSpace && scores[Ham] == 0 && scores[Spam] == 0 {
		p.Degenerate = true
	}
	return p
}
