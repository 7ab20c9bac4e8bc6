package dataset

import (
	"fmt"
	"math/rand"

	"github.com/zpam/sms-filter/pkg/classifier"
)

// Split partitions docs into train and test sets. The input is copied,
// shuffled with the seeded generator and cut at trainFraction, so the
// same seed always yields the same partition and the caller's slice is
// left untouched. trainFraction must be strictly between 0 and 1.
func Split(docs []classifier.Document, trainFraction float64, seed int64) (train, test []classifier.Document, err error) {
	if trainFraction <= 0 || trainFraction >= 1 {
		return nil, nil, fmt.Errorf("%w: train fraction %g must be between 0 and 1", classifier.ErrInvalidInput, trainFraction)
	}

	shuffled := make([]classifier.Document, len(docs))
	copy(shuffled, docs)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cut := int(float64(len(shuffled)) * trainFraction)
	return shuffled[:cut], shuffled[cut:], nil
}
