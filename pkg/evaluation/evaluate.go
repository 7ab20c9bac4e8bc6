package evaluation

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zpam/sms-filter/pkg/classifier"
)

// Confusion is a two-class confusion matrix with spam as the positive
// class.
type Confusion struct {
	TruePositive  int `json:"true_positive"`  // spam classified as spam
	FalseNegative int `json:"false_negative"` // spam classified as ham
	TrueNegative  int `json:"true_negative"`  // ham classified as ham
	FalsePositive int `json:"false_positive"` // ham classified as spam
}

// Accuracy is the fraction of correct decisions.
func (c Confusion) Accuracy() float64 {
	total := c.TruePositive + c.FalseNegative + c.TrueNegative + c.FalsePositive
	if total == 0 {
		return 0
	}
	return float64(c.TruePositive+c.TrueNegative) / float64(total)
}

// Precision is the fraction of spam verdicts that were right.
func (c Confusion) Precision() float64 {
	if c.TruePositive+c.FalsePositive == 0 {
		return 0
	}
	return float64(c.TruePositive) / float64(c.TruePositive+c.FalsePositive)
}

// Recall is the fraction of actual spam that was caught.
func (c Confusion) Recall() float64 {
	if c.TruePositive+c.FalseNegative == 0 {
		return 0
	}
	return float64(c.TruePositive) / float64(c.TruePositive+c.FalseNegative)
}

// F1 is the harmonic mean of precision and recall.
func (c Confusion) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// Result is the outcome of evaluating a model on a labeled corpus.
type Result struct {
	Confusion

	Total      int           `json:"total"`
	Degenerate int           `json:"degenerate"`
	LogSpace   bool          `json:"log_space"`
	Duration   time.Duration `json:"duration"`
}

// Options tunes an evaluation run.
type Options struct {
	// Workers bounds scoring concurrency; <= 0 means one per CPU.
	Workers int
	// LogSpace switches scoring to the log domain.
	LogSpace bool
}

// Evaluate classifies every document and tallies the confusion matrix.
// Scoring runs concurrently but the result is deterministic: each
// document's prediction depends only on the immutable model.
func Evaluate(ctx context.Context, model *classifier.Model, docs []classifier.Document, opts Options) (*Result, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: empty evaluation set", classifier.ErrInvalidInput)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(docs) {
		workers = len(docs)
	}

	start := time.Now()

	// One slot per document, no locking needed.
	predictions := make([]classifier.Prediction, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if opts.LogSpace {
				predictions[i] = model.ClassifyLog(doc.Text)
			} else {
				predictions[i] = model.Classify(doc.Text)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		Total:    len(docs),
		LogSpace: opts.LogSpace,
	}
	for i, doc := range docs {
		pred := predictions[i]
		if pred.Degenerate {
			result.Degenerate++
		}
		switch {
		case doc.Label == classifier.Spam && pred.Label == classifier.Spam:
			result.TruePositive++
		case doc.Label == classifier.Spam && pred.Label == classifier.Ham:
			result.FalseNegative++
		case doc.Label == classifier.Ham && pred.Label == classifier.Ham:
			result.TrueNegative++
		default:
			result.FalsePositive++
		}
	}
	result.Duration = time.Since(start)

	return result, nil
}
