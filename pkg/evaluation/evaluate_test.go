package evaluation

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/zpam/sms-filter/pkg/classifier"
)

func evalModel(t *testing.T) *classifier.Model {
	t.Helper()
	model, err := classifier.Train([]classifier.Document{
		{Text: "Free prize! Claim your cash reward now!", Label: classifier.Spam},
		{Text: "WINNER! You have won, text WIN to claim your prize", Label: classifier.Spam},
		{Text: "Urgent! Free cash prize, claim now", Label: classifier.Spam},
		{Text: "thanks, see you at lunch", Label: classifier.Ham},
		{Text: "can you call me later tonight", Label: classifier.Ham},
		{Text: "ok, I will be home in ten minutes", Label: classifier.Ham},
		{Text: "thanks for letting me know", Label: classifier.Ham},
		{Text: "are we still meeting today", Label: classifier.Ham},
		{Text: "sorry, I missed your call", Label: classifier.Ham},
	})
	if err != nil {
		t.Fatalf("Failed to train model: %v", err)
	}
	return model
}

func TestConfusionMetrics(t *testing.T) {
	c := Confusion{
		TruePositive:  40,
		FalseNegative: 10,
		TrueNegative:  45,
		FalsePositive: 5,
	}

	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{name: "Accuracy", got: c.Accuracy(), expected: 0.85},
		{name: "Precision", got: c.Precision(), expected: 40.0 / 45.0},
		{name: "Recall", got: c.Recall(), expected: 0.8},
		{name: "F1", got: c.F1(), expected: 2 * (40.0 / 45.0) * 0.8 / (40.0/45.0 + 0.8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.expected) > 1e-12 {
				t.Errorf("%s = %g, want %g", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestConfusionZeroDenominators(t *testing.T) {
	var empty Confusion
	if empty.Accuracy() != 0 || empty.Precision() != 0 || empty.Recall() != 0 || empty.F1() != 0 {
		t.Error("Empty confusion matrix should yield zero metrics")
	}

	// No spam verdicts at all: precision undefined, reported as 0.
	noVerdicts := Confusion{TrueNegative: 10, FalseNegative: 2}
	if noVerdicts.Precision() != 0 {
		t.Errorf("Precision without spam verdicts = %g, want 0", noVerdicts.Precision())
	}
}

func TestEvaluate(t *testing.T) {
	model := evalModel(t)

	testDocs := []classifier.Document{
		{Text: "Free cash prize, claim now!", Label: classifier.Spam},
		{Text: "you have won a prize, text WIN now", Label: classifier.Spam},
		{Text: "see you at lunch, thanks", Label: classifier.Ham},
		{Text: "I will call you tonight", Label: classifier.Ham},
	}

	result, err := Evaluate(context.Background(), model, testDocs, Options{Workers: 2})
	if err != nil {
		t.Fatalf("Failed to evaluate: %v", err)
	}

	if result.Total != len(testDocs) {
		t.Errorf("Total = %d, want %d", result.Total, len(testDocs))
	}

	// The tally must match classifying each document directly.
	var want Confusion
	for _, doc := range testDocs {
		pred := model.Classify(doc.Text)
		switch {
		case doc.Label == classifier.Spam && pred.Label == classifier.Spam:
			want.TruePositive++
		case doc.Label == classifier.Spam && pred.Label == classifier.Ham:
			want.FalseNegative++
		case doc.Label == classifier.Ham && pred.Label == classifier.Ham:
			want.TrueNegative++
		default:
			want.FalsePositive++
		}
	}
	if result.Confusion != want {
		t.Errorf("Confusion = %+v, want %+v", result.Confusion, want)
	}

	// This corpus is cleanly separable.
	if result.Accuracy() != 1.0 {
		t.Errorf("Accuracy = %g, want 1.0 (confusion %+v)", result.Accuracy(), result.Confusion)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	model := evalModel(t)

	docs := []classifier.Document{
		{Text: "free prize now", Label: classifier.Spam},
		{Text: "thanks, call me later", Label: classifier.Ham},
		{Text: "claim your cash", Label: classifier.Spam},
		{Text: "meeting at ten", Label: classifier.Ham},
	}

	first, err := Evaluate(context.Background(), model, docs, Options{Workers: 4})
	if err != nil {
		t.Fatalf("Failed to evaluate: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Evaluate(context.Background(), model, docs, Options{Workers: 4})
		if err != nil {
			t.Fatalf("Failed to evaluate: %v", err)
		}
		if again.Confusion != first.Confusion {
			t.Fatal("Evaluation should be deterministic across runs")
		}
	}
}

func TestEvaluateLogSpace(t *testing.T) {
	model := evalModel(t)

	docs := []classifier.Document{
		{Text: strings.Repeat("free prize claim cash now ", 80), Label: classifier.Spam},
		{Text: "thanks, see you later", Label: classifier.Ham},
	}

	mul, err := Evaluate(context.Background(), model, docs, Options{})
	if err != nil {
		t.Fatalf("Failed to evaluate: %v", err)
	}
	if mul.Degenerate != 1 {
		t.Errorf("Multiplicative run should count 1 degenerate message, got %d", mul.Degenerate)
	}

	logged, err := Evaluate(context.Background(), model, docs, Options{LogSpace: true})
	if err != nil {
		t.Fatalf("Failed to evaluate: %v", err)
	}
	if logged.Degenerate != 0 {
		t.Errorf("Log-space run should have no degenerate messages, got %d", logged.Degenerate)
	}
	if !logged.LogSpace {
		t.Error("Result should record log-space scoring")
	}
	if logged.TruePositive != 1 {
		t.Errorf("Log-space run should catch the long spam message, confusion %+v", logged.Confusion)
	}
}

func TestEvaluateEmptySet(t *testing.T) {
	model := evalModel(t)

	_, err := Evaluate(context.Background(), model, nil, Options{})
	if err == nil {
		t.Fatal("Evaluating an empty set should fail")
	}
	if !errors.Is(err, classifier.ErrInvalidInput) {
		t.Errorf("Error should wrap ErrInvalidInput, got: %v", err)
	}
}

func TestEvaluateCancelled(t *testing.T) {
	model := evalModel(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	docs := make([]classifier.Document, 5000)
	for i := range docs {
		docs[i] = classifier.Document{Text: "free prize now", Label: classifier.Spam}
	}

	_, err := Evaluate(ctx, model, docs, Options{Workers: 1})
	if err == nil {
		t.Fatal("Cancelled evaluation should fail")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Error should be context.Canceled, got: %v", err)
	}
}

func TestRenderReport(t *testing.T) {
	color.NoColor = true

	result := &Result{
		Confusion: Confusion{
			TruePositive:  18,
			FalseNegative: 2,
			TrueNegative:  75,
			FalsePositive: 5,
		},
		Total:    100,
		Duration: 42 * time.Millisecond,
	}

	var buf strings.Builder
	RenderReport(&buf, result)
	out := buf.String()

	for _, want := range []string{
		"Evaluation Results",
		"Confusion Matrix",
		"Accuracy:",
		"93.00%",
		"multiplicative",
		"msg/sec",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderReportDegenerate(t *testing.T) {
	color.NoColor = true

	result := &Result{
		Confusion:  Confusion{TrueNegative: 9},
		Total:      10,
		Degenerate: 1,
	}

	var buf strings.Builder
	RenderReport(&buf, result)

	if !strings.Contains(buf.String(), "log-space") {
		t.Error("Report should suggest log-space scoring for degenerate messages")
	}
}
