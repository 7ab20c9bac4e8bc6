package dataset

import (
	"errors"
	"fmt"
	"testing"

	"github.com/zpam/sms-filter/pkg/classifier"
)

func splitDocs(n int) []classifier.Document {
	docs := make([]classifier.Document, n)
	for i := range docs {
		label := classifier.Ham
		if i%4 == 0 {
			label = classifier.Spam
		}
		docs[i] = classifier.Document{Text: fmt.Sprintf("message %d", i), Label: label}
	}
	return docs
}

func TestSplitSizes(t *testing.T) {
	docs := splitDocs(100)

	train, test, err := Split(docs, 0.8, 42)
	if err != nil {
		t.Fatalf("Failed to split: %v", err)
	}

	if len(train) != 80 {
		t.Errorf("Train size = %d, want 80", len(train))
	}
	if len(test) != 20 {
		t.Errorf("Test size = %d, want 20", len(test))
	}
}

func TestSplitDeterministic(t *testing.T) {
	docs := splitDocs(50)

	train1, test1, err := Split(docs, 0.7, 1234)
	if err != nil {
		t.Fatalf("Failed to split: %v", err)
	}
	train2, test2, err := Split(docs, 0.7, 1234)
	if err != nil {
		t.Fatalf("Failed to split: %v", err)
	}

	for i := range train1 {
		if train1[i] != train2[i] {
			t.Fatal("Same seed should yield the same train partition")
		}
	}
	for i := range test1 {
		if test1[i] != test2[i] {
			t.Fatal("Same seed should yield the same test partition")
		}
	}
}

func TestSplitSeedChangesPartition(t *testing.T) {
	docs := splitDocs(200)

	train1, _, err := Split(docs, 0.8, 1)
	if err != nil {
		t.Fatalf("Failed to split: %v", err)
	}
	train2, _, err := Split(docs, 0.8, 2)
	if err != nil {
		t.Fatalf("Failed to split: %v", err)
	}

	same := true
	for i := range train1 {
		if train1[i] != train2[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Different seeds should yield different shuffles")
	}
}

func TestSplitPreservesAllDocuments(t *testing.T) {
	docs := splitDocs(60)

	train, test, err := Split(docs, 0.75, 7)
	if err != nil {
		t.Fatalf("Failed to split: %v", err)
	}

	seen := make(map[string]int, len(docs))
	for _, doc := range train {
		seen[doc.Text]++
	}
	for _, doc := range test {
		seen[doc.Text]++
	}

	if len(seen) != len(docs) {
		t.Fatalf("Partition covers %d distinct messages, want %d", len(seen), len(docs))
	}
	for text, count := range seen {
		if count != 1 {
			t.Fatalf("Message %q appears %d times across the partition", text, count)
		}
	}
}

func TestSplitDoesNotMutateInput(t *testing.T) {
	docs := splitDocs(30)
	original := make([]classifier.Document, len(docs))
	copy(original, docs)

	if _, _, err := Split(docs, 0.5, 99); err != nil {
		t.Fatalf("Failed to split: %v", err)
	}

	for i := range docs {
		if docs[i] != original[i] {
			t.Fatal("Split should not reorder the caller's slice")
		}
	}
}

func TestSplitInvalidFraction(t *testing.T) {
	docs := splitDocs(10)

	for _, fraction := range []float64{0, 1, -0.5, 1.5} {
		_, _, err := Split(docs, fraction, 1)
		if err == nil {
			t.Errorf("Split with fraction %g should fail", fraction)
			continue
		}
		if !errors.Is(err, classifier.ErrInvalidInput) {
			t.Errorf("Error should wrap ErrInvalidInput, got: %v", err)
		}
	}
}
