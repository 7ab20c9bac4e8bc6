package classifier

import (
	"errors"
	"testing"
)

func TestSnapshotRoundtrip(t *testing.T) {
	original := trainTestModel(t)

	restored, err := FromSnapshot(original.Snapshot())
	if err != nil {
		t.Fatalf("Failed to restore snapshot: %v", err)
	}

	if restored.VocabularySize() != original.VocabularySize() {
		t.Fatal("Vocabulary size should survive the roundtrip")
	}
	if restored.Alpha() != original.Alpha() {
		t.Fatal("Alpha should survive the roundtrip")
	}
	if !restored.TrainedAt().Equal(original.TrainedAt()) {
		t.Error("Training time should survive the roundtrip")
	}

	for _, label := range Labels() {
		if restored.Prior(label) != original.Prior(label) {
			t.Fatalf("Prior(%s) changed across the roundtrip", label)
		}
		if restored.TrainedMessages(label) != original.TrainedMessages(label) {
			t.Fatalf("Message count for %s changed across the roundtrip", label)
		}
		if restored.TokenCount(label) != original.TokenCount(label) {
			t.Fatalf("Token count for %s changed across the roundtrip", label)
		}
		for _, token := range original.Snapshot().Tokens {
			a, _ := original.Likelihood(label, token)
			b, _ := restored.Likelihood(label, token)
			if a != b {
				t.Fatalf("Likelihood(%s, %q) changed across the roundtrip: %g vs %g", label, token, a, b)
			}
		}
	}

	// The restored model classifies identically.
	for _, text := range []string{"free cash prize now", "thanks for your message", ""} {
		if original.Classify(text) != restored.Classify(text) {
			t.Fatalf("Restored model classifies %q differently", text)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	model := trainTestModel(t)

	snap := model.Snapshot()
	snap.Tokens[0] = "mutated"
	snap.SpamCounts[0] = 999999

	fresh := model.Snapshot()
	if fresh.Tokens[0] == "mutated" || fresh.SpamCounts[0] == 999999 {
		t.Error("Mutating a snapshot should not affect the model")
	}
}

func TestFromSnapshotValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot) *Snapshot
	}{
		{
			name:   "Nil snapshot",
			mutate: func(*Snapshot) *Snapshot { return nil },
		},
		{
			name: "Unsupported version",
			mutate: func(s *Snapshot) *Snapshot {
				s.Version = 99
				return s
			},
		},
		{
			name: "Negative alpha",
			mutate: func(s *Snapshot) *Snapshot {
				s.Alpha = -1
				return s
			},
		},
		{
			name: "Count array mismatch",
			mutate: func(s *Snapshot) *Snapshot {
				s.SpamCounts = s.SpamCounts[:len(s.SpamCounts)-1]
				return s
			},
		},
		{
			name: "No training messages",
			mutate: func(s *Snapshot) *Snapshot {
				s.SpamMessages = 0
				s.HamMessages = 0
				return s
			},
		},
		{
			name: "Duplicate token",
			mutate: func(s *Snapshot) *Snapshot {
				s.Tokens[1] = s.Tokens[0]
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := trainTestModel(t).Snapshot()

			_, err := FromSnapshot(tt.mutate(snap))
			if err == nil {
				t.Fatal("FromSnapshot should fail")
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Error should wrap ErrInvalidInput, got: %v", err)
			}
		})
	}
}
