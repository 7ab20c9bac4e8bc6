package modelstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/zpam/sms-filter/pkg/classifier"
	"github.com/zpam/sms-filter/pkg/config"
)

func testSnapshot(t *testing.T) *classifier.Snapshot {
	t.Helper()
	model, err := classifier.Train([]classifier.Document{
		{Text: "Free prize! Claim your cash now", Label: classifier.Spam},
		{Text: "WINNER! Text WIN to claim", Label: classifier.Spam},
		{Text: "see you at lunch, thanks", Label: classifier.Ham},
		{Text: "call me when you get home", Label: classifier.Ham},
		{Text: "ok, thanks for letting me know", Label: classifier.Ham},
	})
	if err != nil {
		t.Fatalf("Failed to train test model: %v", err)
	}
	return model.Snapshot()
}

// verifyRoundtrip saves through the store, loads back and checks the
// restored model behaves identically.
func verifyRoundtrip(t *testing.T, store Store, snapshot *classifier.Snapshot) {
	t.Helper()
	ctx := context.Background()

	exists, err := store.Exists(ctx)
	if err != nil {
		t.Fatalf("Failed to check existence: %v", err)
	}
	if exists {
		t.Fatal("Store should start empty")
	}

	if _, err := store.Load(ctx); !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("Loading an empty store should fail with ErrModelNotFound, got: %v", err)
	}

	if err := store.Save(ctx, snapshot); err != nil {
		t.Fatalf("Failed to save snapshot: %v", err)
	}

	exists, err = store.Exists(ctx)
	if err != nil {
		t.Fatalf("Failed to check existence: %v", err)
	}
	if !exists {
		t.Fatal("Store should report the saved model")
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}

	original, err := classifier.FromSnapshot(snapshot)
	if err != nil {
		t.Fatalf("Failed to restore original: %v", err)
	}
	restored, err := classifier.FromSnapshot(loaded)
	if err != nil {
		t.Fatalf("Failed to restore loaded snapshot: %v", err)
	}

	if restored.VocabularySize() != original.VocabularySize() {
		t.Errorf("Vocabulary size %d, want %d", restored.VocabularySize(), original.VocabularySize())
	}
	if !restored.TrainedAt().Equal(original.TrainedAt()) {
		t.Errorf("TrainedAt %v, want %v", restored.TrainedAt(), original.TrainedAt())
	}
	for _, text := range []string{"free cash prize", "thanks, see you", "claim WIN now", ""} {
		if restored.Classify(text) != original.Classify(text) {
			t.Errorf("Restored model classifies %q differently", text)
		}
	}

	if err := store.Delete(ctx); err != nil {
		t.Fatalf("Failed to delete model: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("Loading after delete should fail with ErrModelNotFound, got: %v", err)
	}

	// Deleting again is fine.
	if err := store.Delete(ctx); err != nil {
		t.Fatalf("Deleting a missing model should not fail: %v", err)
	}
}

func TestFileStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model", "snapshot.msgpack")
	store := NewFileStore(path, zap.NewNop())
	defer store.Close()

	verifyRoundtrip(t, store, testSnapshot(t))
}

func TestFileStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshot.msgpack")
	store := NewFileStore(path, zap.NewNop())
	defer store.Close()

	first := testSnapshot(t)
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Failed to save first snapshot: %v", err)
	}

	model, err := classifier.Train([]classifier.Document{
		{Text: "totally different corpus", Label: classifier.Ham},
		{Text: "free prize", Label: classifier.Spam},
	})
	if err != nil {
		t.Fatalf("Failed to train second model: %v", err)
	}
	second := model.Snapshot()
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Failed to overwrite snapshot: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if len(loaded.Tokens) != len(second.Tokens) {
		t.Errorf("Loaded vocabulary %d, want %d (second save should win)", len(loaded.Tokens), len(second.Tokens))
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.msgpack")
	if err := os.WriteFile(path, []byte("not msgpack at all"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	store := NewFileStore(path, zap.NewNop())
	defer store.Close()

	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("Loading a corrupt file should fail")
	}
}

func TestLoadModelHelper(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "snapshot.msgpack"), zap.NewNop())
	defer store.Close()

	snapshot := testSnapshot(t)
	if err := store.Save(ctx, snapshot); err != nil {
		t.Fatalf("Failed to save snapshot: %v", err)
	}

	model, err := LoadModel(ctx, store)
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}
	if model.VocabularySize() != len(snapshot.Tokens) {
		t.Errorf("Loaded model vocabulary = %d, want %d", model.VocabularySize(), len(snapshot.Tokens))
	}
}

func TestNewFactory(t *testing.T) {
	logger := zap.NewNop()

	t.Run("File backend", func(t *testing.T) {
		cfg := &config.ModelConfig{
			Backend: config.BackendFile,
			Path:    filepath.Join(t.TempDir(), "m.msgpack"),
		}
		store, err := New(cfg, logger)
		if err != nil {
			t.Fatalf("Failed to build file store: %v", err)
		}
		defer store.Close()
		if _, ok := store.(*FileStore); !ok {
			t.Errorf("Expected *FileStore, got %T", store)
		}
	})

	t.Run("Empty backend defaults to file", func(t *testing.T) {
		cfg := &config.ModelConfig{Path: filepath.Join(t.TempDir(), "m.msgpack")}
		store, err := New(cfg, logger)
		if err != nil {
			t.Fatalf("Failed to build store: %v", err)
		}
		defer store.Close()
		if _, ok := store.(*FileStore); !ok {
			t.Errorf("Expected *FileStore, got %T", store)
		}
	})

	t.Run("Unreachable redis falls back to file", func(t *testing.T) {
		cfg := &config.ModelConfig{
			Backend:  config.BackendRedis,
			RedisURL: "not-a-redis-url",
			Path:     filepath.Join(t.TempDir(), "m.msgpack"),
		}
		store, err := New(cfg, logger)
		if err != nil {
			t.Fatalf("Redis fallback should not error: %v", err)
		}
		defer store.Close()
		if _, ok := store.(*FileStore); !ok {
			t.Errorf("Expected fallback *FileStore, got %T", store)
		}
	})

	t.Run("Unknown backend", func(t *testing.T) {
		if _, err := New(&config.ModelConfig{Backend: "carrier-pigeon"}, logger); err == nil {
			t.Error("Unknown backend should fail")
		}
	})
}
