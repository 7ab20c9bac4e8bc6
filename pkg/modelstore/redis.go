package modelstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zpam/sms-filter/pkg/classifier"
)

// redisBatchSize bounds how many hash fields one pipeline write carries.
const redisBatchSize = 500

// RedisStore keeps the snapshot in two hashes under a key prefix:
// "<prefix>:meta" for the scalar fields and "<prefix>:tokens" mapping
// each token to "id|spamCount|hamCount".
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisStore connects to Redis and verifies the connection with a
// ping before returning.
func NewRedisStore(redisURL, prefix string, logger *zap.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %v", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	if prefix == "" {
		prefix = "zpam:sms:model"
	}

	return &RedisStore{client: client, prefix: prefix, logger: logger}, nil
}

func (s *RedisStore) metaKey() string   { return s.prefix + ":meta" }
func (s *RedisStore) tokensKey() string { return s.prefix + ":tokens" }

func (s *RedisStore) Save(ctx context.Context, snapshot *classifier.Snapshot) error {
	// Drop any previous model first so stale tokens cannot survive.
	if err := s.client.Del(ctx, s.metaKey(), s.tokensKey()).Err(); err != nil {
		return fmt.Errorf("failed to clear old model: %v", err)
	}

	pipe := s.client.Pipeline()
	fields := make(map[string]interface{}, redisBatchSize)
	for id, token := range snapshot.Tokens {
		fields[token] = fmt.Sprintf("%d|%d|%d", id, snapshot.SpamCounts[id], snapshot.HamCounts[id])

		if len(fields) >= redisBatchSize {
			pipe.HSet(ctx, s.tokensKey(), fields)
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("failed to write token batch: %v", err)
			}
			pipe = s.client.Pipeline()
			fields = make(map[string]interface{}, redisBatchSize)
		}
	}
	if len(fields) > 0 {
		pipe.HSet(ctx, s.tokensKey(), fields)
	}

	// Meta goes last: a model is only visible once its scalars exist.
	pipe.HSet(ctx, s.metaKey(), map[string]interface{}{
		"version":       snapshot.Version,
		"alpha":         snapshot.Alpha,
		"vocab_size":    len(snapshot.Tokens),
		"spam_tokens":   snapshot.SpamTokens,
		"ham_tokens":    snapshot.HamTokens,
		"spam_messages": snapshot.SpamMessages,
		"ham_messages":  snapshot.HamMessages,
		"trained_at":    snapshot.TrainedAt.Format(time.RFC3339Nano),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write model meta: %v", err)
	}

	s.logger.Debug("Saved model snapshot to Redis",
		zap.String("prefix", s.prefix),
		zap.Int("vocabulary", len(snapshot.Tokens)))

	return nil
}

func (s *RedisStore) Load(ctx context.Context) (*classifier.Snapshot, error) {
	meta, err := s.client.HGetAll(ctx, s.metaKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read model meta: %v", err)
	}
	if len(meta) == 0 {
		return nil, fmt.Errorf("%w: no model under prefix %s", ErrModelNotFound, s.prefix)
	}

	snapshot := &classifier.Snapshot{}
	if snapshot.Version, err = strconv.Atoi(meta["version"]); err != nil {
		return nil, fmt.Errorf("corrupt model meta: bad version: %v", err)
	}
	if snapshot.Alpha, err = strconv.ParseFloat(meta["alpha"], 64); err != nil {
		return nil, fmt.Errorf("corrupt model meta: bad alpha: %v", err)
	}
	vocabSize, err := strconv.Atoi(meta["vocab_size"])
	if err != nil {
		return nil, fmt.Errorf("corrupt model meta: bad vocab_size: %v", err)
	}
	if snapshot.SpamTokens, err = strconv.ParseInt(meta["spam_tokens"], 10, 64); err != nil {
		return nil, fmt.Errorf("corrupt model meta: bad spam_tokens: %v", err)
	}
	if snapshot.HamTokens, err = strconv.ParseInt(meta["ham_tokens"], 10, 64); err != nil {
		return nil, fmt.Errorf("corrupt model meta: bad ham_tokens: %v", err)
	}
	if snapshot.SpamMessages, err = strconv.Atoi(meta["spam_messages"]); err != nil {
		return nil, fmt.Errorf("corrupt model meta: bad spam_messages: %v", err)
	}
	if snapshot.HamMessages, err = strconv.Atoi(meta["ham_messages"]); err != nil {
		return nil, fmt.Errorf("corrupt model meta: bad ham_messages: %v", err)
	}
	if snapshot.TrainedAt, err = time.Parse(time.RFC3339Nano, meta["trained_at"]); err != nil {
		return nil, fmt.Errorf("corrupt model meta: bad trained_at: %v", err)
	}

	tokens, err := s.client.HGetAll(ctx, s.tokensKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read model tokens: %v", err)
	}
	if len(tokens) != vocabSize {
		return nil, fmt.Errorf("corrupt model: %d tokens stored, meta says %d", len(tokens), vocabSize)
	}

	snapshot.Tokens = make([]string, vocabSize)
	snapshot.SpamCounts = make([]int64, vocabSize)
	snapshot.HamCounts = make([]int64, vocabSize)

	for token, value := range tokens {
		parts := strings.SplitN(value, "|", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("corrupt token entry %q: %q", token, value)
		}
		id, err := strconv.Atoi(parts[0])
		if err != nil || id < 0 || id >= vocabSize {
			return nil, fmt.Errorf("corrupt token entry %q: bad id %q", token, parts[0])
		}
		spamCount, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt token entry %q: bad spam count: %v", token, err)
		}
		hamCount, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt token entry %q: bad ham count: %v", token, err)
		}

		if snapshot.Tokens[id] != "" {
			return nil, fmt.Errorf("corrupt model: duplicate token id %d", id)
		}
		snapshot.Tokens[id] = token
		snapshot.SpamCounts[id] = spamCount
		snapshot.HamCounts[id] = hamCount
	}

	return snapshot, nil
}

func (s *RedisStore) Exists(ctx context.Context) (bool, error) {
	n, err := s.client.Exists(ctx, s.metaKey()).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check model existence: %v", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.metaKey(), s.tokensKey()).Err(); err != nil {
		return fmt.Errorf("failed to delete model: %v", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
