package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const knowledgeKeyPrefix = "agent:knowledge:"

// KnowledgeSnippet is a small retrieved text fact injected into model context.
type KnowledgeSnippet struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// KnowledgeStore retrieves tenant-scoped knowledge snippets in insertion
// order. No ranking or relevance scoring.
type KnowledgeStore interface {
	ListSnippets(ctx context.Context, clinicID string, limit int) ([]KnowledgeSnippet, error)
}

// RedisKnowledgeStore stores snippets as JSON entries in Redis lists.
type RedisKnowledgeStore struct {
	client *redis.Client
}

// NewRedisKnowledgeStore creates a Redis-backed knowledge store.
func NewRedisKnowledgeStore(client *redis.Client) *RedisKnowledgeStore {
	if client == nil {
		panic("agent: redis client cannot be nil")
	}
	return &RedisKnowledgeStore{client: client}
}

func knowledgeKey(clinicID string) string {
	return knowledgeKeyPrefix + clinicID
}

// AppendSnippets pushes new snippets onto the clinic's list.
func (s *RedisKnowledgeStore) AppendSnippets(ctx context.Context, clinicID string, snippets []KnowledgeSnippet) error {
	if len(snippets) == 0 {
		return nil
	}
	args := make([]interface{}, len(snippets))
	for i, snip := range snippets {
		data, err := json.Marshal(snip)
		if err != nil {
			return fmt.Errorf("agent: marshal knowledge snippet: %w", err)
		}
		args[i] = data
	}
	if err := s.client.RPush(ctx, knowledgeKey(clinicID), args...).Err(); err != nil {
		return fmt.Errorf("agent: failed to push knowledge: %w", err)
	}
	return nil
}

// ReplaceSnippets overwrites all snippets for the clinic.
func (s *RedisKnowledgeStore) ReplaceSnippets(ctx context.Context, clinicID string, snippets []KnowledgeSnippet) error {
	key := knowledgeKey(clinicID)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(snippets) > 0 {
		args := make([]interface{}, len(snippets))
		for i, snip := range snippets {
			data, err := json.Marshal(snip)
			if err != nil {
				return fmt.Errorf("agent: marshal knowledge snippet: %w", err)
			}
			args[i] = data
		}
		pipe.RPush(ctx, key, args...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("agent: failed to replace knowledge: %w", err)
	}
	return nil
}

// ListSnippets retrieves up to limit snippets for the clinic in insertion order.
func (s *RedisKnowledgeStore) ListSnippets(ctx context.Context, clinicID string, limit int) ([]KnowledgeSnippet, error) {
	if limit <= 0 {
		return nil, nil
	}
	raw, err := s.client.LRange(ctx, knowledgeKey(clinicID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("agent: fetch knowledge: %w", err)
	}

	snippets := make([]KnowledgeSnippet, 0, len(raw))
	for _, entry := range raw {
		var snip KnowledgeSnippet
		if err := json.Unmarshal([]byte(entry), &snip); err != nil {
			return nil, fmt.Errorf("agent: decode knowledge snippet: %w", err)
		}
		snippets = append(snippets, snip)
	}
	return snippets, nil
}
