package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const rulesKeyPrefix = "clinic:rules:"

// RulesStore reads per-tenant configuration. A nil result with a nil error
// means no rules row exists for the clinic.
type RulesStore interface {
	GetRules(ctx context.Context, clinicID string) (*ClinicRules, error)
}

// RedisRulesStore persists clinic rules as JSON values.
type RedisRulesStore struct {
	client *redis.Client
}

// NewRedisRulesStore creates a Redis-backed rules store.
func NewRedisRulesStore(client *redis.Client) *RedisRulesStore {
	if client == nil {
		panic("agent: redis client cannot be nil")
	}
	return &RedisRulesStore{client: client}
}

func rulesKey(clinicID string) string {
	return rulesKeyPrefix + clinicID
}

// GetRules retrieves the rules row for a clinic. Absence is not an error.
func (s *RedisRulesStore) GetRules(ctx context.Context, clinicID string) (*ClinicRules, error) {
	data, err := s.client.Get(ctx, rulesKey(clinicID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("agent: get clinic rules: %w", err)
	}

	var rules ClinicRules
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("agent: unmarshal clinic rules: %w", err)
	}
	if rules.ClinicID == "" {
		rules.ClinicID = clinicID
	}
	return &rules, nil
}

// PutRules stores the rules row for a clinic.
func (s *RedisRulesStore) PutRules(ctx context.Context, rules *ClinicRules) error {
	if rules == nil || rules.ClinicID == "" {
		return errors.New("agent: rules with clinic_id required")
	}
	data, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("agent: marshal clinic rules: %w", err)
	}
	if err := s.client.Set(ctx, rulesKey(rules.ClinicID), data, 0).Err(); err != nil {
		return fmt.Errorf("agent: set clinic rules: %w", err)
	}
	return nil
}
