package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OutcomeRecord is the audit row written after each processed envelope.
type OutcomeRecord struct {
	ID            string
	ClinicID      string
	CorrelationID string
	IntentGroup   string
	Intent        string
	Confidence    float64
	DecisionType  string
	Path          string
	LatencyMS     int64
}

// OutcomeAppender persists interaction outcomes. Append failures are
// best-effort for callers; the orchestrator demotes them to warnings.
type OutcomeAppender interface {
	AppendOutcome(ctx context.Context, rec *OutcomeRecord) error
}

// outcomeDB defines the database interface needed by PGOutcomeLog.
type outcomeDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PGOutcomeLog appends interaction outcomes to PostgreSQL.
type PGOutcomeLog struct {
	db outcomeDB
}

// NewPGOutcomeLog builds a Postgres-backed outcome log.
func NewPGOutcomeLog(pool *pgxpool.Pool) *PGOutcomeLog {
	if pool == nil {
		panic("agent: pgx pool cannot be nil")
	}
	return &PGOutcomeLog{db: pool}
}

// NewPGOutcomeLogWithDB allows injecting a mock database for testing.
func NewPGOutcomeLogWithDB(db outcomeDB) *PGOutcomeLog {
	return &PGOutcomeLog{db: db}
}

var _ OutcomeAppender = (*PGOutcomeLog)(nil)

// AppendOutcome inserts one outcome row.
func (s *PGOutcomeLog) AppendOutcome(ctx context.Context, rec *OutcomeRecord) error {
	if rec == nil {
		return errors.New("agent: outcome record cannot be nil")
	}
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}

	if _, err := s.db.Exec(ctx, `
		INSERT INTO interaction_log (
			id, clinic_id, correlation_id, intent_group, intent,
			confidence, decision_type, path, latency_ms, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, id, rec.ClinicID, rec.CorrelationID, rec.IntentGroup, rec.Intent,
		rec.Confidence, rec.DecisionType, rec.Path, rec.LatencyMS, time.Now().UTC()); err != nil {
		return fmt.Errorf("agent: failed to append outcome: %w", err)
	}
	return nil
}
