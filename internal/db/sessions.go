package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/unemployment-navigator/internal/session"
	"github.com/jonathan/unemployment-navigator/internal/types"
)

// SessionSummary is a listing row for a stored session
type SessionSummary struct {
	ID                   string         `json:"id"`
	CurrentStep          types.Step     `json:"current_step"`
	EligibilityCategory  types.Category `json:"eligibility_category,omitempty"`
	ConversationComplete bool           `json:"conversation_complete"`
	Failed               bool           `json:"failed"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// SummaryOf extracts the indexed columns from a snapshot
func SummaryOf(s *types.Session) SessionSummary {
	return SessionSummary{
		ID:                   s.ID,
		CurrentStep:          s.CurrentStep,
		EligibilityCategory:  s.Profile.EligibilityCategory,
		ConversationComplete: s.ConversationComplete,
		Failed:               s.Failed,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}

// Load implements session.Store. It returns nil, nil when the session does
// not exist.
func (db *DB) Load(ctx context.Context, id string) (*types.Session, error) {
	var snapshot []byte
	err := db.pool.QueryRow(ctx,
		`SELECT snapshot FROM interview_sessions WHERE id = $1`,
		id,
	).Scan(&snapshot)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return session.Decode(snapshot)
}

// Save implements session.Store
func (db *DB) Save(ctx context.Context, s *types.Session) error {
	snapshot, err := session.Encode(s)
	if err != nil {
		return err
	}
	sum := SummaryOf(s)

	var category *string
	if sum.EligibilityCategory != "" {
		c := string(sum.EligibilityCategory)
		category = &c
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO interview_sessions
		   (id, snapshot, current_step, eligibility_category, conversation_complete, failed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   snapshot = $2, current_step = $3, eligibility_category = $4,
		   conversation_complete = $5, failed = $6, updated_at = $8`,
		sum.ID, snapshot, string(sum.CurrentStep), category,
		sum.ConversationComplete, sum.Failed, sum.CreatedAt, sum.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.ID, err)
	}
	return nil
}

// Delete implements session.Store
func (db *DB) Delete(ctx context.Context, id string) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM interview_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

// ListSessions retrieves the most recently updated sessions
func (db *DB) ListSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, current_step, COALESCE(eligibility_category, ''), conversation_complete, failed, created_at, updated_at
		 FROM interview_sessions ORDER BY updated_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var s SessionSummary
		var step, category string
		if err := rows.Scan(&s.ID, &step, &category, &s.ConversationComplete, &s.Failed, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.CurrentStep = types.Step(step)
		s.EligibilityCategory = types.Category(category)
		s.CreatedAt = s.CreatedAt.UTC()
		s.UpdatedAt = s.UpdatedAt.UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return out, nil
}

// CountByCategory returns how many completed sessions ended in each
// eligibility category
func (db *DB) CountByCategory(ctx context.Context) (map[types.Category]int, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT eligibility_category, COUNT(*) FROM interview_sessions
		 WHERE conversation_complete AND eligibility_category IS NOT NULL
		 GROUP BY eligibility_category`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	defer rows.Close()

	counts := make(map[types.Category]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[types.Category(category)] = n
	}
	return counts, rows.Err()
}

var _ session.Store = (*DB)(nil)
