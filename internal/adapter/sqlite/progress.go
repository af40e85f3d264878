package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

// ProgressRepo stores card progress in SQLite.
type ProgressRepo struct {
	db *sqlx.DB
}

// NewProgressRepo creates a new ProgressRepo.
func NewProgressRepo(db *sqlx.DB) *ProgressRepo {
	return &ProgressRepo{db: db}
}

// Upsert inserts the progress of one card or overwrites the stored state.
// An older UpdatedAt never overwrites a newer one.
func (r *ProgressRepo) Upsert(ctx context.Context, p domain.Progress) error {
	const query = `
		INSERT INTO card_progress (learner_id, card_id, lang, level, learned, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (learner_id, card_id) DO UPDATE
		SET learned = excluded.learned, updated_at = excluded.updated_at
		WHERE card_progress.updated_at <= excluded.updated_at`

	_, err := queryerFromCtx(ctx, r.db).ExecContext(ctx, query,
		p.LearnerID.String(), p.CardID, string(p.Lang), string(p.Level), p.Learned, p.UpdatedAt.UTC(),
	)
	if err != nil {
		return mapError(err, "card_progress", p.CardID)
	}
	return nil
}

// ListLearned returns the ids of learned cards in the set, sorted.
func (r *ProgressRepo) ListLearned(ctx context.Context, learnerID uuid.UUID, set domain.SetKey) ([]string, error) {
	const query = `
		SELECT card_id FROM card_progress
		WHERE learner_id = ? AND lang = ? AND level = ? AND learned
		ORDER BY card_id`

	ids := []string{}
	err := sqlx.SelectContext(ctx, queryerFromCtx(ctx, r.db), &ids, query,
		learnerID.String(), string(set.Lang), string(set.Level),
	)
	if err != nil {
		return nil, mapError(err, "card_progress", set.String())
	}
	return ids, nil
}

// CountLearned counts learned cards of one id family in the set.
func (r *ProgressRepo) CountLearned(ctx context.Context, learnerID uuid.UUID, set domain.SetKey, family domain.CardFamily) (int, error) {
	const base = `
		SELECT count(*) FROM card_progress
		WHERE learner_id = ? AND lang = ? AND level = ? AND learned AND card_id `
	query := base + `LIKE ? ESCAPE '\'`
	if family == domain.FamilyStatic {
		query = base + `NOT LIKE ? ESCAPE '\'`
	}

	var n int
	err := sqlx.GetContext(ctx, queryerFromCtx(ctx, r.db), &n, query,
		learnerID.String(), string(set.Lang), string(set.Level), likePrefix(domain.TopicIDPrefix(set)),
	)
	if err != nil {
		return 0, mapError(err, "card_progress", set.String())
	}
	return n, nil
}

// DeleteSet removes every progress row of the learner in the set.
func (r *ProgressRepo) DeleteSet(ctx context.Context, learnerID uuid.UUID, set domain.SetKey) (int, error) {
	const query = `DELETE FROM card_progress WHERE learner_id = ? AND lang = ? AND level = ?`

	res, err := queryerFromCtx(ctx, r.db).ExecContext(ctx, query,
		learnerID.String(), string(set.Lang), string(set.Level),
	)
	if err != nil {
		return 0, mapError(err, "card_progress", set.String())
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// DeleteInactive removes all progress of learners whose most recent
// update is older than before.
func (r *ProgressRepo) DeleteInactive(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM card_progress WHERE learner_id IN (
		SELECT learner_id FROM card_progress GROUP BY learner_id HAVING max(updated_at) < ?)`

	res, err := queryerFromCtx(ctx, r.db).ExecContext(ctx, query, before.UTC())
	if err != nil {
		return 0, mapError(err, "card_progress", "inactive")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Ping checks that the database file is usable.
func (r *ProgressRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// likePrefix turns an id prefix into a LIKE pattern with wildcards escaped.
func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
