// Package progress implements the card progress repository using PostgreSQL.
package progress

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/lingua-cards/internal/adapter/postgres"
	"github.com/heartmarshall/lingua-cards/internal/domain"
)

const table = "card_progress"

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides card progress persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new progress repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Upsert inserts the progress of one card or overwrites the stored state.
// An older UpdatedAt never overwrites a newer one.
func (r *Repo) Upsert(ctx context.Context, p domain.Progress) error {
	query, args, err := builder.
		Insert(table).
		Columns("learner_id", "card_id", "lang", "level", "learned", "updated_at").
		Values(p.LearnerID, p.CardID, string(p.Lang), string(p.Level), p.Learned, p.UpdatedAt).
		Suffix(`ON CONFLICT (learner_id, card_id) DO UPDATE
			SET learned = EXCLUDED.learned, updated_at = EXCLUDED.updated_at
			WHERE card_progress.updated_at <= EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, table, p.CardID)
	}
	return nil
}

// ListLearned returns the ids of learned cards in the set, sorted.
func (r *Repo) ListLearned(ctx context.Context, learnerID uuid.UUID, set domain.SetKey) ([]string, error) {
	query, args, err := builder.
		Select("card_id").
		From(table).
		Where(setFilter(learnerID, set)).
		Where(squirrel.Eq{"learned": true}).
		OrderBy("card_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, table, set.String())
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan card_id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, table, set.String())
	}
	return ids, nil
}

// CountLearned counts learned cards of one id family in the set.
func (r *Repo) CountLearned(ctx context.Context, learnerID uuid.UUID, set domain.SetKey, family domain.CardFamily) (int, error) {
	familyFilter := `card_id LIKE ? ESCAPE '\'`
	if family == domain.FamilyStatic {
		familyFilter = "NOT (" + familyFilter + ")"
	}

	query, args, err := builder.
		Select("count(*)").
		From(table).
		Where(setFilter(learnerID, set)).
		Where(squirrel.Eq{"learned": true}).
		Where(familyFilter, likePrefix(domain.TopicIDPrefix(set))).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, table, set.String())
	}
	return n, nil
}

// DeleteSet removes every progress row of the learner in the set and
// returns how many were removed.
func (r *Repo) DeleteSet(ctx context.Context, learnerID uuid.UUID, set domain.SetKey) (int, error) {
	query, args, err := builder.
		Delete(table).
		Where(setFilter(learnerID, set)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, table, set.String())
	}
	return int(tag.RowsAffected()), nil
}

// DeleteInactive removes all progress of learners whose most recent
// update is older than before, and returns how many rows were removed.
func (r *Repo) DeleteInactive(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := builder.
		Delete(table).
		Where(squirrel.Expr(
			"learner_id IN (SELECT learner_id FROM "+table+" GROUP BY learner_id HAVING max(updated_at) < ?)",
			before,
		)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, table, "inactive")
	}
	return tag.RowsAffected(), nil
}

// Ping checks that the database is reachable.
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// likePrefix escapes LIKE wildcards in prefix and appends %.
func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func setFilter(learnerID uuid.UUID, set domain.SetKey) squirrel.Eq {
	return squirrel.Eq{
		"learner_id": learnerID,
		"lang":       string(set.Lang),
		"level":      string(set.Level),
	}
}
