package progress_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/lingua-cards/internal/adapter/postgres"
	"github.com/heartmarshall/lingua-cards/internal/adapter/postgres/progress"
	"github.com/heartmarshall/lingua-cards/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/lingua-cards/internal/domain"
)

var setB1 = domain.SetKey{Lang: "es", Level: domain.LevelB1}

func newRepo(t *testing.T) *progress.Repo {
	t.Helper()
	return progress.New(testhelper.SetupTestDB(t))
}

func buildProgress(learner uuid.UUID, cardID string, learned bool, at time.Time) domain.Progress {
	return domain.Progress{
		LearnerID: learner,
		CardID:    cardID,
		Lang:      setB1.Lang,
		Level:     setB1.Level,
		Learned:   learned,
		UpdatedAt: at,
	}
}

func TestRepo_UpsertAndList(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	learner := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	require.NoError(t, repo.Upsert(ctx, buildProgress(learner, "es_b1_2", true, now)))
	require.NoError(t, repo.Upsert(ctx, buildProgress(learner, "es_b1_1", true, now)))
	require.NoError(t, repo.Upsert(ctx, buildProgress(learner, "es_b1_3", false, now)))

	ids, err := repo.ListLearned(ctx, learner, setB1)
	require.NoError(t, err)
	assert.Equal(t, []string{"es_b1_1", "es_b1_2"}, ids)

	n, err := repo.CountLearned(ctx, learner, setB1, domain.FamilyStatic)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRepo_CountLearnedByFamily(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	learner := uuid.New()
	now := time.Now().UTC()

	require.NoError(t, repo.Upsert(ctx, buildProgress(learner, "es_b1_1", true, now)))
	require.NoError(t, repo.Upsert(ctx, buildProgress(learner, "es_b1_topic_1", true, now)))
	// Underscore must not act as a wildcard.
	require.NoError(t, repo.Upsert(ctx, buildProgress(learner, "es_b1_topicX1", true, now)))

	n, err := repo.CountLearned(ctx, learner, setB1, domain.FamilyStatic)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.CountLearned(ctx, learner, setB1, domain.FamilyTopic)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRepo_Upsert_OverwritesState(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	learner := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	require.NoError(t, repo.Upsert(ctx, buildProgress(learner, "es_b1_1", true, now)))
	require.NoError(t, repo.Upsert(ctx, buildProgress(learner, "es_b1_1", false, now.Add(time.Second))))

	ids, err := repo.ListLearned(ctx, learner, setB1)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)
}

func TestRepo_Upsert_StaleWriteIgnored(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	learner := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	require.NoError(t, repo.Upsert(ctx, buildProgress(learner, "es_b1_1", true, now)))
	require.NoError(t, repo.Upsert(ctx, buildProgress(learner, "es_b1_1", false, now.Add(-time.Minute))))

	n, err := repo.CountLearned(ctx, learner, setB1, domain.FamilyStatic)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRepo_Upsert_EmptyCardIDRejected(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)

	err := repo.Upsert(context.Background(), buildProgress(uuid.New(), "", true, time.Now()))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRepo_SetsAreIsolated(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	learner := uuid.New()
	other := uuid.New()
	now := time.Now().UTC()

	require.NoError(t, repo.Upsert(ctx, buildProgress(learner, "es_b1_1", true, now)))
	require.NoError(t, repo.Upsert(ctx, buildProgress(other, "es_b1_1", true, now)))
	b2 := domain.Progress{LearnerID: learner, CardID: "es_b2_1", Lang: "es", Level: domain.LevelB2, Learned: true, UpdatedAt: now}
	require.NoError(t, repo.Upsert(ctx, b2))

	removed, err := repo.DeleteSet(ctx, learner, setB1)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	n, err := repo.CountLearned(ctx, other, setB1, domain.FamilyStatic)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "other learner untouched")

	n, err = repo.CountLearned(ctx, learner, domain.SetKey{Lang: "es", Level: domain.LevelB2}, domain.FamilyStatic)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "other set untouched")
}

func TestRepo_RollbackInsideTx(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := progress.New(pool)
	tm := postgres.NewTxManager(pool)
	learner := uuid.New()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := repo.Upsert(ctx, buildProgress(learner, "es_b1_1", true, time.Now().UTC())); err != nil {
			return err
		}
		return context.Canceled
	})
	require.ErrorIs(t, err, context.Canceled)

	n, err := repo.CountLearned(context.Background(), learner, setB1, domain.FamilyStatic)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRepo_DeleteInactive(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	// Far in the past so rows of concurrently running tests are never old enough.
	cutoff := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	idle, active := uuid.New(), uuid.New()

	require.NoError(t, repo.Upsert(ctx, buildProgress(idle, "es_b1_1", true, cutoff.AddDate(-1, 0, 0))))
	require.NoError(t, repo.Upsert(ctx, buildProgress(idle, "es_b1_2", false, cutoff.AddDate(0, -1, 0))))
	require.NoError(t, repo.Upsert(ctx, buildProgress(active, "es_b1_1", true, cutoff.AddDate(-1, 0, 0))))
	require.NoError(t, repo.Upsert(ctx, buildProgress(active, "es_b1_2", true, time.Now().UTC())))

	n, err := repo.DeleteInactive(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ids, err := repo.ListLearned(ctx, idle, setB1)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = repo.ListLearned(ctx, active, setB1)
	require.NoError(t, err)
	assert.Equal(t, []string{"es_b1_1", "es_b1_2"}, ids)
}
