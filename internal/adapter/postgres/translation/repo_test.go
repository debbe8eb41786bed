package translation_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/anikor-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/anikor-backend/internal/adapter/postgres/translation"
	"github.com/heartmarshall/anikor-backend/internal/domain"
)

func newRepo(t *testing.T) *translation.Repo {
	t.Helper()
	return translation.New(testhelper.SetupTestDB(t))
}

func TestRepo_CreateAndGetBySource(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	source := "Attack on Titan " + testhelper.UniqueSuffix()

	created, err := repo.Create(ctx, source, "진격의 거인")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, source, created.SourceText)
	assert.WithinDuration(t, time.Now(), created.UpdatedAt, time.Minute)

	got, err := repo.GetBySource(ctx, source)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestRepo_GetBySource_ExactMatchOnly(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	source := "Naruto " + testhelper.UniqueSuffix()

	_, err := repo.Create(ctx, source, "나루토")
	require.NoError(t, err)

	_, err = repo.GetBySource(ctx, strings.ToLower(source))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.GetBySource(ctx, source+" ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepo_Create_Duplicate(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	source := "One Piece " + testhelper.UniqueSuffix()

	_, err := repo.Create(ctx, source, "원피스")
	require.NoError(t, err)

	_, err = repo.Create(ctx, source, "원 피스")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	got, err := repo.GetBySource(ctx, source)
	require.NoError(t, err)
	assert.Equal(t, "원피스", got.TranslatedText)
}

func TestRepo_Create_ConcurrentSameSource(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	source := "Bleach " + testhelper.UniqueSuffix()

	const writers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		dupes   int
	)
	for i := range writers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(ctx, source, "블리치")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case assert.ErrorIs(t, err, domain.ErrAlreadyExists, "writer %d", i):
				dupes++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, writers-1, dupes)
}

func TestRepo_LongSourceText(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	source := strings.Repeat("A very long synopsis. ", 2000) + testhelper.UniqueSuffix()

	_, err := repo.Create(ctx, source, "아주 긴 줄거리")
	require.NoError(t, err)

	got, err := repo.GetBySource(ctx, source)
	require.NoError(t, err)
	assert.Equal(t, "아주 긴 줄거리", got.TranslatedText)
}

func TestRepo_GetBySources(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	suffix := testhelper.UniqueSuffix()
	a, b, missing := "Mushishi "+suffix, "Monster "+suffix, "Missing "+suffix

	_, err := repo.Create(ctx, a, "충사")
	require.NoError(t, err)
	_, err = repo.Create(ctx, b, "몬스터")
	require.NoError(t, err)

	got, err := repo.GetBySources(ctx, []string{a, missing, b})
	require.NoError(t, err)

	bySource := make(map[string]string, len(got))
	for _, tr := range got {
		bySource[tr.SourceText] = tr.TranslatedText
	}
	assert.Equal(t, map[string]string{a: "충사", b: "몬스터"}, bySource)
}

func TestRepo_GetBySources_Empty(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)

	got, err := repo.GetBySources(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRepo_Upsert(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	source := "Frieren " + testhelper.UniqueSuffix()

	first, err := repo.Upsert(ctx, source, "프리렌")
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, source, "장송의 프리렌")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "장송의 프리렌", second.TranslatedText)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
}

func TestRepo_ListStale(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := translation.New(pool)
	ctx := context.Background()
	suffix := testhelper.UniqueSuffix()

	older := testhelper.SeedTranslation(t, pool, "stale-older "+suffix, "오래됨")
	newer := testhelper.SeedTranslation(t, pool, "stale-newer "+suffix, "덜 오래됨")
	fresh := testhelper.SeedTranslation(t, pool, "fresh "+suffix, "최신")

	for id, at := range map[int64]time.Time{
		older.ID: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
		newer.ID: time.Date(2002, 1, 1, 0, 0, 0, 0, time.UTC),
	} {
		_, err := pool.Exec(ctx, `UPDATE translation SET updated_at = $1 WHERE id = $2`, at, id)
		require.NoError(t, err)
	}

	got, err := repo.ListStale(ctx, time.Date(2003, 1, 1, 0, 0, 0, 0, time.UTC), 1000)
	require.NoError(t, err)

	var ours []int64
	for _, tr := range got {
		if strings.HasSuffix(tr.SourceText, suffix) {
			ours = append(ours, tr.ID)
		}
	}
	assert.Equal(t, []int64{older.ID, newer.ID}, ours)
	assert.NotContains(t, ours, fresh.ID)

	none, err := repo.ListStale(ctx, time.Date(2003, 1, 1, 0, 0, 0, 0, time.UTC), 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
