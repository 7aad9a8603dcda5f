package shelf

import (
	"context"
	"os"
	"testing"

	"shelfapi/internal/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skipf("TEST_DB_DSN not set; skipping database tests")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedProfile(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	ctx := context.Background()
	userID := uuid.New().String()
	_, err := pool.Exec(ctx, `
		INSERT INTO profiles (user_id, max_authors, max_works)
		VALUES ($1, 50, 500)`, userID)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	})
	return userID
}

func seedManualAuthor(t *testing.T, pool *pgxpool.Pool, ownerID string) string {
	t.Helper()
	ctx := context.Background()
	var id string
	err := pool.QueryRow(ctx, `
		INSERT INTO authors (name, manual, owner_user_id)
		VALUES ('Test Author', TRUE, $1)
		RETURNING id`, ownerID).Scan(&id)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	})
	return id
}

func authorCount(t *testing.T, pool *pgxpool.Pool, userID string) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT author_count FROM profiles WHERE user_id = $1`, userID).Scan(&n))
	return n
}

func TestPostgresRepo_AuthorAttachmentRoundTrip(t *testing.T) {
	pool := testPool(t)
	repo := NewPostgresRepo(pool)
	ctx := context.Background()

	userID := seedProfile(t, pool)
	authorID := seedManualAuthor(t, pool, userID)

	require.NoError(t, repo.InsertAuthorAttachment(ctx, userID, authorID))
	assert.Equal(t, 1, authorCount(t, pool, userID))

	// The insert is conditional; a second attempt reports the conflict
	// without touching the counter.
	err := repo.InsertAuthorAttachment(ctx, userID, authorID)
	assert.ErrorIs(t, err, apperr.ErrAlreadyAttached)
	assert.Equal(t, 1, authorCount(t, pool, userID))

	attached, err := repo.HasAuthorAttachment(ctx, userID, authorID)
	require.NoError(t, err)
	assert.True(t, attached)

	require.NoError(t, repo.DeleteAuthorAttachment(ctx, userID, authorID))
	assert.Equal(t, 0, authorCount(t, pool, userID))

	err = repo.DeleteAuthorAttachment(ctx, userID, authorID)
	assert.ErrorIs(t, err, apperr.ErrNotAttached)
}
