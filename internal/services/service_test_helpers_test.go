package services

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/dmarquez/inkwell-be/internal/database"
	"github.com/dmarquez/inkwell-be/internal/models"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *sql.DB, username string) models.User {
	t.Helper()
	user, err := NewUserService(db).CreateUser(username, username+"@example.com", "hunter2hunter2")
	require.NoError(t, err)
	return user
}

func newTestPostService(t *testing.T, db *sql.DB) *PostService {
	t.Helper()
	svc, err := NewPostService(db)
	require.NoError(t, err)
	return svc
}

// backdate spaces out creation timestamps so newest-first assertions do
// not depend on sub-second insert timing.
func backdate(t *testing.T, db *sql.DB, table, id string, minutesAgo int) {
	t.Helper()
	query := fmt.Sprintf("UPDATE %s SET created_at = datetime('now', '-%d minutes') WHERE id = ?", table, minutesAgo)
	_, err := db.Exec(query, id)
	require.NoError(t, err)
}
