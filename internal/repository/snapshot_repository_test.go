package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-gradebook/pkg/storage"
)

func newSnapshotRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestFileSnapshotRepositoryRoundTrip(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := NewFileSnapshotRepository(store)
	ctx := context.Background()

	_, err = repo.LoadDocument(ctx, "students_data.json")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.SaveDocument(ctx, "students_data.json", []byte(`[{"id":1}]`)))
	data, err := repo.LoadDocument(ctx, "students_data.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(data))
	assert.Contains(t, repo.Location("students_data.json"), "students_data.json")
}

func TestPostgresSnapshotRepositoryEnsureTable(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS gradebook_documents").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresSnapshotRepository(db)
	require.NoError(t, repo.EnsureTable(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotRepositorySaveDocument(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO gradebook_documents .* ON CONFLICT \\(name\\) DO UPDATE").
		WithArgs("social_media_posts.json", []byte(`[]`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewPostgresSnapshotRepository(db)
	require.NoError(t, repo.SaveDocument(context.Background(), "social_media_posts.json", []byte(`[]`)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotRepositoryLoadDocument(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"document"}).AddRow([]byte(`[{"id":12345}]`))
	mock.ExpectQuery("SELECT document FROM gradebook_documents WHERE name = \\$1").
		WithArgs("students_data.json").
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT document FROM gradebook_documents WHERE name = \\$1").
		WithArgs("missing.json").
		WillReturnError(sql.ErrNoRows)

	repo := NewPostgresSnapshotRepository(db)
	data, err := repo.LoadDocument(context.Background(), "students_data.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":12345}]`, string(data))

	_, err = repo.LoadDocument(context.Background(), "missing.json")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
