//go:build integration

package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/noah-isme/hafalan-progress-api/internal/models"
	"github.com/noah-isme/hafalan-progress-api/pkg/database"
)

// startPostgres runs a throwaway Postgres with the embedded migrations applied.
func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("hafalan"),
		postgres.WithUsername("hafalan"),
		postgres.WithPassword("hafalan"),
		tc.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pg.Terminate(context.Background())
	})

	uri, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sqlx.ConnectContext(ctx, "postgres", uri)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(ctx, db, "up"))
	return db
}

func TestRepositoriesAgainstPostgres(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	students := NewStudentRepository(db)
	hafalan := NewHafalanProgressRepository(db)
	tilawah := NewTilawahProgressRepository(db)
	entries := NewProgressEntryRepository(db)

	student := &models.Student{Name: "Ahmad", GroupName: "3A", Teacher: "Hasan"}
	require.NoError(t, students.Create(ctx, student))
	require.NotEmpty(t, student.ID)

	summary, err := hafalan.FindByStudentID(ctx, student.ID)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 0, summary.TotalSurah)

	summary.TotalSurah = 58
	summary.LastSurah = strPtr("An-Naba")
	summary.Percentage = 51
	require.NoError(t, hafalan.Upsert(ctx, summary))

	all, err := hafalan.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 51, all[0].Percentage)

	page := 12
	require.NoError(t, tilawah.Upsert(ctx, &models.TilawahProgress{StudentID: student.ID, Jilid: strPtr("Jilid 2"), Page: &page, Percentage: 12}))
	tl, err := tilawah.FindByStudentID(ctx, student.ID)
	require.NoError(t, err)
	require.NotNil(t, tl.Page)
	assert.Equal(t, 12, *tl.Page)

	older := &models.ProgressEntry{StudentID: student.ID, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Type: models.ProgressTypeHafalan, SurahOrJilid: strPtr("An-Nas")}
	newer := &models.ProgressEntry{StudentID: student.ID, Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Type: models.ProgressTypeTilawah, SurahOrJilid: strPtr("Jilid 2"), AyatOrPage: strPtr("12")}
	require.NoError(t, entries.Create(ctx, older))
	require.NoError(t, entries.Create(ctx, newer))

	logged, err := entries.ListByStudent(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, logged, 2)
	assert.Equal(t, newer.ID, logged[0].ID)

	err = entries.Create(ctx, &models.ProgressEntry{StudentID: "00000000-0000-0000-0000-000000000000", Date: time.Now(), Type: models.ProgressTypeHafalan})
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, students.Delete(ctx, student.ID))
	logged, err = entries.ListByStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Empty(t, logged)
	gone, err := hafalan.FindByStudentID(ctx, student.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
