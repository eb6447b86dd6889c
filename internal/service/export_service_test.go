package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

type recordingStorage struct {
	saved map[string][]byte
	err   error
}

func (r *recordingStorage) Save(filename string, data []byte) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	if r.saved == nil {
		r.saved = make(map[string][]byte)
	}
	r.saved[filename] = data
	return "/exports/" + filename, nil
}

func newExportFixture(store fileStorage) *ExportService {
	roster := repository.NewRosterRepository(1)
	roster.Import(SampleStudents())
	svc := NewExportService(roster, store, "Fall 2024", nil)
	svc.now = func() time.Time { return time.Date(2024, 9, 1, 8, 30, 0, 0, time.UTC) }
	return svc
}

func TestExportRosterCSV(t *testing.T) {
	store := &recordingStorage{}
	svc := newExportFixture(store)

	result, err := svc.ExportRoster(context.Background(), "CSV")
	require.NoError(t, err)

	assert.Equal(t, "roster_20240901_083000.csv", result.Filename)
	assert.Equal(t, "/exports/roster_20240901_083000.csv", result.Path)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, 2, result.Rows)
	lines := strings.Split(strings.TrimSpace(string(result.Data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(rosterHeaders, ","), lines[0])
	assert.Contains(t, lines[1], "Alex Procrastinator")
	assert.Contains(t, store.saved, result.Filename)
}

func TestExportRosterPDF(t *testing.T) {
	svc := newExportFixture(nil)

	result, err := svc.ExportRoster(context.Background(), "pdf")
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Data), "%PDF"))
	assert.Empty(t, result.Path)
}

func TestExportRosterStorageFailureStillReturnsData(t *testing.T) {
	svc := newExportFixture(&recordingStorage{err: errors.New("read-only")})

	result, err := svc.ExportRoster(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, result.Path)
	assert.NotEmpty(t, result.Data)
}

func TestExportRosterRejectsUnknownFormat(t *testing.T) {
	svc := newExportFixture(nil)

	_, err := svc.ExportRoster(context.Background(), "xlsx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestRosterDataset(t *testing.T) {
	dataset := RosterDataset([]models.Student{{ID: 7, Name: "Row", GradeLevel: 9, GPA: 88.456, Attendance: 91}}, "")

	assert.Equal(t, "Student Roster", dataset.Title)
	require.Len(t, dataset.Rows, 1)
	assert.Equal(t, "88.46", dataset.Rows[0]["GPA"])
	assert.Equal(t, "91%", dataset.Rows[0]["Attendance"])
}
