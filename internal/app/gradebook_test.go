package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/service"
	"github.com/noah-isme/sma-gradebook/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Env: config.EnvDevelopment,
		JWT: config.JWTConfig{Expiration: time.Hour},
		Gradebook: config.GradebookConfig{
			Semester:       "Fall 2024",
			StudentIDStart: 10000,
			ContentSeed:    11,
		},
		Grading: config.GradingConfig{
			HomeworkWeight:      0.3,
			TestsWeight:         0.4,
			ParticipationWeight: 0.2,
			ProjectsWeight:      0.1,
		},
		Storage: config.StorageConfig{
			Backend:    config.StorageBackendFile,
			DataDir:    filepath.Join(dir, "data"),
			ExportsDir: filepath.Join(dir, "exports"),
		},
		Statistics: config.StatisticsConfig{CacheTTL: time.Minute},
	}
}

func TestNewRequiresConfigAndStore(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)

	_, err = New(Options{Config: testConfig(t)})
	require.Error(t, err)
}

func TestBootstrapWiresGradeReactionsIntoFeed(t *testing.T) {
	cfg := testConfig(t)
	gradebook, cleanup, err := Bootstrap(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer cleanup()

	ctx := context.Background()
	grade := 11
	student := gradebook.Students.Add(ctx, models.StudentAttributes{Name: "Casey Park", GradeLevel: &grade})
	assert.Equal(t, 10000, student.ID)

	score := 94.0
	result, err := gradebook.Grades.RecordGrade(ctx, student.ID, service.RecordGradeRequest{Category: "tests", Score: &score})
	require.NoError(t, err)
	assert.Equal(t, models.GradeTierHigh, result.Tier)

	posts := gradebook.Social.RecentPosts(ctx, 5)
	require.Len(t, posts, 1)
	assert.Equal(t, "Casey Park", posts[0].Student)
	assert.Equal(t, service.GradePostHashtags, posts[0].Hashtags)

	stored, err := gradebook.Students.FindByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, stored.SocialMedia.PostsAboutSchool, 1)
	assert.InDelta(t, 94.0, stored.GPA, 1e-9)
}

func TestBootstrapSaveLoadRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	first, cleanup, err := Bootstrap(ctx, cfg, nil)
	require.NoError(t, err)
	first.Persistence.LoadSample(ctx)
	saved, err := first.Persistence.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.StudentsSaved)
	cleanup()

	second, cleanup, err := Bootstrap(ctx, cfg, nil)
	require.NoError(t, err)
	defer cleanup()
	loaded, err := second.Persistence.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.StudentsLoaded)

	report, err := second.Statistics.Compute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalStudents)
	assert.Equal(t, "Fall 2024", report.Semester)
}

func TestBootstrapExportWritesIntoExportsDir(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	gradebook, cleanup, err := Bootstrap(ctx, cfg, nil)
	require.NoError(t, err)
	defer cleanup()

	gradebook.Persistence.LoadSample(ctx)
	result, err := gradebook.Exports.ExportRoster(ctx, service.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rows)
	assert.Equal(t, cfg.Storage.ExportsDir, filepath.Dir(result.Path))
}

func TestAutosaveWritesSnapshotInBackground(t *testing.T) {
	cfg := testConfig(t)
	cfg.Autosave = config.AutosaveConfig{Enabled: true, MaxRetries: 1, RetryDelay: 10 * time.Millisecond}
	ctx := context.Background()

	gradebook, cleanup, err := Bootstrap(ctx, cfg, nil)
	require.NoError(t, err)
	defer cleanup()
	stop := gradebook.StartBackground(ctx)
	defer stop()

	require.NotNil(t, gradebook.Autosave)
	gradebook.Persistence.LoadSample(ctx)
	gradebook.Autosave.Request("data.sample")

	require.Eventually(t, func() bool {
		_, statErr := os.Stat(filepath.Join(cfg.Storage.DataDir, service.StudentsDocument))
		return statErr == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAutosaveDisabledByDefault(t *testing.T) {
	gradebook, cleanup, err := Bootstrap(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	defer cleanup()

	assert.Nil(t, gradebook.Autosave)
	stop := gradebook.StartBackground(context.Background())
	stop()
}
