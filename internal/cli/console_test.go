package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-gradebook/internal/app"
	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	"github.com/noah-isme/sma-gradebook/internal/service"
	"github.com/noah-isme/sma-gradebook/pkg/config"
	"github.com/noah-isme/sma-gradebook/pkg/storage"
)

type fixedContent struct{}

func (fixedContent) GradeReaction(tier models.GradeTier, score float64) string {
	return string(tier) + " " + service.FormatScore(score)
}
func (fixedContent) GradeEngagement() (int, int) { return 10, 2 }
func (fixedContent) RandomPost() service.GeneratedPost {
	return service.GeneratedPost{Content: "Coffee is my personality now", Likes: 50, Comments: 5, Hashtags: []string{"#coffee"}}
}
func (fixedContent) CasualPost() service.GeneratedPost {
	return service.GeneratedPost{Content: "Weekend vibes", Likes: 20, Comments: 1, Hashtags: []string{"#weekend"}}
}
func (fixedContent) StudentDefaults() service.StudentDefaults {
	return service.StudentDefaults{Attendance: 90, Followers: 100, Following: 100, EmergencyContact: service.DefaultEmergencyContact}
}
func (fixedContent) FillerScore() float64 { return 77 }
func (fixedContent) GradeLevel() int      { return 11 }

type consoleFixture struct {
	gradebook *app.Gradebook
	dataDir   string
	exports   string
}

func newConsoleFixture(t *testing.T) *consoleFixture {
	t.Helper()
	dataDir := t.TempDir()
	exportsDir := t.TempDir()
	data, err := storage.NewLocalStorage(dataDir)
	require.NoError(t, err)
	exports, err := storage.NewLocalStorage(exportsDir)
	require.NoError(t, err)

	gradebook, err := app.New(app.Options{
		Config: &config.Config{
			Gradebook: config.GradebookConfig{Semester: "Fall 2024", StudentIDStart: 10000},
			Grading: config.GradingConfig{
				HomeworkWeight:      0.3,
				TestsWeight:         0.4,
				ParticipationWeight: 0.2,
				ProjectsWeight:      0.1,
			},
		},
		Store:   repository.NewFileSnapshotRepository(data),
		Content: fixedContent{},
		Exports: exports,
	})
	require.NoError(t, err)
	return &consoleFixture{gradebook: gradebook, dataDir: dataDir, exports: exportsDir}
}

func (f *consoleFixture) run(t *testing.T, input string, interrupts chan os.Signal) string {
	t.Helper()
	out := &bytes.Buffer{}
	console := NewConsole(f.gradebook, strings.NewReader(input), out, interrupts, nil)

	done := make(chan error, 1)
	go func() { done <- console.Run(context.Background()) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("console did not exit")
	}
	return out.String()
}

func TestConsoleAddAndListStudents(t *testing.T) {
	f := newConsoleFixture(t)
	out := f.run(t, "1\n1\nRiley Chen\n10\n4\n5\n8\nn\n", nil)

	assert.Contains(t, out, "No existing data found. Starting fresh!")
	assert.Contains(t, out, "Student Riley Chen added with ID 10000!")
	assert.Contains(t, out, "riley.chen@school.edu")
	assert.Contains(t, out, "Riley Chen (Grade 10) - GPA: 0.00")
	assert.Contains(t, out, "Goodbye!")
	_, err := os.Stat(filepath.Join(f.dataDir, service.StudentsDocument))
	assert.True(t, os.IsNotExist(err))
}

func TestConsoleAddStudentWithUnparseableGradeLevel(t *testing.T) {
	f := newConsoleFixture(t)
	out := f.run(t, "1\n1\n\nsenior\n5\n8\nn\n", nil)

	assert.Contains(t, out, "Invalid input. I'll just say they're in grade 11.")
	assert.Contains(t, out, "Student "+service.AnonymousStudentName+" added")
}

func TestConsoleKeepsOutOfRangeGradeLevels(t *testing.T) {
	f := newConsoleFixture(t)
	out := f.run(t, "1\n1\nKid Zero\n0\n1\nKid Minus\n-3\n4\n5\n8\nn\n", nil)

	assert.Contains(t, out, "That's not a high school grade, but sure, let's go with it.")
	assert.Contains(t, out, "Kid Zero (Grade 0)")
	assert.Contains(t, out, "Kid Minus (Grade -3)")
	assert.NotContains(t, out, "Invalid input.")
}

func TestConsoleGradeEntryFallbacks(t *testing.T) {
	f := newConsoleFixture(t)
	out := f.run(t, "6\n2\n1\nalex procrastinator\nart\nabc\n4\n8\nn\n", nil)

	assert.Contains(t, out, "Added 2 sample students")
	assert.Contains(t, out, "Invalid grade. I'll give them a 77 because I'm feeling generous.")
	assert.Contains(t, out, "Invalid category. I'll just put it under 'homework' because why not?")
	assert.Contains(t, out, "Grade 77 added to Alex Procrastinator's homework!")

	posts := f.gradebook.Social.RecentPosts(context.Background(), 5)
	require.Len(t, posts, 1)
	assert.Equal(t, "mid 77", posts[0].Content)
}

func TestConsoleSocialMenu(t *testing.T) {
	f := newConsoleFixture(t)
	out := f.run(t, "6\n3\n1\nNobody\n2\n3\n4\nJordan Overachiever\n5\n8\nn\n", nil)

	assert.Contains(t, out, "Creating anonymous post instead!")
	assert.Contains(t, out, "@"+models.AnonymousAuthor)
	assert.Contains(t, out, "1. #coffee (1 posts)")
	assert.Contains(t, out, "SOCIAL MEDIA ANALYSIS: Jordan Overachiever")
	assert.Contains(t, out, "Popular kid detected!")
}

func TestConsoleSaveOnExit(t *testing.T) {
	f := newConsoleFixture(t)
	out := f.run(t, "6\n8\ny\n", nil)

	assert.Contains(t, out, "Data saved successfully!")
	_, err := os.Stat(filepath.Join(f.dataDir, service.StudentsDocument))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(f.dataDir, service.PostsDocument))
	assert.NoError(t, err)
}

func TestConsoleInterruptOffersSave(t *testing.T) {
	f := newConsoleFixture(t)
	f.gradebook.Persistence.LoadSample(context.Background())
	_, err := f.gradebook.Persistence.Save(context.Background())
	require.NoError(t, err)

	interrupts := make(chan os.Signal, 1)
	interrupts <- syscall.SIGINT
	out := f.run(t, "n\n", interrupts)

	assert.Contains(t, out, "Loaded 2 students and 0 posts")
	assert.Contains(t, out, "Force quit detected!")
	assert.Contains(t, out, "Save data before exiting? (y/n): ")
	assert.NotContains(t, out, "Data saved successfully!")
}

func TestConsoleExportAndStatistics(t *testing.T) {
	f := newConsoleFixture(t)
	out := f.run(t, "6\n4\n7\ncsv\n8\nn\n", nil)

	assert.Contains(t, out, "Fall 2024")
	assert.Contains(t, out, "Exported 2 students to "+f.exports)
}

func TestConsoleStopsWhenInputCloses(t *testing.T) {
	f := newConsoleFixture(t)
	out := f.run(t, "", nil)
	assert.Contains(t, out, "MAIN MENU")
}

func TestConsoleScannerStopsAfterRun(t *testing.T) {
	f := newConsoleFixture(t)
	reader, writer := io.Pipe()
	defer reader.Close()
	console := NewConsole(f.gradebook, reader, &bytes.Buffer{}, nil, nil)

	done := make(chan error, 1)
	go func() { done <- console.Run(context.Background()) }()
	_, err := io.WriteString(writer, "8\nn\n")
	require.NoError(t, err)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("console did not exit")
	}

	_, err = io.WriteString(writer, "leftover\n")
	require.NoError(t, err)
	select {
	case <-console.scanDone:
	case <-time.After(5 * time.Second):
		t.Fatal("scanner still blocked after Run returned")
	}
}

