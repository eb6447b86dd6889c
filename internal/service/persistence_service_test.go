package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/storage"
)

type memoryDocumentStore struct {
	documents map[string][]byte
	loadErr   error
	saveErr   error
}

func (m *memoryDocumentStore) SaveDocument(ctx context.Context, name string, document []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.documents == nil {
		m.documents = make(map[string][]byte)
	}
	m.documents[name] = append([]byte(nil), document...)
	return nil
}

func (m *memoryDocumentStore) LoadDocument(ctx context.Context, name string) ([]byte, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	doc, ok := m.documents[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return doc, nil
}

func (m *memoryDocumentStore) Location(name string) string { return "memory://" + name }

func newPersistenceFixture(store DocumentStore) (*PersistenceService, *repository.RosterRepository, *repository.FeedRepository) {
	roster := repository.NewRosterRepository(1)
	feed := repository.NewFeedRepository()
	return NewPersistenceService(store, roster, feed, repository.NewStateLock(), nil, NewMetricsService(), zap.NewNop()), roster, feed
}

func TestPersistenceSaveThenLoad(t *testing.T) {
	store := &memoryDocumentStore{}
	svc, roster, feed := newPersistenceFixture(store)
	ctx := context.Background()
	svc.LoadSample(ctx)
	feed.Append(models.Post{ID: "p1", Student: "Alex Procrastinator", Likes: 12, Hashtags: []string{"#grades"}})

	saved, err := svc.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.StudentsSaved)
	assert.Equal(t, 1, saved.PostsSaved)
	assert.Equal(t, "memory://students_data.json", saved.StudentsTarget)
	assert.Contains(t, string(store.documents[StudentsDocument]), "\n  {")

	restoredSvc, restoredRoster, restoredFeed := newPersistenceFixture(store)
	loaded, err := restoredSvc.Load(ctx)
	require.NoError(t, err)
	assert.False(t, loaded.Fresh)
	assert.Equal(t, 2, loaded.StudentsLoaded)
	assert.Equal(t, 1, loaded.PostsLoaded)
	assert.Equal(t, roster.List(), restoredRoster.List())
	assert.Equal(t, "p1", restoredFeed.List()[0].ID)
}

func TestPersistenceLoadMissingDocumentsStartsFresh(t *testing.T) {
	svc, roster, feed := newPersistenceFixture(&memoryDocumentStore{})
	roster.Insert(models.Student{Name: "Replaced"})

	loaded, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.True(t, loaded.Fresh)
	assert.Equal(t, 0, roster.Len())
	assert.Equal(t, 0, feed.Len())
}

func TestPersistenceLoadUnreadableDocumentIsEmpty(t *testing.T) {
	posts, _ := json.Marshal([]models.Post{{ID: "kept"}})
	store := &memoryDocumentStore{documents: map[string][]byte{
		StudentsDocument: []byte("{not json"),
		PostsDocument:    posts,
	}}
	svc, roster, feed := newPersistenceFixture(store)

	loaded, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, loaded.StudentsLoaded)
	assert.Equal(t, 1, loaded.PostsLoaded)
	assert.Equal(t, 0, roster.Len())
	assert.Equal(t, 1, feed.Len())
}

func TestPersistenceLoadRecomputesGPA(t *testing.T) {
	students, _ := json.Marshal([]map[string]interface{}{{
		"id":     54321,
		"name":   "Jordan Overachiever",
		"grade":  12,
		"gpa":    97.8,
		"grades": map[string][]float64{"homework": {98, 97, 99, 96}, "tests": {97, 98, 95}, "participation": {100, 98, 99}, "projects": {99, 98}},
	}})
	store := &memoryDocumentStore{documents: map[string][]byte{StudentsDocument: students}}
	svc, roster, _ := newPersistenceFixture(store)

	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	jordan, err := roster.FindByID(54321)
	require.NoError(t, err)
	assert.InDelta(t, 97.57, jordan.GPA, 0.01)
}

func TestPersistenceBackendFailureLeavesStateUntouched(t *testing.T) {
	store := &memoryDocumentStore{loadErr: errors.New("connection refused")}
	svc, roster, _ := newPersistenceFixture(store)
	roster.Insert(models.Student{Name: "Survivor"})

	_, err := svc.Load(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrUnavailable)
	assert.Equal(t, 1, roster.Len())

	store.saveErr = errors.New("disk full")
	_, err = svc.Save(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestPersistenceLoadSampleRecomputesGPA(t *testing.T) {
	svc, roster, _ := newPersistenceFixture(&memoryDocumentStore{})

	stored := svc.LoadSample(context.Background())

	require.Len(t, stored, 2)
	assert.Equal(t, 12345, stored[0].ID)
	assert.InDelta(t, 86.41, stored[0].GPA, 0.01)
	assert.Equal(t, 54321, stored[1].ID)
	assert.InDelta(t, 97.57, stored[1].GPA, 0.01)

	again := svc.LoadSample(context.Background())
	assert.NotEqual(t, 12345, again[0].ID)
	assert.Equal(t, 4, roster.Len())
}

func TestPersistenceWithFileSnapshots(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	store := repository.NewFileSnapshotRepository(local)
	svc, _, _ := newPersistenceFixture(store)
	ctx := context.Background()
	svc.LoadSample(ctx)

	_, err = svc.Save(ctx)
	require.NoError(t, err)

	restored, roster, _ := newPersistenceFixture(store)
	loaded, err := restored.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.StudentsLoaded)
	_, err = roster.FindByName("jordan overachiever")
	assert.NoError(t, err)
}
