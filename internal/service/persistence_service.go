package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

// Document names used by every snapshot backend.
const (
	StudentsDocument = "students_data.json"
	PostsDocument    = "social_media_posts.json"
)

// DocumentStore persists whole JSON documents by name.
type DocumentStore interface {
	SaveDocument(ctx context.Context, name string, document []byte) error
	LoadDocument(ctx context.Context, name string) ([]byte, error)
	Location(name string) string
}

type persistenceRoster interface {
	List() []models.Student
	Replace(students []models.Student) []models.Student
	Import(students []models.Student) []models.Student
}

type persistenceFeed interface {
	List() []models.Post
	Replace(posts []models.Post)
}

// PersistenceService saves and restores the roster and the feed as two independent documents.
type PersistenceService struct {
	store   DocumentStore
	roster  persistenceRoster
	feed    persistenceFeed
	state   *repository.StateLock
	weights models.WeightTable
	metrics *MetricsService
	logger  *zap.Logger
}

// NewPersistenceService constructs the service. Weights are used to recompute imported GPAs.
func NewPersistenceService(store DocumentStore, roster persistenceRoster, feed persistenceFeed, state *repository.StateLock, weights models.WeightTable, metrics *MetricsService, logger *zap.Logger) *PersistenceService {
	if weights == nil {
		weights = models.DefaultWeights()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersistenceService{store: store, roster: roster, feed: feed, state: state, weights: weights.Clone(), metrics: metrics, logger: logger}
}

// Save overwrites both documents with the current roster and feed.
func (s *PersistenceService) Save(ctx context.Context) (*models.SaveResult, error) {
	start := time.Now()
	defer func() { s.metrics.ObservePersistence("save", time.Since(start)) }()

	s.state.RLock()
	students := s.roster.List()
	posts := s.feed.List()
	s.state.RUnlock()

	if err := s.writeDocument(ctx, StudentsDocument, students); err != nil {
		return nil, err
	}
	if err := s.writeDocument(ctx, PostsDocument, posts); err != nil {
		return nil, err
	}

	result := &models.SaveResult{
		StudentsSaved:  len(students),
		PostsSaved:     len(posts),
		StudentsTarget: s.store.Location(StudentsDocument),
		PostsTarget:    s.store.Location(PostsDocument),
	}
	s.logger.Info("gradebook saved", zap.Int("students", result.StudentsSaved), zap.Int("posts", result.PostsSaved))
	return result, nil
}

// Load replaces the roster and feed with the persisted documents. A missing or undecodable
// document starts that collection empty; a failing backend leaves memory untouched.
func (s *PersistenceService) Load(ctx context.Context) (*models.LoadResult, error) {
	start := time.Now()
	defer func() { s.metrics.ObservePersistence("load", time.Since(start)) }()

	studentsPayload, err := s.readDocument(ctx, StudentsDocument)
	if err != nil {
		return nil, err
	}
	postsPayload, err := s.readDocument(ctx, PostsDocument)
	if err != nil {
		return nil, err
	}

	var students []models.Student
	if !s.decodeDocument(StudentsDocument, studentsPayload, &students) {
		students = nil
	}
	var posts []models.Post
	if !s.decodeDocument(PostsDocument, postsPayload, &posts) {
		posts = nil
	}

	for i := range students {
		students[i].GPA = CalculateGPA(students[i].Grades, s.weights)
	}
	s.state.Lock()
	stored := s.roster.Replace(students)
	s.feed.Replace(posts)
	s.state.Unlock()

	result := &models.LoadResult{
		StudentsLoaded: len(stored),
		PostsLoaded:    len(posts),
		Fresh:          len(stored) == 0 && len(posts) == 0,
	}
	s.logger.Info("gradebook loaded", zap.Int("students", result.StudentsLoaded), zap.Int("posts", result.PostsLoaded), zap.Bool("fresh", result.Fresh))
	return result, nil
}

// LoadSample appends the sample students to the roster with their GPA recomputed.
func (s *PersistenceService) LoadSample(ctx context.Context) []models.Student {
	samples := SampleStudents()
	for i := range samples {
		samples[i].GPA = CalculateGPA(samples[i].Grades, s.weights)
	}
	s.state.Lock()
	stored := s.roster.Import(samples)
	s.state.Unlock()
	s.logger.Info("sample students loaded", zap.Int("count", len(stored)))
	return stored
}

func (s *PersistenceService) writeDocument(ctx context.Context, name string, value interface{}) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode "+name)
	}
	if err := s.store.SaveDocument(ctx, name, payload); err != nil {
		s.logger.Error("save document failed", zap.String("document", name), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save "+name)
	}
	return nil
}

func (s *PersistenceService) readDocument(ctx context.Context, name string) ([]byte, error) {
	payload, err := s.store.LoadDocument(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("no saved document, starting fresh", zap.String("document", name))
			return nil, nil
		}
		s.logger.Error("load document failed", zap.String("document", name), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load "+name)
	}
	return payload, nil
}

// decodeDocument reports false when a present document could not be decoded.
func (s *PersistenceService) decodeDocument(name string, payload []byte, dest interface{}) bool {
	if len(payload) == 0 {
		return true
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		s.logger.Warn("unreadable document, starting fresh", zap.String("document", name), zap.Error(err))
		return false
	}
	return true
}
