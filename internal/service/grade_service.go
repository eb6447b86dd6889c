package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	"github.com/noah-isme/sma-gradebook/pkg/config"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/events"
)

type gradeRoster interface {
	FindByID(id int) (models.Student, error)
	Update(id int, fn func(student *models.Student) error) (models.Student, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// RecordGradeRequest is a single score entry. Category may be empty or unknown.
type RecordGradeRequest struct {
	Category string   `json:"category" validate:"max=64"`
	Score    *float64 `json:"score" validate:"required"`
}

// StudentGrades pairs a student's GPA with the per-category summary.
type StudentGrades struct {
	StudentID   int                 `json:"student_id"`
	StudentName string              `json:"student_name"`
	GPA         float64             `json:"gpa"`
	Summary     models.GradeSummary `json:"summary"`
}

// GradeService records scores and keeps every student's GPA current.
type GradeService struct {
	roster    gradeRoster
	state     *repository.StateLock
	publisher eventPublisher
	weights   models.WeightTable
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewGradeService constructs the grading engine. Nil weights select the default table. The
// state lock is held while a grade is stored and its event handlers run.
func NewGradeService(roster gradeRoster, state *repository.StateLock, publisher eventPublisher, weights models.WeightTable, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if weights == nil {
		weights = models.DefaultWeights()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{
		roster:    roster,
		state:     state,
		publisher: publisher,
		weights:   weights.Clone(),
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// WeightsFromConfig builds the weight table from configuration, ignoring negative overrides.
func WeightsFromConfig(cfg config.GradingConfig) models.WeightTable {
	weights := models.DefaultWeights()
	overrides := map[models.Category]float64{
		models.CategoryHomework:      cfg.HomeworkWeight,
		models.CategoryTests:         cfg.TestsWeight,
		models.CategoryParticipation: cfg.ParticipationWeight,
		models.CategoryProjects:      cfg.ProjectsWeight,
	}
	for category, weight := range overrides {
		if weight >= 0 && !math.IsNaN(weight) && !math.IsInf(weight, 0) {
			weights[category] = weight
		}
	}
	return weights
}

// Weights returns a copy of the active weight table.
func (s *GradeService) Weights() models.WeightTable {
	return s.weights.Clone()
}

// RecordGrade stores a score for the student and recomputes the GPA. Unknown categories fall
// back to homework and negative scores are stored as zero; both are flagged in the result.
func (s *GradeService) RecordGrade(ctx context.Context, studentID int, req RecordGradeRequest) (*models.RecordResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	score := *req.Score
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "score must be a finite number")
	}

	result := &models.RecordResult{StudentID: studentID}
	category, ok := models.ParseCategory(req.Category)
	if !ok {
		category = models.CategoryHomework
		result.CategorySubstituted = true
	}
	if score < 0 {
		score = 0
		result.ScoreClamped = true
	}

	s.state.Lock()
	defer s.state.Unlock()

	student, err := s.roster.Update(studentID, func(student *models.Student) error {
		if student.Grades == nil {
			student.Grades = models.EmptyGrades()
		}
		student.Grades[category] = append(student.Grades[category], score)
		student.GPA = CalculateGPA(student.Grades, s.weights)
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record grade")
	}

	result.StudentName = student.Name
	result.Category = category
	result.Score = score
	result.GPA = student.GPA
	result.Tier = models.TierFor(score)
	result.RecordedAt = s.now().UTC()

	if s.metrics != nil {
		s.metrics.RecordGrade(string(category))
	}
	s.logger.Info("grade recorded",
		zap.Int("student_id", studentID),
		zap.String("category", string(category)),
		zap.Float64("score", score),
		zap.Float64("gpa", student.GPA),
		zap.Bool("category_substituted", result.CategorySubstituted),
	)

	if s.publisher != nil {
		event := GradeRecordedEvent{
			StudentID:   student.ID,
			StudentName: student.Name,
			Category:    category,
			Score:       score,
			Tier:        result.Tier,
			GPA:         student.GPA,
			RecordedAt:  result.RecordedAt,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("grade event subscribers failed", zap.Int("student_id", studentID), zap.Error(err))
		}
	}

	return result, nil
}

// Summary returns the student's GPA and per-category breakdown.
func (s *GradeService) Summary(ctx context.Context, studentID int) (*StudentGrades, error) {
	student, err := s.roster.FindByID(studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return &StudentGrades{
		StudentID:   student.ID,
		StudentName: student.Name,
		GPA:         student.GPA,
		Summary:     GradeSummary(student),
	}, nil
}

// Recalculate refreshes a student's stored GPA from the recorded scores.
func (s *GradeService) Recalculate(student *models.Student) {
	student.GPA = CalculateGPA(student.Grades, s.weights)
}

// CalculateGPA returns the weighted mean of the category averages, counting only categories
// with at least one score. No scores yields 0.
func CalculateGPA(grades map[models.Category][]float64, weights models.WeightTable) float64 {
	var points, totalWeight float64
	for _, category := range models.Categories {
		scores := grades[category]
		if len(scores) == 0 {
			continue
		}
		weight := weights[category]
		points += mean(scores) * weight
		totalWeight += weight
	}
	if totalWeight <= 0 {
		return 0
	}
	return points / totalWeight
}

// GradeSummary reports average, count and scores for every category.
func GradeSummary(student models.Student) models.GradeSummary {
	summary := make(models.GradeSummary, len(models.Categories))
	for _, category := range models.Categories {
		scores := student.Grades[category]
		entry := models.CategorySummary{Scores: append([]float64{}, scores...)}
		if len(scores) > 0 {
			entry.Average = mean(scores)
			entry.Count = len(scores)
		}
		summary[category] = entry
	}
	return summary
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
