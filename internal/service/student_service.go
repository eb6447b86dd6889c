package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

// AnonymousStudentName is used when a student is added without a name.
const AnonymousStudentName = "Anonymous Troublemaker"

type studentRoster interface {
	Insert(student models.Student) models.Student
	FindByID(id int) (models.Student, error)
	FindByName(name string) (models.Student, error)
	List() []models.Student
}

// StudentService handles roster use-cases.
type StudentService struct {
	roster  studentRoster
	content ContentProvider
	logger  *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(roster studentRoster, content ContentProvider, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{roster: roster, content: content, logger: logger}
}

// Add creates a student with no grades and a zero GPA. Unset attributes come from the content
// provider and the email is derived from the name. Add never fails: a grade level outside 9..12
// is only logged and negative counts are clamped to zero.
func (s *StudentService) Add(ctx context.Context, attrs models.StudentAttributes) *models.Student {
	name := strings.TrimSpace(attrs.Name)
	if name == "" {
		name = AnonymousStudentName
	}
	gradeLevel := s.content.GradeLevel()
	if attrs.GradeLevel != nil {
		gradeLevel = *attrs.GradeLevel
	}
	if gradeLevel < 9 || gradeLevel > 12 {
		s.logger.Warn("grade level outside high school range", zap.String("name", name), zap.Int("grade_level", gradeLevel))
	}

	defaults := s.content.StudentDefaults()
	student := models.Student{
		Name:                name,
		GradeLevel:          gradeLevel,
		Email:               DeriveEmail(name),
		Subjects:            append([]string{}, attrs.Subjects...),
		Grades:              models.EmptyGrades(),
		Attendance:          intOr(attrs.Attendance, defaults.Attendance),
		DisciplinaryActions: intOr(attrs.DisciplinaryActions, defaults.DisciplinaryActions),
		FavoriteExcuse:      stringOr(attrs.FavoriteExcuse, defaults.FavoriteExcuse),
		SocialMedia: models.SocialProfile{
			Followers:        intOr(attrs.Followers, defaults.Followers),
			Following:        intOr(attrs.Following, defaults.Following),
			Posts:            []models.Post{},
			PostsAboutSchool: []models.SchoolPost{},
		},
		EmergencyContact:    stringOr(attrs.EmergencyContact, defaults.EmergencyContact),
		DietaryRestrictions: stringOr(attrs.DietaryRestrictions, defaults.DietaryRestrictions),
		Transportation:      stringOr(attrs.Transportation, defaults.Transportation),
		Clubs:               append([]string{}, attrs.Clubs...),
		CareerGoals:         stringOr(attrs.CareerGoals, defaults.CareerGoals),
	}

	stored := s.roster.Insert(student)
	s.logger.Info("student added", zap.Int("student_id", stored.ID), zap.String("name", stored.Name))
	return &stored
}

// FindByName returns the first student whose name matches case-insensitively.
func (s *StudentService) FindByName(ctx context.Context, name string) (*models.Student, error) {
	student, err := s.roster.FindByName(name)
	if err != nil {
		return nil, s.mapLookupError(err)
	}
	return &student, nil
}

// FindByID returns the student with the given id.
func (s *StudentService) FindByID(ctx context.Context, id int) (*models.Student, error) {
	student, err := s.roster.FindByID(id)
	if err != nil {
		return nil, s.mapLookupError(err)
	}
	return &student, nil
}

// List returns every student in roster order.
func (s *StudentService) List(ctx context.Context) []models.Student {
	return s.roster.List()
}

func (s *StudentService) mapLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
}

// DeriveEmail lower-cases the name and joins its words with dots.
func DeriveEmail(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@school.edu"
}

// intOr returns the caller value clamped at zero, or the fallback when unset.
func intOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	if *value < 0 {
		return 0
	}
	return *value
}

func stringOr(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
