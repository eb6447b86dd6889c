package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/export"
)

// Export formats understood by ExportRoster.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var rosterHeaders = []string{"ID", "Name", "Grade", "Email", "GPA", "Attendance", "Disciplinary", "Followers", "Following"}

type exportRoster interface {
	List() []models.Student
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportResult describes a rendered roster export.
type ExportResult struct {
	Filename    string `json:"filename"`
	Path        string `json:"path,omitempty"`
	ContentType string `json:"content_type"`
	Rows        int    `json:"rows"`
	Data        []byte `json:"-"`
}

// ExportService renders the roster as CSV or PDF and keeps a copy in the exports directory.
type ExportService struct {
	roster    exportRoster
	storage   fileStorage
	renderers map[string]datasetRenderer
	semester  string
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. A nil storage skips writing files.
func NewExportService(roster exportRoster, storage fileStorage, semester string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		roster:  roster,
		storage: storage,
		renderers: map[string]datasetRenderer{
			ExportFormatCSV: export.NewCSVExporter(),
			ExportFormatPDF: export.NewPDFExporter(),
		},
		semester: semester,
		logger:   logger,
		now:      time.Now,
	}
}

// ExportRoster renders every student in the requested format.
func (s *ExportService) ExportRoster(ctx context.Context, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	dataset := RosterDataset(s.roster.List(), s.semester)
	payload, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}

	result := &ExportResult{
		Filename:    fmt.Sprintf("roster_%s.%s", s.now().UTC().Format("20060102_150405"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Rows:        len(dataset.Rows),
		Data:        payload,
	}
	if s.storage != nil {
		path, err := s.storage.Save(result.Filename, payload)
		if err != nil {
			s.logger.Warn("roster export not stored", zap.String("filename", result.Filename), zap.Error(err))
		} else {
			result.Path = path
		}
	}
	s.logger.Info("roster exported", zap.String("format", format), zap.Int("rows", result.Rows))
	return result, nil
}

// RosterDataset flattens students into export rows.
func RosterDataset(students []models.Student, semester string) export.Dataset {
	title := "Student Roster"
	if semester != "" {
		title += " - " + semester
	}
	rows := make([]map[string]string, 0, len(students))
	for _, student := range students {
		rows = append(rows, map[string]string{
			"ID":           strconv.Itoa(student.ID),
			"Name":         student.Name,
			"Grade":        strconv.Itoa(student.GradeLevel),
			"Email":        student.Email,
			"GPA":          strconv.FormatFloat(student.GPA, 'f', 2, 64),
			"Attendance":   strconv.Itoa(student.Attendance) + "%",
			"Disciplinary": strconv.Itoa(student.DisciplinaryActions),
			"Followers":    strconv.Itoa(student.SocialMedia.Followers),
			"Following":    strconv.Itoa(student.SocialMedia.Following),
		})
	}
	return export.Dataset{Title: title, Headers: append([]string{}, rosterHeaders...), Rows: rows}
}
