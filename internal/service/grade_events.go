package service

import (
	"time"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/pkg/events"
)

// EventGradeRecorded is published after every stored score.
const EventGradeRecorded events.Type = "grade.recorded"

// GradeRecordedEvent carries the outcome of a RecordGrade call.
type GradeRecordedEvent struct {
	StudentID   int
	StudentName string
	Category    models.Category
	Score       float64
	Tier        models.GradeTier
	GPA         float64
	RecordedAt  time.Time
}

// EventType implements events.Event.
func (e GradeRecordedEvent) EventType() events.Type { return EventGradeRecorded }

// OccurredAt implements events.Event.
func (e GradeRecordedEvent) OccurredAt() time.Time { return e.RecordedAt }
