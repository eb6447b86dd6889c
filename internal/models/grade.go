package models

import (
	"strings"
	"time"
)

// Category is one of the recognised grade buckets.
type Category string

const (
	CategoryHomework      Category = "homework"
	CategoryTests         Category = "tests"
	CategoryParticipation Category = "participation"
	CategoryProjects      Category = "projects"
)

// Categories lists the recognised categories in their canonical order.
var Categories = []Category{CategoryHomework, CategoryTests, CategoryParticipation, CategoryProjects}

// ParseCategory normalises raw input into a recognised category.
func ParseCategory(raw string) (Category, bool) {
	candidate := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, category := range Categories {
		if category == candidate {
			return category, true
		}
	}
	return "", false
}

// Title returns the capitalised category label used in reports.
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// WeightTable maps categories to their non-negative weight.
type WeightTable map[Category]float64

// DefaultWeights returns the standard grading weights.
func DefaultWeights() WeightTable {
	return WeightTable{
		CategoryHomework:      0.3,
		CategoryTests:         0.4,
		CategoryParticipation: 0.2,
		CategoryProjects:      0.1,
	}
}

// Clone returns a copy of the weight table.
func (w WeightTable) Clone() WeightTable {
	clone := make(WeightTable, len(w))
	for category, weight := range w {
		clone[category] = weight
	}
	return clone
}

// Total sums all configured weights.
func (w WeightTable) Total() float64 {
	total := 0.0
	for _, category := range Categories {
		total += w[category]
	}
	return total
}

// GradeTier buckets a single recorded score for reaction posts.
type GradeTier string

const (
	GradeTierHigh GradeTier = "high"
	GradeTierMid  GradeTier = "mid"
	GradeTierLow  GradeTier = "low"
)

// TierFor classifies a score: >=90 high, >=70 mid, otherwise low.
func TierFor(score float64) GradeTier {
	switch {
	case score >= 90:
		return GradeTierHigh
	case score >= 70:
		return GradeTierMid
	default:
		return GradeTierLow
	}
}

// RecordResult reports what the grading engine actually stored.
type RecordResult struct {
	StudentID           int       `json:"student_id"`
	StudentName         string    `json:"student_name"`
	Category            Category  `json:"category"`
	Score               float64   `json:"score"`
	GPA                 float64   `json:"gpa"`
	Tier                GradeTier `json:"tier"`
	CategorySubstituted bool      `json:"category_substituted"`
	ScoreClamped        bool      `json:"score_clamped"`
	RecordedAt          time.Time `json:"recorded_at"`
}

// CategorySummary is the derived view of a single category.
type CategorySummary struct {
	Average float64   `json:"average"`
	Count   int       `json:"count"`
	Scores  []float64 `json:"grades"`
}

// GradeSummary is keyed by every recognised category.
type GradeSummary map[Category]CategorySummary
