package models

import "time"

// StatisticsReport aggregates class-wide figures derived from the roster and feed.
type StatisticsReport struct {
	Semester                 string            `json:"semester,omitempty"`
	TotalStudents            int               `json:"total_students"`
	GradeLevelDistribution   []GradeLevelShare `json:"grade_level_distribution"`
	GPA                      *GPAStatistics    `json:"gpa,omitempty"`
	AverageAttendance        float64           `json:"average_attendance"`
	TotalDisciplinaryActions int               `json:"total_disciplinary_actions"`
	Posts                    PostStatistics    `json:"posts"`
}

// GradeLevelShare is one row of the grade level distribution.
type GradeLevelShare struct {
	GradeLevel int     `json:"grade_level"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// GPAStatistics covers students with at least one recorded score.
type GPAStatistics struct {
	Average float64    `json:"average"`
	Min     float64    `json:"min"`
	Max     float64    `json:"max"`
	Buckets GPABuckets `json:"buckets"`
}

// GPABuckets counts students per GPA band.
type GPABuckets struct {
	Excellent  int `json:"excellent"`
	Good       int `json:"good"`
	Average    int `json:"average"`
	Struggling int `json:"struggling"`
}

// PostStatistics summarises the feed.
type PostStatistics struct {
	TotalPosts          int     `json:"total_posts"`
	TotalLikes          int     `json:"total_likes"`
	AverageLikesPerPost float64 `json:"average_likes_per_post"`
}

// SystemMetrics is a lightweight instrumentation snapshot.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	GradesRecorded           uint64    `json:"grades_recorded"`
	PostsCreated             uint64    `json:"posts_created"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
