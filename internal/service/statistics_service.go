package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/repository"
)

type statisticsRoster interface {
	List() []models.Student
	Revision() uint64
}

type statisticsFeed interface {
	List() []models.Post
	Revision() uint64
}

// StatisticsService derives class-wide reports from the roster and the feed.
type StatisticsService struct {
	roster   statisticsRoster
	feed     statisticsFeed
	state    *repository.StateLock
	cache    *CacheService
	metrics  *MetricsService
	semester string
	cacheTTL time.Duration
	instance string
	logger   *zap.Logger
}

// NewStatisticsService constructs the service. Cache and metrics are optional.
func NewStatisticsService(roster statisticsRoster, feed statisticsFeed, state *repository.StateLock, cache *CacheService, metrics *MetricsService, semester string, cacheTTL time.Duration, logger *zap.Logger) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{
		roster:   roster,
		feed:     feed,
		state:    state,
		cache:    cache,
		metrics:  metrics,
		semester: semester,
		cacheTTL: cacheTTL,
		instance: uuid.NewString(),
		logger:   logger,
	}
}

// Semester returns the label attached to every report.
func (s *StatisticsService) Semester() string {
	return s.semester
}

// Compute builds the class report, served from cache while roster and feed are unchanged.
func (s *StatisticsService) Compute(ctx context.Context) (*models.StatisticsReport, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveStatistics(time.Since(start))
		}
	}()

	if s.cache.Enabled() {
		s.state.RLock()
		key := s.cacheKey()
		s.state.RUnlock()

		var cached models.StatisticsReport
		hit, err := s.cache.Get(ctx, key, &cached)
		if err == nil && hit {
			return &cached, nil
		}
	}

	key, students, posts := s.snapshot()
	report := ComputeClassStatistics(students, posts)
	report.Semester = s.semester

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
			s.logger.Debug("statistics not cached", zap.Error(err))
		}
	}
	return &report, nil
}

// snapshot reads both collections and their revisions under one read lock.
func (s *StatisticsService) snapshot() (string, []models.Student, []models.Post) {
	s.state.RLock()
	defer s.state.RUnlock()
	return s.cacheKey(), s.roster.List(), s.feed.List()
}

func (s *StatisticsService) cacheKey() string {
	return fmt.Sprintf("gradebook:statistics:%s:%d:%d", s.instance, s.roster.Revision(), s.feed.Revision())
}

// ComputeClassStatistics aggregates the roster and feed. An empty roster yields a zeroed report.
func ComputeClassStatistics(students []models.Student, posts []models.Post) models.StatisticsReport {
	report := models.StatisticsReport{
		TotalStudents:          len(students),
		GradeLevelDistribution: []models.GradeLevelShare{},
	}

	levels := make(map[int]int)
	var attendance float64
	var gpas []float64
	for _, student := range students {
		levels[student.GradeLevel]++
		attendance += float64(student.Attendance)
		report.TotalDisciplinaryActions += student.DisciplinaryActions
		if student.GPA > 0 {
			gpas = append(gpas, student.GPA)
		}
	}

	if len(students) > 0 {
		report.AverageAttendance = attendance / float64(len(students))
		ordered := make([]int, 0, len(levels))
		for level := range levels {
			ordered = append(ordered, level)
		}
		sort.Ints(ordered)
		for _, level := range ordered {
			count := levels[level]
			report.GradeLevelDistribution = append(report.GradeLevelDistribution, models.GradeLevelShare{
				GradeLevel: level,
				Count:      count,
				Percentage: float64(count) / float64(len(students)) * 100,
			})
		}
	}

	if len(gpas) > 0 {
		stats := &models.GPAStatistics{Min: gpas[0], Max: gpas[0]}
		for _, gpa := range gpas {
			if gpa < stats.Min {
				stats.Min = gpa
			}
			if gpa > stats.Max {
				stats.Max = gpa
			}
			switch {
			case gpa >= 90:
				stats.Buckets.Excellent++
			case gpa >= 80:
				stats.Buckets.Good++
			case gpa >= 70:
				stats.Buckets.Average++
			default:
				stats.Buckets.Struggling++
			}
		}
		stats.Average = mean(gpas)
		report.GPA = stats
	}

	report.Posts.TotalPosts = len(posts)
	for _, post := range posts {
		report.Posts.TotalLikes += post.Likes
	}
	if len(posts) > 0 {
		report.Posts.AverageLikesPerPost = float64(report.Posts.TotalLikes) / float64(len(posts))
	}

	return report
}
