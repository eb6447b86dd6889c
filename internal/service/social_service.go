package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/events"
)

// DefaultFeedWindow is used when callers ask for zero or fewer posts or hashtags.
const DefaultFeedWindow = 5

const recentSchoolPostLimit = 3

// Post kinds reported to metrics.
const (
	PostKindGrade  = "grade"
	PostKindRandom = "random"
	PostKindCasual = "casual"
)

type socialRoster interface {
	FindByID(id int) (models.Student, error)
	FindByName(name string) (models.Student, error)
	Update(id int, fn func(student *models.Student) error) (models.Student, error)
}

type socialFeed interface {
	Append(post models.Post)
	Latest(n int) []models.Post
	List() []models.Post
}

type eventSubscriber interface {
	Subscribe(eventType events.Type, handler events.Handler) error
}

// SocialService owns the feed and reacts to recorded grades with posts.
type SocialService struct {
	roster  socialRoster
	feed    socialFeed
	state   *repository.StateLock
	content ContentProvider
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewSocialService constructs the social collaborator.
func NewSocialService(roster socialRoster, feed socialFeed, state *repository.StateLock, content ContentProvider, metrics *MetricsService, logger *zap.Logger) *SocialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SocialService{roster: roster, feed: feed, state: state, content: content, metrics: metrics, logger: logger, now: time.Now}
}

// Subscribe attaches the grade reaction handler to the bus. grade.recorded is published while
// the grading engine holds the state lock, so the handler does not take it again.
func (s *SocialService) Subscribe(bus eventSubscriber) error {
	return bus.Subscribe(EventGradeRecorded, s.handleGradeRecorded)
}

func (s *SocialService) handleGradeRecorded(ctx context.Context, event events.Event) error {
	recorded, ok := event.(GradeRecordedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}
	_, err := s.postGradeReaction(recorded)
	return err
}

// postGradeReaction adds a school post to the student and mirrors it in the feed.
func (s *SocialService) postGradeReaction(recorded GradeRecordedEvent) (*models.Post, error) {
	content := s.content.GradeReaction(recorded.Tier, recorded.Score)
	likes, comments := s.content.GradeEngagement()
	timestamp := recorded.RecordedAt
	if timestamp.IsZero() {
		timestamp = s.now().UTC()
	}

	student, err := s.roster.Update(recorded.StudentID, func(student *models.Student) error {
		student.SocialMedia.PostsAboutSchool = append(student.SocialMedia.PostsAboutSchool, models.SchoolPost{
			Content:   content,
			Timestamp: timestamp,
			Likes:     likes,
			Comments:  comments,
		})
		return nil
	})
	if err != nil {
		return nil, s.mapLookupError(err)
	}

	post := models.Post{
		ID:        uuid.NewString(),
		Student:   student.Name,
		Content:   content,
		Timestamp: timestamp,
		Likes:     likes,
		Comments:  comments,
		Hashtags:  append([]string{}, GradePostHashtags...),
	}
	s.feed.Append(post)
	s.metrics.RecordPost(PostKindGrade)
	return &post, nil
}

// CreatePost publishes a random school post. Unknown authors post as the anonymous student and
// the post only lives in the feed.
func (s *SocialService) CreatePost(ctx context.Context, authorName string) (*models.Post, error) {
	generated := s.content.RandomPost()
	post := s.newPost(models.AnonymousAuthor, generated)

	s.state.Lock()
	defer s.state.Unlock()

	student, err := s.roster.FindByName(authorName)
	switch {
	case err == nil:
		post.Student = student.Name
		if _, err := s.roster.Update(student.ID, func(record *models.Student) error {
			record.SocialMedia.Posts = append(record.SocialMedia.Posts, post.Clone())
			return nil
		}); err != nil {
			return nil, s.mapLookupError(err)
		}
	case errors.Is(err, repository.ErrNotFound):
		s.logger.Debug("posting anonymously", zap.String("requested_author", authorName))
	default:
		return nil, s.mapLookupError(err)
	}

	s.feed.Append(post)
	s.metrics.RecordPost(PostKindRandom)
	return &post, nil
}

// CreateCasualPost publishes a non-academic post for the student.
func (s *SocialService) CreateCasualPost(ctx context.Context, studentID int) (*models.Post, error) {
	generated := s.content.CasualPost()
	post := s.newPost("", generated)

	s.state.Lock()
	defer s.state.Unlock()

	student, err := s.roster.Update(studentID, func(record *models.Student) error {
		post.Student = record.Name
		record.SocialMedia.Posts = append(record.SocialMedia.Posts, post.Clone())
		return nil
	})
	if err != nil {
		return nil, s.mapLookupError(err)
	}
	post.Student = student.Name

	s.feed.Append(post)
	s.metrics.RecordPost(PostKindCasual)
	return &post, nil
}

// RecentPosts returns up to n posts, newest first.
func (s *SocialService) RecentPosts(ctx context.Context, n int) []models.Post {
	if n <= 0 {
		n = DefaultFeedWindow
	}
	return s.feed.Latest(n)
}

// TrendingHashtags returns the n most used hashtags.
func (s *SocialService) TrendingHashtags(ctx context.Context, n int) []models.HashtagCount {
	if n <= 0 {
		n = DefaultFeedWindow
	}
	return TrendingHashtags(s.feed.List(), n)
}

// Analyze summarises the social activity of a student.
func (s *SocialService) Analyze(ctx context.Context, studentID int) (*models.SocialAnalysis, error) {
	student, err := s.roster.FindByID(studentID)
	if err != nil {
		return nil, s.mapLookupError(err)
	}
	analysis := AnalyzeSocialActivity(student)
	return &analysis, nil
}

func (s *SocialService) newPost(author string, generated GeneratedPost) models.Post {
	return models.Post{
		ID:        uuid.NewString(),
		Student:   author,
		Content:   generated.Content,
		Timestamp: s.now().UTC(),
		Likes:     generated.Likes,
		Comments:  generated.Comments,
		Hashtags:  append([]string{}, generated.Hashtags...),
	}
}

func (s *SocialService) mapLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
}

// TrendingHashtags counts hashtags across posts, most used first. Ties keep first-seen order.
func TrendingHashtags(posts []models.Post, n int) []models.HashtagCount {
	counts := make(map[string]int)
	var order []string
	for _, post := range posts {
		for _, tag := range post.Hashtags {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	trending := make([]models.HashtagCount, 0, len(order))
	for _, tag := range order {
		trending = append(trending, models.HashtagCount{Hashtag: tag, Count: counts[tag]})
	}
	sort.SliceStable(trending, func(i, j int) bool {
		return trending[i].Count > trending[j].Count
	})
	if n > 0 && len(trending) > n {
		trending = trending[:n]
	}
	return trending
}

// AnalyzeSocialActivity derives follower standing and school content balance.
func AnalyzeSocialActivity(student models.Student) models.SocialAnalysis {
	social := student.SocialMedia
	analysis := models.SocialAnalysis{
		StudentID:         student.ID,
		StudentName:       student.Name,
		Followers:         social.Followers,
		Following:         social.Following,
		TotalPosts:        len(social.Posts),
		SchoolPosts:       len(social.PostsAboutSchool),
		RecentSchoolPosts: []models.SchoolPost{},
	}

	if social.Following > 0 {
		ratio := float64(social.Followers) / float64(social.Following)
		analysis.FollowRatio = &ratio
		switch {
		case ratio > 1.5:
			analysis.Standing = models.StandingPopular
		case ratio > 0.8:
			analysis.Standing = models.StandingSolid
		default:
			analysis.Standing = models.StandingFollower
		}
	}

	if analysis.TotalPosts > 0 {
		percent := float64(analysis.SchoolPosts) / float64(analysis.TotalPosts) * 100
		analysis.SchoolContentPercent = &percent
		switch {
		case percent > 50:
			analysis.Balance = models.BalanceSchoolIsLife
		case percent > 20:
			analysis.Balance = models.BalanceBalanced
		default:
			analysis.Balance = models.BalancePrivate
		}
	}

	analysis.RecentSchoolPosts = append(analysis.RecentSchoolPosts, lastSchoolPosts(social.PostsAboutSchool, recentSchoolPostLimit)...)
	return analysis
}

func lastSchoolPosts(posts []models.SchoolPost, n int) []models.SchoolPost {
	if len(posts) > n {
		return posts[len(posts)-n:]
	}
	return posts
}
