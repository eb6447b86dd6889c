package models

import "time"

// AnonymousAuthor is used when a post names no known student.
const AnonymousAuthor = "Anonymous Student"

// Post is an immutable entry of the social feed.
type Post struct {
	ID        string    `json:"id"`
	Student   string    `json:"student"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	Hashtags  []string  `json:"hashtags"`
}

// Clone copies the hashtag slice.
func (p Post) Clone() Post {
	clone := p
	clone.Hashtags = append([]string{}, p.Hashtags...)
	return clone
}

// HashtagCount is a trending hashtag entry.
type HashtagCount struct {
	Hashtag string `json:"hashtag"`
	Count   int    `json:"count"`
}

// SocialStanding describes the follower ratio tier.
type SocialStanding string

const (
	StandingPopular  SocialStanding = "popular"
	StandingSolid    SocialStanding = "solid"
	StandingFollower SocialStanding = "follower"
)

// SchoolContentBalance describes how much of a student's feed is about school.
type SchoolContentBalance string

const (
	BalanceSchoolIsLife SchoolContentBalance = "school_is_life"
	BalanceBalanced     SchoolContentBalance = "balanced"
	BalancePrivate      SchoolContentBalance = "private"
)

// SocialAnalysis summarises a student's social media activity.
type SocialAnalysis struct {
	StudentID            int                  `json:"student_id"`
	StudentName          string               `json:"student_name"`
	Followers            int                  `json:"followers"`
	Following            int                  `json:"following"`
	FollowRatio          *float64             `json:"follow_ratio,omitempty"`
	Standing             SocialStanding       `json:"standing,omitempty"`
	TotalPosts           int                  `json:"total_posts"`
	SchoolPosts          int                  `json:"school_posts"`
	SchoolContentPercent *float64             `json:"school_content_percent,omitempty"`
	Balance              SchoolContentBalance `json:"balance,omitempty"`
	RecentSchoolPosts    []SchoolPost         `json:"recent_school_posts"`
}
