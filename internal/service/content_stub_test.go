package service

import (
	"fmt"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

type stubContentProvider struct {
	defaults   StudentDefaults
	randomPost GeneratedPost
	casualPost GeneratedPost
	likes      int
	comments   int
	filler     float64
	gradeLevel int
}

func newStubContentProvider() *stubContentProvider {
	return &stubContentProvider{
		defaults: StudentDefaults{
			Attendance:          90,
			DisciplinaryActions: 0,
			Followers:           100,
			Following:           200,
			FavoriteExcuse:      "My cat deleted my homework",
			EmergencyContact:    DefaultEmergencyContact,
			DietaryRestrictions: "None",
			Transportation:      "Bus",
			CareerGoals:         "I have no idea",
		},
		randomPost: GeneratedPost{Content: "Coffee is my personality now", Likes: 120, Comments: 7, Hashtags: []string{"#coffee", "#mood"}},
		casualPost: GeneratedPost{Content: "Grateful for small things today", Likes: 40, Comments: 3, Hashtags: []string{"#grateful"}},
		likes:      12,
		comments:   4,
		filler:     75,
		gradeLevel: 10,
	}
}

func (s *stubContentProvider) GradeReaction(tier models.GradeTier, score float64) string {
	return fmt.Sprintf("%s:%s", tier, FormatScore(score))
}

func (s *stubContentProvider) GradeEngagement() (int, int) { return s.likes, s.comments }

func (s *stubContentProvider) RandomPost() GeneratedPost { return s.randomPost }

func (s *stubContentProvider) CasualPost() GeneratedPost { return s.casualPost }

func (s *stubContentProvider) StudentDefaults() StudentDefaults { return s.defaults }

func (s *stubContentProvider) FillerScore() float64 { return s.filler }

func (s *stubContentProvider) GradeLevel() int { return s.gradeLevel }

func scorePtr(v float64) *float64 { return &v }

func countPtr(v int) *int { return &v }
