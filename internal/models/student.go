package models

import "time"

// Student represents a learner tracked by the gradebook.
type Student struct {
	ID                  int                    `json:"id"`
	Name                string                 `json:"name"`
	GradeLevel          int                    `json:"grade"`
	Email               string                 `json:"email"`
	Subjects            []string               `json:"subjects"`
	Grades              map[Category][]float64 `json:"grades"`
	GPA                 float64                `json:"gpa"`
	Attendance          int                    `json:"attendance"`
	DisciplinaryActions int                    `json:"disciplinary_actions"`
	FavoriteExcuse      string                 `json:"favorite_excuse"`
	SocialMedia         SocialProfile          `json:"social_media"`
	EmergencyContact    string                 `json:"emergency_contact"`
	DietaryRestrictions string                 `json:"dietary_restrictions"`
	Transportation      string                 `json:"transportation"`
	Clubs               []string               `json:"clubs"`
	CareerGoals         string                 `json:"career_goals"`
}

// SocialProfile is the student's embedded social presence.
type SocialProfile struct {
	Followers        int          `json:"followers"`
	Following        int          `json:"following"`
	Posts            []Post       `json:"posts"`
	PostsAboutSchool []SchoolPost `json:"posts_about_school"`
}

// SchoolPost is the lightweight record kept on the student for grade reactions.
type SchoolPost struct {
	Content   string    `json:"post"`
	Timestamp time.Time `json:"timestamp"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
}

// StudentAttributes carries caller supplied values for a new student. Nil or empty fields are
// filled by the content provider. Nothing here is rejected: counts below zero are clamped and
// any grade level is kept.
type StudentAttributes struct {
	Name                string   `json:"name"`
	GradeLevel          *int     `json:"grade,omitempty"`
	Subjects            []string `json:"subjects"`
	Attendance          *int     `json:"attendance,omitempty"`
	DisciplinaryActions *int     `json:"disciplinary_actions,omitempty"`
	Followers           *int     `json:"followers,omitempty"`
	Following           *int     `json:"following,omitempty"`
	FavoriteExcuse      string   `json:"favorite_excuse"`
	EmergencyContact    string   `json:"emergency_contact"`
	DietaryRestrictions string   `json:"dietary_restrictions"`
	Transportation      string   `json:"transportation"`
	Clubs               []string `json:"clubs"`
	CareerGoals         string   `json:"career_goals"`
}

// EmptyGrades returns a grade map holding every recognised category.
func EmptyGrades() map[Category][]float64 {
	grades := make(map[Category][]float64, len(Categories))
	for _, category := range Categories {
		grades[category] = []float64{}
	}
	return grades
}

// Clone returns a deep copy so callers cannot mutate roster state.
func (s Student) Clone() Student {
	clone := s
	clone.Subjects = append([]string{}, s.Subjects...)
	clone.Clubs = append([]string{}, s.Clubs...)
	clone.Grades = make(map[Category][]float64, len(s.Grades))
	for category, scores := range s.Grades {
		clone.Grades[category] = append([]float64{}, scores...)
	}
	clone.SocialMedia.Posts = make([]Post, len(s.SocialMedia.Posts))
	for i, post := range s.SocialMedia.Posts {
		clone.SocialMedia.Posts[i] = post.Clone()
	}
	clone.SocialMedia.PostsAboutSchool = append([]SchoolPost{}, s.SocialMedia.PostsAboutSchool...)
	return clone
}
