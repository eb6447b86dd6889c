package service

import "github.com/noah-isme/sma-gradebook/internal/models"

// SampleStudents returns the demonstration roster. GPAs are left for the caller to compute.
func SampleStudents() []models.Student {
	return []models.Student{
		{
			ID:         12345,
			Name:       "Alex Procrastinator",
			GradeLevel: 11,
			Email:      "alex.procrastinator@school.edu",
			Subjects:   []string{"Computer Science", "Math", "English"},
			Grades: map[models.Category][]float64{
				models.CategoryHomework:      {85, 78, 92, 88},
				models.CategoryTests:         {82, 95, 76},
				models.CategoryParticipation: {90, 85, 95, 88},
				models.CategoryProjects:      {94, 87},
			},
			Attendance:          89,
			DisciplinaryActions: 1,
			FavoriteExcuse:      "My internet was down",
			SocialMedia: models.SocialProfile{
				Followers:        234,
				Following:        456,
				Posts:            []models.Post{},
				PostsAboutSchool: []models.SchoolPost{},
			},
			EmergencyContact:    "Mom (good luck reaching her)",
			DietaryRestrictions: "Allergic to vegetables",
			Transportation:      "Skateboard",
			Clubs:               []string{"Coding Club", "Procrastinators Anonymous"},
			CareerGoals:         "Something with computers",
		},
		{
			ID:         54321,
			Name:       "Jordan Overachiever",
			GradeLevel: 12,
			Email:      "jordan.overachiever@school.edu",
			Subjects:   []string{"AP Everything"},
			Grades: map[models.Category][]float64{
				models.CategoryHomework:      {98, 97, 99, 96},
				models.CategoryTests:         {97, 98, 95},
				models.CategoryParticipation: {100, 98, 99},
				models.CategoryProjects:      {99, 98},
			},
			Attendance:          99,
			DisciplinaryActions: 0,
			FavoriteExcuse:      "I don't make excuses",
			SocialMedia: models.SocialProfile{
				Followers:        89,
				Following:        23,
				Posts:            []models.Post{},
				PostsAboutSchool: []models.SchoolPost{},
			},
			EmergencyContact:    "Mom (she answers immediately)",
			DietaryRestrictions: "Perfect nutrition only",
			Transportation:      "Arrives by lightning bolt",
			Clubs:               []string{"Everything Club", "President of Student Council"},
			CareerGoals:         "Rule the world (benevolently)",
		},
	}
}
