package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

const reportRule = "=================================================="

type reportStudents interface {
	FindByID(ctx context.Context, id int) (*models.Student, error)
}

type reportStatistics interface {
	Compute(ctx context.Context) (*models.StatisticsReport, error)
}

// ReportService renders the plain text reports shown by the console and the API.
type ReportService struct {
	students   reportStudents
	statistics reportStatistics
}

// NewReportService constructs a ReportService.
func NewReportService(students reportStudents, statistics reportStatistics) *ReportService {
	return &ReportService{students: students, statistics: statistics}
}

// StudentReport renders the full report for one student.
func (s *ReportService) StudentReport(ctx context.Context, studentID int) (string, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return "", err
	}
	return RenderStudentReport(*student), nil
}

// ClassReport renders the class statistics report.
func (s *ReportService) ClassReport(ctx context.Context) (string, error) {
	report, err := s.statistics.Compute(ctx)
	if err != nil {
		return "", err
	}
	return RenderClassStatistics(*report), nil
}

// RenderStudentReport formats identity, grades, personal info, social presence and discipline.
func RenderStudentReport(student models.Student) string {
	var b strings.Builder
	fmt.Fprintf(&b, "STUDENT REPORT: %s\n%s\n", student.Name, reportRule)
	fmt.Fprintf(&b, "Student ID: %d\n", student.ID)
	fmt.Fprintf(&b, "Grade Level: %d\n", student.GradeLevel)
	fmt.Fprintf(&b, "Email: %s\n", student.Email)
	fmt.Fprintf(&b, "GPA: %.2f\n", student.GPA)
	fmt.Fprintf(&b, "Attendance: %d%%\n", student.Attendance)

	b.WriteString("\nGRADES BREAKDOWN:\n")
	summary := GradeSummary(student)
	for _, category := range models.Categories {
		entry := summary[category]
		if entry.Count == 0 {
			fmt.Fprintf(&b, "  %s: No grades yet\n", category.Title())
			continue
		}
		fmt.Fprintf(&b, "  %s: %.1f%% (from %d assignments)\n", category.Title(), entry.Average, entry.Count)
	}

	b.WriteString("\nPERSONAL INFO:\n")
	fmt.Fprintf(&b, "  Favorite excuse: '%s'\n", student.FavoriteExcuse)
	fmt.Fprintf(&b, "  Career goals: %s\n", student.CareerGoals)
	fmt.Fprintf(&b, "  Transportation: %s\n", student.Transportation)
	fmt.Fprintf(&b, "  Dietary restrictions: %s\n", student.DietaryRestrictions)
	if len(student.Clubs) > 0 {
		fmt.Fprintf(&b, "  Clubs: %s\n", strings.Join(student.Clubs, ", "))
	}

	social := student.SocialMedia
	b.WriteString("\nSOCIAL MEDIA PRESENCE:\n")
	fmt.Fprintf(&b, "  Followers: %d\n", social.Followers)
	fmt.Fprintf(&b, "  Following: %d\n", social.Following)
	fmt.Fprintf(&b, "  School-related posts: %d\n", len(social.PostsAboutSchool))
	if recent := lastSchoolPosts(social.PostsAboutSchool, recentSchoolPostLimit); len(recent) > 0 {
		b.WriteString("  Recent school posts:\n")
		for _, post := range recent {
			fmt.Fprintf(&b, "    - %s (%d likes)\n", post.Content, post.Likes)
		}
	}

	if student.DisciplinaryActions > 0 {
		b.WriteString("\nDISCIPLINARY RECORD:\n")
		fmt.Fprintf(&b, "  Total actions: %d\n", student.DisciplinaryActions)
	} else {
		b.WriteString("\nDISCIPLINARY RECORD: Clean!\n")
	}
	return b.String()
}

// RenderClassStatistics formats a class report under its semester header.
func RenderClassStatistics(report models.StatisticsReport) string {
	var b strings.Builder
	if report.TotalStudents == 0 {
		b.WriteString("No students in the system.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "CLASS STATISTICS FOR %s\n%s\n", report.Semester, reportRule)
	fmt.Fprintf(&b, "Total students: %d\n", report.TotalStudents)

	b.WriteString("\nGrade level distribution:\n")
	for _, share := range report.GradeLevelDistribution {
		fmt.Fprintf(&b, "  Grade %d: %d students (%.1f%%)\n", share.GradeLevel, share.Count, share.Percentage)
	}

	if gpa := report.GPA; gpa != nil {
		b.WriteString("\nGPA Statistics:\n")
		fmt.Fprintf(&b, "  Average GPA: %.2f\n", gpa.Average)
		fmt.Fprintf(&b, "  Highest GPA: %.2f\n", gpa.Max)
		fmt.Fprintf(&b, "  Lowest GPA: %.2f\n", gpa.Min)
		b.WriteString("\nGPA Distribution:\n")
		fmt.Fprintf(&b, "  Excellent (90+): %d students\n", gpa.Buckets.Excellent)
		fmt.Fprintf(&b, "  Good (80-89): %d students\n", gpa.Buckets.Good)
		fmt.Fprintf(&b, "  Average (70-79): %d students\n", gpa.Buckets.Average)
		fmt.Fprintf(&b, "  Needs Help (<70): %d students\n", gpa.Buckets.Struggling)
	}

	fmt.Fprintf(&b, "\nAverage attendance: %.1f%%\n", report.AverageAttendance)
	fmt.Fprintf(&b, "Total disciplinary actions: %d\n", report.TotalDisciplinaryActions)

	b.WriteString("\nSocial Media Activity:\n")
	fmt.Fprintf(&b, "  Total posts: %d\n", report.Posts.TotalPosts)
	if report.Posts.TotalPosts > 0 {
		fmt.Fprintf(&b, "  Total likes: %d\n", report.Posts.TotalLikes)
		fmt.Fprintf(&b, "  Average likes per post: %.1f\n", report.Posts.AverageLikesPerPost)
	}
	return b.String()
}

// RenderWeights lists every category weight as a percentage with the total.
func RenderWeights(weights models.WeightTable) string {
	var b strings.Builder
	b.WriteString("CURRENT GRADE WEIGHTS:\n")
	for _, category := range models.Categories {
		fmt.Fprintf(&b, "  %s: %.0f%%\n", category.Title(), weights[category]*100)
	}
	fmt.Fprintf(&b, "  Total: %.0f%%\n", weights.Total()*100)
	return b.String()
}
