package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/app"
	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/service"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

var (
	errInterrupted = errors.New("interrupted")
	errInputClosed = errors.New("input closed")
)

const rule = "============================================="

// Console drives the gradebook through numbered text menus.
type Console struct {
	gradebook  *app.Gradebook
	out        io.Writer
	lines      chan string
	interrupts <-chan os.Signal
	logger     *zap.Logger
	done       chan struct{}
	stopOnce   sync.Once
	scanDone   chan struct{}
}

// NewConsole reads commands from in and writes menus to out. Signals received on interrupts
// abort the current prompt and lead to the exit save prompt.
func NewConsole(gradebook *app.Gradebook, in io.Reader, out io.Writer, interrupts <-chan os.Signal, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Console{
		gradebook:  gradebook,
		out:        out,
		lines:      make(chan string),
		interrupts: interrupts,
		logger:     logger,
		done:       make(chan struct{}),
		scanDone:   make(chan struct{}),
	}
	go c.scan(in)
	return c
}

// scan feeds input lines to the prompts. It returns when the input ends or, once Run has
// returned, with the next line read. A Read blocked on an idle terminal is only released by
// more input or process exit.
func (c *Console) scan(in io.Reader) {
	defer close(c.scanDone)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case c.lines <- scanner.Text():
		case <-c.done:
			return
		}
	}
	close(c.lines)
}

// Run loads any saved gradebook and serves the main menu until the operator exits.
func (c *Console) Run(ctx context.Context) error {
	defer c.stopOnce.Do(func() { close(c.done) })

	c.printf("WELCOME TO THE STUDENT MANAGEMENT SYSTEM\n")
	c.loadSaved(ctx)

	for {
		err := c.mainMenu(ctx)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, errInterrupted):
			c.printf("\n\nForce quit detected!\n")
			c.exitPrompt(ctx)
			return nil
		case errors.Is(err, errInputClosed):
			return nil
		case errors.Is(err, context.Canceled):
			return err
		default:
			c.printf("An error occurred: %v\n", err)
		}
	}
}

func (c *Console) mainMenu(ctx context.Context) error {
	for {
		c.printf("\nSTUDENT MANAGEMENT SYSTEM - %s\n", c.gradebook.Statistics.Semester())
		c.printf("\nMAIN MENU:\n")
		c.printf("1. Student Management\n2. Grade Management\n3. Social Media\n4. View Statistics\n")
		c.printf("5. Save Data\n6. Load Sample Data\n7. Export Roster\n8. Exit\n")
		choice, err := c.prompt(ctx, "\nEnter your choice (1-8): ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = c.studentMenu(ctx)
		case "2":
			err = c.gradeMenu(ctx)
		case "3":
			err = c.socialMenu(ctx)
		case "4":
			err = c.showStatistics(ctx)
		case "5":
			c.save(ctx)
		case "6":
			c.loadSample(ctx)
		case "7":
			err = c.exportRoster(ctx)
		case "8":
			c.printf("\nThanks for using the Student Management System!\n")
			c.exitPrompt(ctx)
			return nil
		default:
			c.printf("Invalid choice. Please enter a number 1-8.\n")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) studentMenu(ctx context.Context) error {
	for {
		c.printf("\nSTUDENT MANAGEMENT\n")
		c.printf("1. Add New Student\n2. Find Student by Name\n3. Generate Student Report\n4. List All Students\n5. Back to Main Menu\n")
		choice, err := c.prompt(ctx, "\nEnter your choice (1-5): ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = c.addStudent(ctx)
		case "2":
			err = c.findStudent(ctx)
		case "3":
			err = c.studentReport(ctx)
		case "4":
			c.listStudents(ctx)
		case "5":
			return nil
		default:
			c.printf("Invalid choice. Try again!\n")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) addStudent(ctx context.Context) error {
	name, err := c.prompt(ctx, "Student name (or nickname if they're too cool for real names): ")
	if err != nil {
		return err
	}
	rawLevel, err := c.prompt(ctx, "Grade level (9-12, or just guess): ")
	if err != nil {
		return err
	}

	level, convErr := strconv.Atoi(strings.TrimSpace(rawLevel))
	if convErr != nil {
		level = c.gradebook.Content.GradeLevel()
		c.printf("Invalid input. I'll just say they're in grade %d.\n", level)
	} else if level < 9 || level > 12 {
		c.printf("That's not a high school grade, but sure, let's go with it.\n")
	}

	student := c.gradebook.Students.Add(ctx, models.StudentAttributes{Name: strings.TrimSpace(name), GradeLevel: &level})
	c.printf("Student %s added with ID %d!\n", student.Name, student.ID)
	c.printf("   Email: %s\n", student.Email)
	return nil
}

func (c *Console) findStudent(ctx context.Context) error {
	student, err := c.lookup(ctx, "Enter student name: ")
	if err != nil || student == nil {
		return err
	}
	c.printf("Found: %s (ID: %d, Grade: %d)\n", student.Name, student.ID, student.GradeLevel)
	c.printf("   GPA: %.2f | Attendance: %d%%\n", student.GPA, student.Attendance)
	return nil
}

func (c *Console) studentReport(ctx context.Context) error {
	student, err := c.lookup(ctx, "Enter student name for report: ")
	if err != nil || student == nil {
		return err
	}
	c.printf("\n%s", service.RenderStudentReport(*student))
	return nil
}

func (c *Console) listStudents(ctx context.Context) {
	students := c.gradebook.Students.List(ctx)
	if len(students) == 0 {
		c.printf("\nNo students in the system yet!\n   Add some students to get started!\n")
		return
	}
	c.printf("\nALL STUDENTS (%d total):\n%s\n", len(students), strings.Repeat("-", 60))
	for _, student := range students {
		c.printf("  %s (Grade %d) - GPA: %.2f\n", student.Name, student.GradeLevel, student.GPA)
	}
}

func (c *Console) gradeMenu(ctx context.Context) error {
	for {
		c.printf("\nGRADE MANAGEMENT\n")
		c.printf("1. Add Grade\n2. View Grade Weights\n3. Calculate Class Statistics\n4. Back to Main Menu\n")
		choice, err := c.prompt(ctx, "\nEnter your choice (1-4): ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = c.addGrade(ctx)
		case "2":
			c.printf("\n%s", service.RenderWeights(c.gradebook.Grades.Weights()))
		case "3":
			err = c.showStatistics(ctx)
		case "4":
			return nil
		default:
			c.printf("Invalid choice. Try again!\n")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) addGrade(ctx context.Context) error {
	student, err := c.lookup(ctx, "Student name: ")
	if err != nil || student == nil {
		return err
	}

	c.printf("Grade categories:\n")
	for _, category := range models.Categories {
		c.printf("  - %s\n", category)
	}
	category, err := c.prompt(ctx, "Category: ")
	if err != nil {
		return err
	}
	rawScore, err := c.prompt(ctx, "Grade (0-100): ")
	if err != nil {
		return err
	}

	score, convErr := strconv.ParseFloat(strings.TrimSpace(rawScore), 64)
	if convErr != nil {
		score = c.gradebook.Content.FillerScore()
		c.printf("Invalid grade. I'll give them a %s because I'm feeling generous.\n", service.FormatScore(score))
	} else if score > 100 {
		c.printf("Over 100? Someone's an overachiever!\n")
	}

	result, err := c.gradebook.Grades.RecordGrade(ctx, student.ID, service.RecordGradeRequest{Category: category, Score: &score})
	if err != nil {
		c.printf("Grade not recorded: %s\n", message(err))
		return nil
	}
	if result.CategorySubstituted {
		c.printf("Invalid category. I'll just put it under 'homework' because why not?\n")
	}
	if result.ScoreClamped {
		c.printf("Negative grades aren't a thing. Set to 0.\n")
	}
	c.printf("Grade %s added to %s's %s!\n", service.FormatScore(result.Score), result.StudentName, result.Category)
	c.printf("New GPA: %.2f\n", result.GPA)
	return nil
}

func (c *Console) socialMenu(ctx context.Context) error {
	for {
		c.printf("\nSOCIAL MEDIA OPTIONS:\n")
		c.printf("1. Generate Random Post\n2. View Recent Posts\n3. View Trending Hashtags\n4. Analyze Student Activity\n5. Back to Main Menu\n")
		choice, err := c.prompt(ctx, "\nEnter your choice (1-5): ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = c.createPost(ctx)
		case "2":
			c.recentPosts(ctx)
		case "3":
			c.trending(ctx)
		case "4":
			err = c.analyze(ctx)
		case "5":
			return nil
		default:
			c.printf("Invalid choice. Try again, social media guru!\n")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) createPost(ctx context.Context) error {
	name, err := c.prompt(ctx, "Student name for social media post: ")
	if err != nil {
		return err
	}
	post, err := c.gradebook.Social.CreatePost(ctx, strings.TrimSpace(name))
	if err != nil {
		c.printf("Post failed: %s\n", message(err))
		return nil
	}
	if post.Student == models.AnonymousAuthor {
		c.printf("Student not found. Creating anonymous post instead!\n")
	}
	c.printf("\nNEW POST by @%s\n   %s\n   %d likes | %d comments\n", post.Student, post.Content, post.Likes, post.Comments)
	if len(post.Hashtags) > 0 {
		c.printf("   %s\n", strings.Join(post.Hashtags, " "))
	}
	return nil
}

func (c *Console) recentPosts(ctx context.Context) {
	posts := c.gradebook.Social.RecentPosts(ctx, service.DefaultFeedWindow)
	if len(posts) == 0 {
		c.printf("Social Media Feed: Crickets...\n   (Nobody's posted anything yet.)\n")
		return
	}
	c.printf("RECENT SOCIAL MEDIA POSTS (Last %d)\n%s\n", service.DefaultFeedWindow, rule)
	for i, post := range posts {
		c.printf("\n%d. @%s - %s\n", i+1, post.Student, post.Timestamp.Local().Format("01/02 15:04"))
		c.printf("   %s\n", post.Content)
		c.printf("   %d likes | %d comments\n", post.Likes, post.Comments)
		if len(post.Hashtags) > 0 {
			c.printf("   %s\n", strings.Join(post.Hashtags, " "))
		}
	}
}

func (c *Console) trending(ctx context.Context) {
	trending := c.gradebook.Social.TrendingHashtags(ctx, service.DefaultFeedWindow)
	if len(trending) == 0 {
		c.printf("\nNo trending hashtags yet!\n   (Create some posts to see what's popular!)\n")
		return
	}
	c.printf("\nTRENDING HASHTAGS:\n")
	for i, entry := range trending {
		c.printf("   %d. %s (%d posts)\n", i+1, entry.Hashtag, entry.Count)
	}
}

func (c *Console) analyze(ctx context.Context) error {
	name, err := c.prompt(ctx, "Student name to analyze: ")
	if err != nil {
		return err
	}
	student, lookupErr := c.gradebook.Students.FindByName(ctx, strings.TrimSpace(name))
	if lookupErr != nil {
		c.printf("Student not found. Can't analyze ghost activity!\n")
		return nil
	}
	analysis, err := c.gradebook.Social.Analyze(ctx, student.ID)
	if err != nil {
		c.printf("Analysis failed: %s\n", message(err))
		return nil
	}
	c.printf("%s", renderAnalysis(*analysis))
	return nil
}

func (c *Console) showStatistics(ctx context.Context) error {
	report, err := c.gradebook.Reports.ClassReport(ctx)
	if err != nil {
		c.printf("Statistics unavailable: %s\n", message(err))
		return nil
	}
	c.printf("\n%s", report)
	return nil
}

func (c *Console) save(ctx context.Context) {
	result, err := c.gradebook.Persistence.Save(ctx)
	if err != nil {
		c.printf("Error saving data: %s\n", message(err))
		return
	}
	c.printf("Data saved successfully!\n")
	c.printf("   Students: %d records -> %s\n", result.StudentsSaved, result.StudentsTarget)
	c.printf("   Posts: %d records -> %s\n", result.PostsSaved, result.PostsTarget)
}

func (c *Console) loadSaved(ctx context.Context) {
	result, err := c.gradebook.Persistence.Load(ctx)
	if err != nil {
		c.printf("Could not load saved data: %s\n", message(err))
		return
	}
	if result.Fresh {
		c.printf("No existing data found. Starting fresh!\n")
		return
	}
	c.printf("Loaded %d students and %d posts\n", result.StudentsLoaded, result.PostsLoaded)
}

func (c *Console) loadSample(ctx context.Context) {
	samples := c.gradebook.Persistence.LoadSample(ctx)
	c.printf("Sample data loaded!\n   Added %d sample students to the system.\n", len(samples))
}

func (c *Console) exportRoster(ctx context.Context) error {
	format, err := c.prompt(ctx, "Export format (csv/pdf): ")
	if err != nil {
		return err
	}
	result, exportErr := c.gradebook.Exports.ExportRoster(ctx, format)
	if exportErr != nil {
		c.printf("Export failed: %s\n", message(exportErr))
		return nil
	}
	location := result.Path
	if location == "" {
		location = result.Filename
	}
	c.printf("Exported %d students to %s\n", result.Rows, location)
	return nil
}

// exitPrompt offers a final save. Interrupts or closed input while asking skip the save.
func (c *Console) exitPrompt(ctx context.Context) {
	answer, err := c.prompt(ctx, "Save data before exiting? (y/n): ")
	if err == nil {
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			c.save(ctx)
		}
	}
	c.printf("Goodbye!\n")
}

func (c *Console) lookup(ctx context.Context, label string) (*models.Student, error) {
	name, err := c.prompt(ctx, label)
	if err != nil {
		return nil, err
	}
	student, lookupErr := c.gradebook.Students.FindByName(ctx, strings.TrimSpace(name))
	if lookupErr != nil {
		if errors.Is(lookupErr, appErrors.ErrNotFound) {
			c.printf("Student not found. Check the spelling or try a different name.\n")
			return nil, nil
		}
		c.printf("Lookup failed: %s\n", message(lookupErr))
		return nil, nil
	}
	return student, nil
}

func (c *Console) prompt(ctx context.Context, label string) (string, error) {
	c.printf("%s", label)
	select {
	case <-c.interrupts:
		return "", errInterrupted
	default:
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-c.interrupts:
		return "", errInterrupted
	case line, ok := <-c.lines:
		if !ok {
			return "", errInputClosed
		}
		return strings.TrimRight(line, "\r"), nil
	}
}

func (c *Console) printf(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(c.out, format, args...); err != nil {
		c.logger.Debug("console write failed", zap.Error(err))
	}
}

func renderAnalysis(analysis models.SocialAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nSOCIAL MEDIA ANALYSIS: %s\n%s\n", analysis.StudentName, rule)
	fmt.Fprintf(&b, "Followers: %d\nFollowing: %d\n", analysis.Followers, analysis.Following)
	if analysis.FollowRatio != nil {
		fmt.Fprintf(&b, "Follow Ratio: %.2f\n", *analysis.FollowRatio)
		switch analysis.Standing {
		case models.StandingPopular:
			b.WriteString("   (Popular kid detected!)\n")
		case models.StandingSolid:
			b.WriteString("   (Solid social presence)\n")
		default:
			b.WriteString("   (More of a follower than followed)\n")
		}
	}
	fmt.Fprintf(&b, "\nTotal Posts: %d\nSchool-related Posts: %d\n", analysis.TotalPosts, analysis.SchoolPosts)
	if analysis.SchoolContentPercent != nil {
		fmt.Fprintf(&b, "School Content: %.1f%%\n", *analysis.SchoolContentPercent)
		switch analysis.Balance {
		case models.BalanceSchoolIsLife:
			b.WriteString("   (School is life!)\n")
		case models.BalanceBalanced:
			b.WriteString("   (Balanced social media presence)\n")
		default:
			b.WriteString("   (Keeping school life private)\n")
		}
	}
	if len(analysis.RecentSchoolPosts) > 0 {
		b.WriteString("\nRecent School Posts:\n")
		for _, post := range analysis.RecentSchoolPosts {
			fmt.Fprintf(&b, "   - %s (%d likes)\n", post.Content, post.Likes)
		}
	}
	return b.String()
}

func message(err error) string {
	return appErrors.FromError(err).Message
}
