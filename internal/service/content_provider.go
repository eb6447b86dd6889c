package service

import (
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

// GeneratedPost is the random part of a new feed post.
type GeneratedPost struct {
	Content  string
	Likes    int
	Comments int
	Hashtags []string
}

// StudentDefaults fills attributes a caller left unset when adding a student.
type StudentDefaults struct {
	Attendance          int
	DisciplinaryActions int
	Followers           int
	Following           int
	FavoriteExcuse      string
	EmergencyContact    string
	DietaryRestrictions string
	Transportation      string
	CareerGoals         string
}

// ContentProvider supplies every random value the gradebook needs.
type ContentProvider interface {
	GradeReaction(tier models.GradeTier, score float64) string
	GradeEngagement() (likes, comments int)
	RandomPost() GeneratedPost
	CasualPost() GeneratedPost
	StudentDefaults() StudentDefaults
	FillerScore() float64
	GradeLevel() int
}

// DefaultEmergencyContact is used for every generated student.
const DefaultEmergencyContact = "Mom (good luck reaching her)"

// GradePostHashtags tag every grade reaction in the feed.
var GradePostHashtags = []string{"#grades", "#schoollife", "#student"}

var gradeReactions = map[models.GradeTier][]string{
	models.GradeTierHigh: {
		"Just got a %s! 🎉 #blessed #smartcookie",
		"When you actually study and it pays off... %s! 📚✨",
		"Mom's gonna be so proud! %s on that assignment! 👏",
	},
	models.GradeTierMid: {
		"Could be worse... got a %s 🤷‍♀️",
		"Passed with a %s! That's what matters, right? 😅",
		"Not my best work but %s will do 📝",
	},
	models.GradeTierLow: {
		"We don't talk about that %s... 😭",
		"Time to have a serious talk with my study habits... %s 📉",
		"At least I showed up? Got a %s 🤦‍♀️",
	},
}

var schoolPosts = []string{
	"Just survived another day of high school 🏫😴",
	"When the teacher says 'this won't be on the test' but it's definitely on the test 📚😭",
	"Cafeteria food hit different today... in a bad way 🤢",
	"Group project partner just ghosted us 👻 Classic move!",
	"3 hours of homework for 1 class? Make it make sense 📝😵",
	"Friday feeling already and it's only Tuesday 📅😑",
	"That moment when you realize you studied for the wrong test 📖🤡",
	"Teacher: 'Any questions?' Me: *has 47 questions* Also me: *stays silent* 🤐",
	"Why do they call it rush hour when nobody's moving? Oh wait, that's the lunch line 🍕⏰",
	"Successfully avoided eye contact with teacher for entire class 👁️‍🗨️✅",
	"Coffee is my personality now ☕️💀",
	"When you finish an assignment 5 minutes before it's due 🏃‍♀️💨",
	"Plot twist: I actually understood the math lesson today 🤯📐",
	"Dress code violation for showing my ankles apparently 🙄👟",
	"Fire drill during the only class I actually like 🔥😒",
	"Found a dollar in my locker from last semester 💵✨",
	"Forgot my lunch and now I'm photosynthesizing 🌱☀️",
	"When the WiFi goes down and we all become cavemen 📡❌",
	"Successfully parallel parked on the first try! 🚗🎯",
	"Procrastination level: expert 🏆⏰",
}

var schoolHashtags = []string{
	"#highschoollife", "#studentproblems", "#sendhelp",
	"#almostweekend", "#cafeteriafood", "#homework",
	"#groupprojects", "#teacherproblems", "#schoolvibes",
	"#stressed", "#coffee", "#procrastination", "#mood",
	"#relatable", "#teenageproblems", "#schoolstruggles",
}

var casualPosts = []string{
	"Just had the most random dream 😴💭",
	"Found the perfect song for this mood 🎵✨",
	"Weekend plans: absolutely nothing and loving it 🛋️",
	"When did adulting become so complicated? 😅",
	"Random thought: why do we park in driveways and drive on parkways? 🤔",
	"Current status: motivated for exactly 3 minutes ⏰",
	"Life update: still figuring it out 🤷‍♀️",
	"Grateful for small things today 🙏💕",
	"Plot twist: I actually cleaned my room 🧹✨",
	"Me vs. my responsibilities: ongoing battle ⚔️",
}

var casualHashtags = []string{
	"#mood", "#random", "#life", "#thoughts", "#vibes",
	"#weekend", "#blessed", "#grateful", "#real", "#honest",
}

var (
	favoriteExcuses = []string{
		"My internet was down",
		"I forgot we had school today",
		"My cat deleted my homework",
		"I was abducted by aliens",
		"Time is a social construct",
	}
	dietaryRestrictions = []string{"None", "Vegetarian", "Allergic to vegetables", "Only eats pizza"}
	transportModes      = []string{"Bus", "Car", "Skateboard", "Pure willpower", "Teleportation"}
	careerGoals         = []string{
		"I have no idea",
		"Internet famous",
		"Professional gamer",
		"Something with computers",
		"Anything that pays well",
	}
	disciplinaryOdds = []int{0, 0, 0, 1, 2}
)

// RandomContentProvider draws from a seeded source. It is safe for concurrent use.
type RandomContentProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomContentProvider seeds the provider; seed 0 uses the current time.
func NewRandomContentProvider(seed int64) *RandomContentProvider {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomContentProvider{rng: rand.New(rand.NewSource(seed))}
}

// GradeReaction picks a template for the tier and fills in the score.
func (p *RandomContentProvider) GradeReaction(tier models.GradeTier, score float64) string {
	templates, ok := gradeReactions[tier]
	if !ok {
		templates = gradeReactions[models.TierFor(score)]
	}
	p.mu.Lock()
	template := templates[p.rng.Intn(len(templates))]
	p.mu.Unlock()
	return formatReaction(template, score)
}

// GradeEngagement returns likes in [5,50] and comments in [0,15].
func (p *RandomContentProvider) GradeEngagement() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.between(5, 50), p.between(0, 15)
}

// RandomPost returns a school themed post with 2 to 5 distinct hashtags.
func (p *RandomContentProvider) RandomPost() GeneratedPost {
	p.mu.Lock()
	defer p.mu.Unlock()
	return GeneratedPost{
		Content:  schoolPosts[p.rng.Intn(len(schoolPosts))],
		Likes:    p.between(10, 200),
		Comments: p.between(0, 50),
		Hashtags: p.sample(schoolHashtags, p.between(2, 5)),
	}
}

// CasualPost returns a non-academic post with 1 to 3 distinct hashtags.
func (p *RandomContentProvider) CasualPost() GeneratedPost {
	p.mu.Lock()
	defer p.mu.Unlock()
	return GeneratedPost{
		Content:  casualPosts[p.rng.Intn(len(casualPosts))],
		Likes:    p.between(15, 100),
		Comments: p.between(2, 25),
		Hashtags: p.sample(casualHashtags, p.between(1, 3)),
	}
}

// StudentDefaults draws the descriptive attributes of a new student.
func (p *RandomContentProvider) StudentDefaults() StudentDefaults {
	p.mu.Lock()
	defer p.mu.Unlock()
	return StudentDefaults{
		Attendance:          p.between(70, 98),
		DisciplinaryActions: disciplinaryOdds[p.rng.Intn(len(disciplinaryOdds))],
		Followers:           p.between(50, 500),
		Following:           p.between(100, 800),
		FavoriteExcuse:      p.pick(favoriteExcuses),
		EmergencyContact:    DefaultEmergencyContact,
		DietaryRestrictions: p.pick(dietaryRestrictions),
		Transportation:      p.pick(transportModes),
		CareerGoals:         p.pick(careerGoals),
	}
}

// FillerScore is the generous whole-number score used for unreadable input.
func (p *RandomContentProvider) FillerScore() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return float64(p.between(60, 95))
}

// GradeLevel returns a random high school grade level.
func (p *RandomContentProvider) GradeLevel() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.between(9, 12)
}

func (p *RandomContentProvider) between(lo, hi int) int {
	return lo + p.rng.Intn(hi-lo+1)
}

func (p *RandomContentProvider) pick(options []string) string {
	return options[p.rng.Intn(len(options))]
}

func (p *RandomContentProvider) sample(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	picked := make([]string, 0, n)
	for _, idx := range p.rng.Perm(len(pool))[:n] {
		picked = append(picked, pool[idx])
	}
	return picked
}

func formatReaction(template string, score float64) string {
	return fmt.Sprintf(template, FormatScore(score))
}

// FormatScore renders a score without trailing zeros.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
