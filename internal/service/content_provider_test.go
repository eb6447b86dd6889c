package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

func TestRandomContentProviderRanges(t *testing.T) {
	provider := NewRandomContentProvider(42)

	for i := 0; i < 200; i++ {
		defaults := provider.StudentDefaults()
		assert.GreaterOrEqual(t, defaults.Attendance, 70)
		assert.LessOrEqual(t, defaults.Attendance, 98)
		assert.Contains(t, []int{0, 1, 2}, defaults.DisciplinaryActions)
		assert.GreaterOrEqual(t, defaults.Followers, 50)
		assert.LessOrEqual(t, defaults.Followers, 500)
		assert.GreaterOrEqual(t, defaults.Following, 100)
		assert.LessOrEqual(t, defaults.Following, 800)
		assert.Equal(t, DefaultEmergencyContact, defaults.EmergencyContact)

		filler := provider.FillerScore()
		assert.GreaterOrEqual(t, filler, 60.0)
		assert.LessOrEqual(t, filler, 95.0)

		level := provider.GradeLevel()
		assert.GreaterOrEqual(t, level, 9)
		assert.LessOrEqual(t, level, 12)

		likes, comments := provider.GradeEngagement()
		assert.GreaterOrEqual(t, likes, 5)
		assert.LessOrEqual(t, likes, 50)
		assert.GreaterOrEqual(t, comments, 0)
		assert.LessOrEqual(t, comments, 15)
	}
}

func TestRandomContentProviderPostsHaveDistinctHashtags(t *testing.T) {
	provider := NewRandomContentProvider(7)

	for i := 0; i < 100; i++ {
		post := provider.RandomPost()
		require.GreaterOrEqual(t, len(post.Hashtags), 2)
		require.LessOrEqual(t, len(post.Hashtags), 5)
		assert.GreaterOrEqual(t, post.Likes, 10)
		assert.LessOrEqual(t, post.Likes, 200)
		assert.LessOrEqual(t, post.Comments, 50)
		assertDistinct(t, post.Hashtags)

		casual := provider.CasualPost()
		require.GreaterOrEqual(t, len(casual.Hashtags), 1)
		require.LessOrEqual(t, len(casual.Hashtags), 3)
		assert.GreaterOrEqual(t, casual.Likes, 15)
		assert.LessOrEqual(t, casual.Likes, 100)
		assert.GreaterOrEqual(t, casual.Comments, 2)
		assert.LessOrEqual(t, casual.Comments, 25)
		assertDistinct(t, casual.Hashtags)
	}
}

func TestRandomContentProviderSeedIsDeterministic(t *testing.T) {
	first := NewRandomContentProvider(99)
	second := NewRandomContentProvider(99)

	assert.Equal(t, first.RandomPost(), second.RandomPost())
	assert.Equal(t, first.StudentDefaults(), second.StudentDefaults())
}

func TestGradeReactionMentionsScore(t *testing.T) {
	provider := NewRandomContentProvider(1)

	assert.Contains(t, provider.GradeReaction(models.GradeTierHigh, 95), "95")
	assert.Contains(t, provider.GradeReaction(models.GradeTierMid, 72.5), "72.5")
	assert.Contains(t, provider.GradeReaction(models.GradeTierLow, 0), "0")
}

func assertDistinct(t *testing.T, values []string) {
	t.Helper()
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		_, dup := seen[v]
		assert.False(t, dup, "duplicate hashtag %s", v)
		seen[v] = struct{}{}
	}
}
