package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-gradebook/internal/service"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/response"
)

// CreatePostRequest names the author of a random post.
type CreatePostRequest struct {
	Author string `json:"author"`
}

// SocialHandler exposes the feed.
type SocialHandler struct {
	social *service.SocialService
}

// NewSocialHandler constructs SocialHandler.
func NewSocialHandler(social *service.SocialService) *SocialHandler {
	return &SocialHandler{social: social}
}

// Recent godoc
// @Summary Most recent posts, newest first
// @Tags Social
// @Produce json
// @Param limit query int false "Number of posts (default 5)"
// @Success 200 {object} response.Envelope
// @Router /posts/recent [get]
func (h *SocialHandler) Recent(c *gin.Context) {
	posts := h.social.RecentPosts(c.Request.Context(), queryInt(c, "limit", service.DefaultFeedWindow))
	response.JSON(c, http.StatusOK, posts, map[string]interface{}{"count": len(posts)})
}

// Trending godoc
// @Summary Trending hashtags
// @Tags Social
// @Produce json
// @Param limit query int false "Number of hashtags (default 5)"
// @Success 200 {object} response.Envelope
// @Router /posts/trending [get]
func (h *SocialHandler) Trending(c *gin.Context) {
	trending := h.social.TrendingHashtags(c.Request.Context(), queryInt(c, "limit", service.DefaultFeedWindow))
	response.JSON(c, http.StatusOK, trending, nil)
}

// Create godoc
// @Summary Publish a random school post
// @Description Unknown authors post as "Anonymous Student".
// @Tags Social
// @Accept json
// @Produce json
// @Param payload body CreatePostRequest true "Author"
// @Success 201 {object} response.Envelope
// @Router /posts [post]
func (h *SocialHandler) Create(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid post payload"))
		return
	}
	post, err := h.social.CreatePost(c.Request.Context(), req.Author)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, post)
}

// CreateCasual godoc
// @Summary Publish a casual post for a student
// @Tags Social
// @Produce json
// @Param id path int true "Student ID"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/posts [post]
func (h *SocialHandler) CreateCasual(c *gin.Context) {
	id, err := studentIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	post, err := h.social.CreateCasualPost(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, post)
}

// Analyze godoc
// @Summary Social activity analysis
// @Tags Social
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/social [get]
func (h *SocialHandler) Analyze(c *gin.Context) {
	id, err := studentIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	analysis, err := h.social.Analyze(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analysis, nil)
}
