package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every gradebook handler for route registration.
type Handlers struct {
	Students   *StudentHandler
	Grades     *GradeHandler
	Social     *SocialHandler
	Statistics *StatisticsHandler
	Data       *DataHandler
	Exports    *ExportHandler
	Auth       *AuthHandler
	Metrics    *MetricsHandler
}

// MutationGuard returns the middleware chain applied to a mutating route.
type MutationGuard func(action string) []gin.HandlerFunc

// RegisterRoutes mounts the gradebook API on the given group. Mutating routes are wrapped by guard.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, guard MutationGuard) {
	if guard == nil {
		guard = func(string) []gin.HandlerFunc { return nil }
	}
	mutate := func(action string, handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(guard(action), handler)
	}

	if h.Auth != nil {
		api.POST("/auth/token", h.Auth.Token)
	}

	students := api.Group("/students")
	students.GET("", h.Students.List)
	students.GET("/search", h.Students.Search)
	students.POST("", mutate("student.create", h.Students.Create)...)
	students.GET("/:id", h.Students.Get)
	students.GET("/:id/report", h.Students.Report)
	students.POST("/:id/grades", mutate("grade.record", h.Grades.Record)...)
	students.GET("/:id/grades", h.Grades.Summary)
	students.POST("/:id/posts", mutate("post.casual", h.Social.CreateCasual)...)
	students.GET("/:id/social", h.Social.Analyze)

	api.GET("/grades/weights", h.Grades.Weights)

	posts := api.Group("/posts")
	posts.GET("/recent", h.Social.Recent)
	posts.GET("/trending", h.Social.Trending)
	posts.POST("", mutate("post.create", h.Social.Create)...)

	api.GET("/statistics", h.Statistics.Class)
	api.GET("/statistics/report", h.Statistics.Report)

	data := api.Group("/data")
	data.POST("/save", mutate("data.save", h.Data.Save)...)
	data.POST("/load", mutate("data.load", h.Data.Load)...)
	data.POST("/sample", mutate("data.sample", h.Data.Sample)...)

	api.GET("/exports/roster", h.Exports.Roster)

	if h.Metrics != nil {
		api.GET("/metrics/system", h.Metrics.System)
	}
}
