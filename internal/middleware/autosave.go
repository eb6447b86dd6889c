package middleware

import "github.com/gin-gonic/gin"

// SaveRequester schedules a background save.
type SaveRequester interface {
	Request(reason string)
}

// Autosave schedules a save after the wrapped mutation succeeds.
func Autosave(requester SaveRequester, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if requester == nil || c.Writer.Status() >= 400 {
			return
		}
		requester.Request(action)
	}
}
