package handlers

import "github.com/gin-gonic/gin"

// All endpoints answer with the same envelope so clients can branch on
// success before looking at data.
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}
