package transport

import (
	"github.com/gin-gonic/gin"
)

// All JSON responses share one envelope so clients branch on a single
// success flag.

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}
