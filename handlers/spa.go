package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// NoRoute answers unmatched routes. Browser navigations get the single-page
// app shell from staticDir so client-side routes survive a reload; everything
// else gets a JSON 404.
func NoRoute(staticDir string) gin.HandlerFunc {
	index := ""
	if staticDir != "" {
		index = filepath.Join(staticDir, "index.html")
	}

	return func(c *gin.Context) {
		if index != "" && c.Request.Method == http.MethodGet && strings.Contains(c.GetHeader("Accept"), "text/html") {
			if _, err := os.Stat(index); err == nil {
				c.File(index)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage})
	}
}
