package handlers

import (
	"net/http"

	"homefix/utils"

	"github.com/gin-gonic/gin"
)

// Home renders the landing page.
func Home(c *gin.Context) {
	render(c, http.StatusOK, "home.html", gin.H{"Title": "Home"})
}

// Health reports the last dependency probe. It is 200 as long as the process
// serves requests; the probe result is informational.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "Hi, I'm HomeFix",
		"redis":     status.Redis,
		"backend":   status.Backend,
		"checkedAt": status.CheckedAt,
	})
}

// NotFound renders the 404 page.
func NotFound(c *gin.Context) {
	if _, ok := c.Get(utils.ContextSession); !ok {
		c.String(http.StatusNotFound, "404 page not found")
		return
	}
	render(c, http.StatusNotFound, "error.html", gin.H{
		"Title":   "Not Found",
		"Heading": "Page not found",
		"Message": "The page you are looking for does not exist.",
	})
}
