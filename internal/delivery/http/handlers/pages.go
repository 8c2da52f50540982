package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the static pages.
type PageHandler struct {
	content ContentService
}

func NewPageHandler(content ContentService) *PageHandler {
	return &PageHandler{content: content}
}

func (h *PageHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", pageView{})
}

func (h *PageHandler) Lessons(c *gin.Context) {
	c.HTML(http.StatusOK, "lessons.html", lessonsView{
		Title:   "Lessons",
		Modules: h.content.GetModules(c.Request.Context()),
	})
}

func (h *PageHandler) NotFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, "Page not found", "The page you are looking for does not exist.")
}
