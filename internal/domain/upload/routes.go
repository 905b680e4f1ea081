package upload

import "github.com/gin-gonic/gin"

// RegisterRoutes exposes blobs under /uploads so stored image paths resolve directly.
func RegisterRoutes(r gin.IRoutes, h *Handler) {
	r.GET(URLPathPrefix+"/*filepath", h.Serve)
	r.HEAD(URLPathPrefix+"/*filepath", h.Serve)
}
