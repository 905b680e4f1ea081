package painting

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/upload", h.Upload)
	r.GET("/paintings", h.List)
}
