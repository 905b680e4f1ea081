package upload

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"peterpainter/internal/pkg/response"
)

// Handler serves stored blobs back over HTTP.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Serve godoc
// @Summary Fetch an uploaded image
// @Tags Uploads
// @Produce octet-stream
// @Param filepath path string true "Blob name"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]interface{}
// @Router /uploads/{filepath} [get]
func (h *Handler) Serve(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filepath"), "/")

	f, info, err := h.store.Open(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidName) {
			response.Message(c, http.StatusNotFound, "Not found")
			return
		}
		response.RecordFailure(c, "serve", fmt.Errorf("open %s: %w", name, err))
		response.Message(c, http.StatusInternalServerError, "Failed to read file")
		return
	}
	defer f.Close()

	if info.ContentType != "" {
		c.Header("Content-Type", info.ContentType)
	}
	http.ServeContent(c.Writer, c.Request, info.Name, info.ModTime, f)
}
