package painting

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"peterpainter/internal/pkg/response"
)

const (
	msgUploaded      = "Painting uploaded successfully"
	msgMissingFields = "Missing required fields: title, price, or image"
	msgInvalidPrice  = "Invalid price"
	msgInvalidForm   = "Invalid form data"
	msgImageFailed   = "Failed to store image"
	msgInsertFailed  = "Database insert failed"
	msgFetchFailed   = "Failed to fetch paintings"

	// Sent instead of the raw store error, which is only logged.
	errTextInternal = "internal error"
)

type Handler struct {
	service   *Service
	maxMemory int64
}

func NewHandler(service *Service, maxMemory int64) *Handler {
	if maxMemory <= 0 {
		maxMemory = 32 << 20
	}
	return &Handler{service: service, maxMemory: maxMemory}
}

// Upload godoc
// @Summary Upload a painting
// @Description Stores the image and creates a painting record. Currency defaults to KES.
// @Tags Paintings
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param price formData number true "Price"
// @Param currency formData string false "Currency code"
// @Param description formData string false "Description"
// @Param image formData file true "Painting image"
// @Success 200 {object} map[string]interface{}
// @Failure 400,500 {object} map[string]interface{}
// @Router /upload [post]
func (h *Handler) Upload(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		response.Message(c, http.StatusBadRequest, msgInvalidForm)
		return
	}

	in := UploadInput{
		Title:       c.PostForm("title"),
		Price:       c.PostForm("price"),
		Currency:    c.PostForm("currency"),
		Description: c.PostForm("description"),
		Image:       formFile(c.Request.MultipartForm, "image"),
	}

	p, err := h.service.Upload(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			response.Message(c, http.StatusBadRequest, msgMissingFields)
		case errors.Is(err, ErrInvalidPrice):
			response.Message(c, http.StatusBadRequest, msgInvalidPrice)
		case errors.Is(err, ErrImageStore):
			response.RecordFailure(c, "image", err)
			response.Message(c, http.StatusInternalServerError, msgImageFailed)
		default:
			response.RecordFailure(c, "insert", err)
			response.MessageWithError(c, http.StatusInternalServerError, msgInsertFailed, errTextInternal)
		}
		return
	}

	log.Printf("painting_created id=%d image_path=%s", p.ID, p.ImagePath)
	response.Message(c, http.StatusOK, msgUploaded)
}

// List godoc
// @Summary List paintings
// @Description All paintings, most recently uploaded first.
// @Tags Paintings
// @Produce json
// @Success 200 {array} Painting
// @Failure 500 {object} map[string]interface{}
// @Router /paintings [get]
func (h *Handler) List(c *gin.Context) {
	paintings, err := h.service.List(c.Request.Context())
	if err != nil {
		response.RecordFailure(c, "list", err)
		response.Message(c, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	response.JSON(c, http.StatusOK, paintings)
}

func formFile(form *multipart.Form, field string) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	if files := form.File[field]; len(files) > 0 {
		return files[0]
	}
	return nil
}
