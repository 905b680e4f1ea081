package server

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"peterpainter/internal/domain/painting"
	"peterpainter/internal/domain/upload"
	"peterpainter/internal/middleware"
)

type Deps struct {
	DB              *gorm.DB
	Blobs           upload.Store
	PublicDir       string
	MaxUploadMemory int64
	AccessLog       bool
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	if d.MaxUploadMemory > 0 {
		r.MaxMultipartMemory = d.MaxUploadMemory
	}

	if d.AccessLog {
		r.Use(gin.Logger())
	}
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS())

	paintingService := painting.NewService(painting.NewRepository(d.DB), d.Blobs)
	paintingHandler := painting.NewHandler(paintingService, d.MaxUploadMemory)
	uploadHandler := upload.NewHandler(d.Blobs)
	healthHandler := NewHealthHandler(d.DB)

	r.GET("/health", healthHandler.Check)
	paintingHandler.RegisterRoutes(r)
	upload.RegisterRoutes(r, uploadHandler)

	// Anything else is looked up in the public asset directory.
	r.NoRoute(publicFiles(d.PublicDir))

	return r
}
