package painting

import (
	"context"
	"fmt"
	"log"
	"math"
	"mime/multipart"
	"strconv"
	"strings"

	"peterpainter/internal/domain/upload"
	"peterpainter/internal/pkg/validator"
)

// UploadInput is one submitted painting form. Image is nil when no file
// was attached.
type UploadInput struct {
	Title       string
	Price       string
	Currency    string
	Description string
	Image       *multipart.FileHeader
}

type uploadForm struct {
	Title     string `validate:"required"`
	Price     string `validate:"required"`
	ImagePath string `validate:"required"`
}

type Service struct {
	repo  Repository
	blobs upload.Store
}

func NewService(repo Repository, blobs upload.Store) *Service {
	return &Service{repo: repo, blobs: blobs}
}

// Upload stores the image first, then validates the form and inserts the
// record. The stored image is removed again if the record is not created.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*Painting, error) {
	var blob *upload.Blob
	if in.Image != nil {
		var err error
		blob, err = s.saveImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
	}

	form := uploadForm{
		Title: strings.TrimSpace(in.Title),
		Price: strings.TrimSpace(in.Price),
	}
	if blob != nil {
		form.ImagePath = blob.URLPath
	}

	if err := checkForm(form); err != nil {
		s.discard(ctx, blob)
		return nil, err
	}

	price, err := parsePrice(form.Price)
	if err != nil {
		s.discard(ctx, blob)
		return nil, err
	}

	currency := strings.TrimSpace(in.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}

	p := &Painting{
		Title:       form.Title,
		Price:       price,
		Currency:    currency,
		Description: in.Description,
		ImagePath:   form.ImagePath,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.discard(ctx, blob)
		return nil, fmt.Errorf("failed to save painting: %w", err)
	}

	return p, nil
}

// List returns every painting, most recently created first.
func (s *Service) List(ctx context.Context) ([]Painting, error) {
	paintings, err := s.repo.ListNewestFirst(ctx)
	if err != nil {
		return nil, err
	}
	if paintings == nil {
		paintings = []Painting{}
	}
	return paintings, nil
}

func (s *Service) saveImage(ctx context.Context, fh *multipart.FileHeader) (*upload.Blob, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", ErrImageStore, err)
	}
	defer file.Close()

	// A client that goes away must not leave a half-written image behind.
	blob, err := s.blobs.Save(context.WithoutCancel(ctx), fh.Filename, file, fh.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageStore, err)
	}
	return blob, nil
}

func (s *Service) discard(ctx context.Context, blob *upload.Blob) {
	if blob == nil {
		return
	}
	if err := s.blobs.Remove(context.WithoutCancel(ctx), blob.Name); err != nil {
		log.Printf("upload_cleanup_error name=%s error=%q", blob.Name, err.Error())
	}
}

func checkForm(form uploadForm) error {
	if fields := validator.Validate(form); fields != nil {
		return ErrMissingFields
	}
	return nil
}

// parsePrice accepts any finite decimal or exponent form, e.g. ".5" or "1e3".
func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, ErrInvalidPrice
	}
	return price, nil
}
