package httpapi

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/petiteannonce/server/internal/server/models"
	"github.com/petiteannonce/server/internal/server/services"
)

// phonePattern is the national contact-number format announces must carry.
var phonePattern = regexp.MustCompile(`^\+237 6\d{2} \d{2} \d{2} \d{2}$`)

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	// bcrypt rejects inputs over 72 bytes
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type uploadedImage struct {
	URL         string  `json:"url" validate:"required,url"`
	Description *string `json:"description,omitempty"`
}

type createAnnounceRequest struct {
	Title          string          `json:"title" validate:"required,max=100"`
	Type           string          `json:"type" validate:"required,oneof=SALE RENTAL SERVICE"`
	Price          *int64          `json:"price" validate:"omitempty,gte=0"`
	Description    string          `json:"description" validate:"required,max=1000"`
	City           string          `json:"city" validate:"required,oneof=YAOUNDE DOUALA DSCHANG"`
	District       *string         `json:"district"`
	Phone          string          `json:"phone" validate:"required,cmphone"`
	Email          *string         `json:"email" validate:"omitempty,email"`
	UploadedImages []uploadedImage `json:"uploadedImages" validate:"omitempty,dive"`
}

type updateAnnounceRequest struct {
	Title          *string         `json:"title" validate:"omitempty,max=100"`
	Type           *string         `json:"type" validate:"omitempty,oneof=SALE RENTAL SERVICE"`
	Price          *int64          `json:"price" validate:"omitempty,gte=0"`
	Description    *string         `json:"description" validate:"omitempty,max=1000"`
	City           *string         `json:"city" validate:"omitempty,oneof=YAOUNDE DOUALA DSCHANG"`
	District       *string         `json:"district"`
	Phone          *string         `json:"phone" validate:"omitempty,cmphone"`
	Email          *string         `json:"email" validate:"omitempty,email"`
	UploadedImages []uploadedImage `json:"uploadedImages" validate:"omitempty,dive"`
}

func newValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("cmphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// validationMessages flattens validator errors into field-level messages.
func validationMessages(err error) []string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
		}
	}
	return msgs
}

func imageURLs(images []uploadedImage) []string {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.URL)
	}
	return urls
}

func (req *createAnnounceRequest) toInput() *services.AnnounceInput {
	return &services.AnnounceInput{
		Title:       req.Title,
		Category:    models.Category(req.Type),
		Price:       req.Price,
		Description: req.Description,
		City:        models.City(req.City),
		District:    req.District,
		Phone:       req.Phone,
		Email:       req.Email,
		Images:      imageURLs(req.UploadedImages),
	}
}

func (req *updateAnnounceRequest) toPatch() *services.AnnouncePatch {
	patch := &services.AnnouncePatch{
		Title:       req.Title,
		Price:       req.Price,
		Description: req.Description,
		District:    req.District,
		Phone:       req.Phone,
		Email:       req.Email,
	}
	if req.Type != nil {
		c := models.Category(*req.Type)
		patch.Category = &c
	}
	if req.City != nil {
		c := models.City(*req.City)
		patch.City = &c
	}
	if req.UploadedImages != nil {
		patch.Images = imageURLs(req.UploadedImages)
	}
	return patch
}
