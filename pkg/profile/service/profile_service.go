package service

import (
	"context"
	"io"

	"greenhouse/entities"
)

type UpdateProfileInput struct {
	Name     *string `json:"name"`
	Gender   *string `json:"gender"`
	Mobile   *string `json:"mobile"`
	Location *string `json:"location"`
}

type Image struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ProfileService interface {
	Get(ctx context.Context, uid string) (*entities.Profile, error)
	Update(ctx context.Context, uid string, in UpdateProfileInput) (*entities.Profile, error)
	UploadImage(ctx context.Context, uid string, img Image) (*entities.Profile, error)
	// Location is the profile location or "" when none is set.
	Location(ctx context.Context, uid string) string
}
