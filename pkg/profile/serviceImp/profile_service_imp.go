package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"greenhouse/entities"
	"greenhouse/pkg/apierr"
	repo "greenhouse/pkg/profile/repository"
	"greenhouse/pkg/profile/service"
	"greenhouse/pkg/storage"
)

const MaxImageBytes = 5 << 20

type profileSvc struct {
	r     repo.ProfileRepository
	store storage.ObjectStore
	log   *zap.Logger
}

func NewProfileService(r repo.ProfileRepository, store storage.ObjectStore, log *zap.Logger) service.ProfileService {
	return &profileSvc{r: r, store: store, log: log.Named("profile")}
}

// load returns the stored profile or an empty one for a user that has none yet.
func (s *profileSvc) load(ctx context.Context, uid string) (*entities.Profile, bool, error) {
	p, err := s.r.FindByID(ctx, uid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entities.Profile{ID: uid}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (s *profileSvc) persist(ctx context.Context, p *entities.Profile, exists bool) error {
	if exists {
		return s.r.Save(ctx, p)
	}
	return s.r.Create(ctx, p)
}

func (s *profileSvc) Get(ctx context.Context, uid string) (*entities.Profile, error) {
	p, _, err := s.load(ctx, uid)
	return p, err
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func validateUpdate(in *service.UpdateProfileInput) error {
	fe := apierr.FieldErrors{}
	for _, p := range []*string{in.Name, in.Gender, in.Mobile, in.Location} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	if in.Name != nil && len([]rune(*in.Name)) < 2 {
		fe.Add("name", "at least 2 characters")
	}
	if in.Mobile != nil && (len(*in.Mobile) != 10 || !allDigits(*in.Mobile)) {
		fe.Add("mobile", "must be exactly 10 digits")
	}
	if in.Location != nil && len([]rune(*in.Location)) < 5 {
		fe.Add("location", "at least 5 characters")
	}
	return fe.Err()
}

func (s *profileSvc) Update(ctx context.Context, uid string, in service.UpdateProfileInput) (*entities.Profile, error) {
	if err := validateUpdate(&in); err != nil {
		return nil, err
	}
	p, exists, err := s.load(ctx, uid)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Gender != nil {
		p.Gender = *in.Gender
	}
	if in.Mobile != nil {
		p.Mobile = *in.Mobile
	}
	if in.Location != nil {
		p.Location = *in.Location
	}
	if err := s.persist(ctx, p, exists); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profileSvc) UploadImage(ctx context.Context, uid string, img service.Image) (*entities.Profile, error) {
	fe := apierr.FieldErrors{}
	if !strings.HasPrefix(img.ContentType, "image/") {
		fe.Add("image", "must be an image")
	}
	if img.Size > MaxImageBytes {
		fe.Add("image", "must be 5MB or smaller")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	p, exists, err := s.load(ctx, uid)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(path.Ext(img.Filename))
	key := fmt.Sprintf("profiles/%s/%d%s", uid, time.Now().UnixNano(), ext)
	u, err := s.store.Put(ctx, key, img.ContentType, img.Body)
	if err != nil {
		s.log.Warn("image upload failed", zap.String("user", uid), zap.String("store", s.store.Name()), zap.Error(err))
		return nil, err
	}
	p.ProfileImageURL = u
	if err := s.persist(ctx, p, exists); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profileSvc) Location(ctx context.Context, uid string) string {
	if uid == "" {
		return ""
	}
	p, err := s.r.FindByID(ctx, uid)
	if err != nil {
		return ""
	}
	return p.Location
}
