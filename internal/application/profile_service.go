package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-directory/internal/domain/entity"
	repo "github.com/oksasatya/user-directory/internal/domain/repository"
	"github.com/oksasatya/user-directory/internal/infrastructure/storage"
	"github.com/oksasatya/user-directory/internal/metrics"
	"github.com/oksasatya/user-directory/pkg/validation"
)

// ProfilePageSize is the fixed listing page size.
const ProfilePageSize = 10

const dateLayout = "2006-01-02"

type ProfileService struct {
	Repo     repo.ProfileRepository
	Index    repo.ProfileIndex // optional
	Avatars  storage.AvatarStorage
	Location *time.Location
	Logger   *logrus.Logger
}

func NewProfileService(r repo.ProfileRepository, index repo.ProfileIndex, avatars storage.AvatarStorage, loc *time.Location, logger *logrus.Logger) *ProfileService {
	if loc == nil {
		loc = time.UTC
	}
	return &ProfileService{Repo: r, Index: index, Avatars: avatars, Location: loc, Logger: logger}
}

// ProfileListInput is the raw listing query.
type ProfileListInput struct {
	Search   string
	DateFrom string
	DateTo   string
	Page     int
}

// ParseFilter turns the raw query into a filter. Malformed dates are left
// out of the filter and reported as warnings.
func (s *ProfileService) ParseFilter(in ProfileListInput) (repo.ProfileFilter, validation.FieldErrors) {
	var (
		f        = repo.ProfileFilter{Search: strings.TrimSpace(in.Search)}
		warnings validation.FieldErrors
	)
	if v := strings.TrimSpace(in.DateFrom); v != "" {
		if d, err := time.ParseInLocation(dateLayout, v, s.Location); err == nil {
			f.DateFrom = &d
		} else {
			warnings.Add("date_from", "date", "Invalid date, expected YYYY-MM-DD. The filter was ignored.")
		}
	}
	if v := strings.TrimSpace(in.DateTo); v != "" {
		if d, err := time.ParseInLocation(dateLayout, v, s.Location); err == nil {
			end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, s.Location)
			f.DateTo = &end
		} else {
			warnings.Add("date_to", "date", "Invalid date, expected YYYY-MM-DD. The filter was ignored.")
		}
	}
	return f, warnings
}

func (s *ProfileService) List(ctx context.Context, in ProfileListInput) (entity.PageResult[entity.UserProfile], validation.FieldErrors, error) {
	f, warnings := s.ParseFilter(in)
	page := entity.ClampPage(in.Page, ProfilePageSize)
	offset := entity.Offset(page, ProfilePageSize)

	var (
		items []entity.UserProfile
		total int
		err   error
	)
	if s.Index != nil {
		items, total, err = s.Index.Search(ctx, f, offset, ProfilePageSize)
		if err != nil {
			s.Logger.WithError(err).Warn("profile index search failed, falling back to store")
		}
	}
	if s.Index == nil || err != nil {
		items, total, err = s.Repo.List(ctx, f, offset, ProfilePageSize)
		if err != nil {
			return entity.PageResult[entity.UserProfile]{}, warnings, fmt.Errorf("list profiles: %w", err)
		}
	}
	return entity.NewPageResult(items, total, page, ProfilePageSize), warnings, nil
}

func (s *ProfileService) Get(ctx context.Context, id int64) (*entity.UserProfile, error) {
	return s.Repo.GetByID(ctx, id)
}

// ProfileInput is the profile form. Age stays a string so non-numeric input
// can be reported instead of silently dropped.
type ProfileInput struct {
	Name  string `form:"user[name]" validate:"required,min=2,max=100"`
	Email string `form:"user[email]" validate:"required,email,max=150"`
	Age   string `form:"user[age]"`
}

// ProfileInputFrom pre-fills the form from a stored profile.
func ProfileInputFrom(p *entity.UserProfile) ProfileInput {
	in := ProfileInput{Name: p.Name, Email: p.Email}
	if p.Age != nil {
		in.Age = strconv.Itoa(*p.Age)
	}
	return in
}

// ValidateProfile checks the form and returns the parsed age.
func ValidateProfile(in *ProfileInput) (*int, validation.FieldErrors) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Age = strings.TrimSpace(in.Age)

	errs := validation.Struct(in)
	if in.Age == "" {
		return nil, errs
	}
	age, err := strconv.Atoi(in.Age)
	switch {
	case err != nil:
		errs.Add("user[age]", "number", "Age must be a number.")
	case age <= 0:
		errs.Add("user[age]", "gt", "Age must be a positive number.")
	case age > 150:
		errs.Add("user[age]", "lte", "Age must be less than or equal to 150.")
	default:
		return &age, errs
	}
	return nil, errs
}

// storeAvatar validates and writes an upload, returning the stored name.
func (s *ProfileService) storeAvatar(ctx context.Context, up *AvatarUpload) (string, error) {
	checked, err := ValidateAvatar(up)
	if err != nil {
		if errors.Is(err, ErrAvatarRejected) {
			metrics.AvatarUploadsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.AvatarUploadsTotal.WithLabelValues("failed").Inc()
		}
		return "", err
	}
	name := SafeAvatarName(up.Filename, checked.Extension)
	r, err := up.Open()
	if err != nil {
		metrics.AvatarUploadsTotal.WithLabelValues("failed").Inc()
		return "", &AvatarError{Message: msgAvatarUpload, Err: fmt.Errorf("%w: %v", ErrAvatarStore, err)}
	}
	defer func() { _ = r.Close() }()
	if err := s.Avatars.Save(ctx, name, r, up.Size, checked.ContentType); err != nil {
		s.Logger.WithError(err).WithField("file", name).Error("avatar write failed")
		metrics.AvatarUploadsTotal.WithLabelValues("failed").Inc()
		return "", &AvatarError{Message: msgAvatarUpload, Err: fmt.Errorf("%w: %v", ErrAvatarStore, err)}
	}
	metrics.AvatarUploadsTotal.WithLabelValues("stored").Inc()
	return name, nil
}

// Create validates in, stores the avatar if any, then persists. Nothing is
// persisted when validation or the avatar write fails, and the stored file is
// removed again when the insert fails.
func (s *ProfileService) Create(ctx context.Context, in ProfileInput, avatar *AvatarUpload) (*entity.UserProfile, error) {
	age, errs := ValidateProfile(&in)
	if len(errs) > 0 {
		return nil, &FormError{MessageID: "form.invalid", Fields: errs}
	}
	p := &entity.UserProfile{Name: in.Name, Email: in.Email, Age: age}
	if avatar != nil {
		name, err := s.storeAvatar(ctx, avatar)
		if err != nil {
			return nil, err
		}
		p.Avatar = name
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		if p.Avatar != "" {
			s.removeAvatar(ctx, p.Avatar)
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	s.syncIndex(ctx, p)
	return p, nil
}

// Update applies in to profile id. The stored profile, including its avatar,
// is left unchanged when validation or the avatar write fails.
func (s *ProfileService) Update(ctx context.Context, id int64, in ProfileInput, avatar *AvatarUpload) (*entity.UserProfile, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	age, errs := ValidateProfile(&in)
	if len(errs) > 0 {
		return p, &FormError{MessageID: "form.invalid", Fields: errs}
	}

	oldAvatar := p.Avatar
	newAvatar := oldAvatar
	if avatar != nil {
		name, err := s.storeAvatar(ctx, avatar)
		if err != nil {
			return p, err
		}
		newAvatar = name
	}

	updated := *p
	updated.Name, updated.Email, updated.Age, updated.Avatar = in.Name, in.Email, age, newAvatar
	if err := s.Repo.Update(ctx, &updated); err != nil {
		if newAvatar != oldAvatar {
			s.removeAvatar(ctx, newAvatar)
		}
		return p, fmt.Errorf("update profile: %w", err)
	}
	if oldAvatar != "" && oldAvatar != newAvatar {
		s.removeAvatar(ctx, oldAvatar)
	}
	s.syncIndex(ctx, &updated)
	return &updated, nil
}

// Delete removes a profile and returns it so callers can name it.
func (s *ProfileService) Delete(ctx context.Context, id int64) (*entity.UserProfile, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete profile: %w", err)
	}
	if p.Avatar != "" {
		s.removeAvatar(ctx, p.Avatar)
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("profile_id", id).Warn("profile index remove failed")
		}
	}
	return p, nil
}

// AvatarURL is the display address of a stored avatar, or "".
func (s *ProfileService) AvatarURL(name string) string {
	if name == "" || s.Avatars == nil {
		return ""
	}
	return s.Avatars.URL(name)
}

func (s *ProfileService) removeAvatar(ctx context.Context, name string) {
	if err := s.Avatars.Delete(ctx, name); err != nil {
		s.Logger.WithError(err).WithField("file", name).Warn("avatar cleanup failed")
	}
}

func (s *ProfileService) syncIndex(ctx context.Context, p *entity.UserProfile) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, p); err != nil {
		s.Logger.WithError(err).WithField("profile_id", p.ID).Warn("profile index update failed")
	}
}

const reindexBatch = 100

// Reindex copies every stored profile into the search index. It stops at
// the first failure and reports how many profiles were written.
func (s *ProfileService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, ErrIndexDisabled
	}
	done := 0
	for offset := 0; ; offset += reindexBatch {
		items, total, err := s.Repo.List(ctx, repo.ProfileFilter{}, offset, reindexBatch)
		if err != nil {
			return done, fmt.Errorf("list profiles: %w", err)
		}
		for i := range items {
			if err := s.Index.Index(ctx, &items[i]); err != nil {
				return done, fmt.Errorf("index profile %d: %w", items[i].ID, err)
			}
			done++
		}
		if len(items) < reindexBatch || offset+len(items) >= total {
			break
		}
	}
	s.Logger.WithField("profiles", done).Info("profile index rebuilt")
	return done, nil
}

// IsNotFound reports whether err means the profile does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repo.ErrNotFound)
}
