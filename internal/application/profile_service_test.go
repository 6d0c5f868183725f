package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-directory/internal/domain/entity"
	repo "github.com/oksasatya/user-directory/internal/domain/repository"
)

// brokenAvatars fails every write.
type brokenAvatars struct {
	deleted []string
}

func (b *brokenAvatars) Save(context.Context, string, io.Reader, int64, string) error {
	return errors.New("bucket unavailable")
}

func (b *brokenAvatars) Delete(_ context.Context, name string) error {
	b.deleted = append(b.deleted, name)
	return nil
}

func (b *brokenAvatars) URL(name string) string { return "/uploads/" + name }

// flakyProfiles records list offsets and can fail writes.
type flakyProfiles struct {
	repo.ProfileRepository
	failWrites bool
	offsets    []int
}

func (r *flakyProfiles) Create(ctx context.Context, p *entity.UserProfile) error {
	if r.failWrites {
		return errors.New("connection reset")
	}
	return r.ProfileRepository.Create(ctx, p)
}

func (r *flakyProfiles) Update(ctx context.Context, p *entity.UserProfile) error {
	if r.failWrites {
		return errors.New("connection reset")
	}
	return r.ProfileRepository.Update(ctx, p)
}

func (r *flakyProfiles) List(ctx context.Context, f repo.ProfileFilter, offset, limit int) ([]entity.UserProfile, int, error) {
	r.offsets = append(r.offsets, offset)
	return r.ProfileRepository.List(ctx, f, offset, limit)
}

func TestProfileService_CreateWithAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.profiles.Create(ctx, ProfileInput{Name: "Ann Lee", Email: "ann@example.com", Age: "30"}, fakeUpload("face.png", pngMagic, 2<<20))
	require.NoError(t, err)
	require.NotNil(t, p.Age)
	assert.Equal(t, 30, *p.Age)
	assert.Regexp(t, `^face_[0-9a-f]{13}\.png$`, p.Avatar)
	assert.FileExists(t, filepath.Join(f.avatars.Dir, p.Avatar))
	assert.Equal(t, "/uploads/"+p.Avatar, f.profiles.AvatarURL(p.Avatar))
}

func TestProfileService_CreateRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    ProfileInput
		field string
	}{
		{"short name", ProfileInput{Name: "A", Email: "a@example.com"}, "user[name]"},
		{"bad email", ProfileInput{Name: "Ann", Email: "nope"}, "user[email]"},
		{"age not a number", ProfileInput{Name: "Ann", Email: "a@example.com", Age: "ten"}, "user[age]"},
		{"age zero", ProfileInput{Name: "Ann", Email: "a@example.com", Age: "0"}, "user[age]"},
		{"age too high", ProfileInput{Name: "Ann", Email: "a@example.com", Age: "151"}, "user[age]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.profiles.Create(ctx, tt.in, nil)
			var ferr *FormError
			require.ErrorAs(t, err, &ferr)
			assert.True(t, ferr.Fields.Has(tt.field), "fields: %v", ferr.Fields.Map())
		})
	}

	page, _, err := f.profiles.List(ctx, ProfileListInput{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestProfileService_OversizedAvatarMutatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orig, err := f.profiles.Create(ctx, ProfileInput{Name: "Ann", Email: "ann@example.com"}, fakeUpload("a.png", pngMagic, 1024))
	require.NoError(t, err)

	_, err = f.profiles.Update(ctx, orig.ID, ProfileInput{Name: "Renamed", Email: "new@example.com"}, fakeUpload("big.jpg", jpegMagic, 6<<20))
	var aerr *AvatarError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "File size must be less than 5MB.", aerr.Message)

	got, err := f.profiles.Get(ctx, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, orig.Avatar, got.Avatar)

	entries, err := os.ReadDir(f.avatars.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no new file may be written")

	_, err = f.profiles.Create(ctx, ProfileInput{Name: "Bob", Email: "bob@example.com"}, fakeUpload("big.jpg", jpegMagic, 6<<20))
	require.Error(t, err)
	page, _, err := f.profiles.List(ctx, ProfileListInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestProfileService_UpdateReplacesAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.profiles.Create(ctx, ProfileInput{Name: "Ann", Email: "ann@example.com"}, fakeUpload("a.png", pngMagic, 1024))
	require.NoError(t, err)
	old := p.Avatar

	upd, err := f.profiles.Update(ctx, p.ID, ProfileInput{Name: "Ann B", Email: "ann@example.com", Age: "41"}, fakeUpload("b.jpg", jpegMagic, 2048))
	require.NoError(t, err)
	assert.Equal(t, "Ann B", upd.Name)
	assert.NotEqual(t, old, upd.Avatar)
	assert.NoFileExists(t, filepath.Join(f.avatars.Dir, old))
	assert.FileExists(t, filepath.Join(f.avatars.Dir, upd.Avatar))
	assert.Equal(t, p.CreatedAt, upd.CreatedAt)

	kept, err := f.profiles.Update(ctx, p.ID, ProfileInput{Name: "Ann C", Email: "ann@example.com"}, nil)
	require.NoError(t, err)
	assert.Equal(t, upd.Avatar, kept.Avatar)
	assert.Nil(t, kept.Age)
}

func TestProfileService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.profiles.Create(ctx, ProfileInput{Name: "Ann", Email: "ann@example.com"}, fakeUpload("a.png", pngMagic, 1024))
	require.NoError(t, err)

	deleted, err := f.profiles.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", deleted.Name)
	assert.NoFileExists(t, filepath.Join(f.avatars.Dir, p.Avatar))

	_, err = f.profiles.Delete(ctx, p.ID)
	assert.True(t, IsNotFound(err))
}

func TestProfileService_ListFiltersAndPages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	f.store.Profiles.WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * 24 * time.Hour)
	})
	for i := 1; i <= 12; i++ {
		_, err := f.profiles.Create(ctx, ProfileInput{Name: fmt.Sprintf("Person %02d", i), Email: fmt.Sprintf("p%02d@example.com", i)}, nil)
		require.NoError(t, err)
	}

	page, warnings, err := f.profiles.List(ctx, ProfileListInput{Page: 1})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 12, page.Total)
	assert.Len(t, page.Items, ProfilePageSize)
	assert.Equal(t, "Person 12", page.Items[0].Name, "newest first")

	page, _, err = f.profiles.List(ctx, ProfileListInput{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	// Person 03 was created on 2024-03-04.
	page, _, err = f.profiles.List(ctx, ProfileListInput{DateFrom: "2024-03-04", DateTo: "2024-03-04"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Person 03", page.Items[0].Name)

	page, _, err = f.profiles.List(ctx, ProfileListInput{Search: "P1"})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total, "matches p10, p11, p12 by email")

	page, warnings, err = f.profiles.List(ctx, ProfileListInput{DateFrom: "03/04/2024", DateTo: "2024-13-45"})
	require.NoError(t, err)
	assert.Equal(t, 12, page.Total, "malformed dates are ignored")
	assert.True(t, warnings.Has("date_from"))
	assert.True(t, warnings.Has("date_to"))

	spy := &flakyProfiles{ProfileRepository: f.store.Profiles}
	f.profiles.Repo = spy
	for _, n := range []int{1_000_000_000_000_000_000, math.MaxInt} {
		page, _, err = f.profiles.List(ctx, ProfileListInput{Page: n})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, 12, page.Total)
		assert.False(t, page.HasNext())
	}
	require.Len(t, spy.offsets, 2)
	for _, off := range spy.offsets {
		assert.GreaterOrEqual(t, off, 0)
	}
}

func TestProfileService_AvatarWriteFailureMutatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orig, err := f.profiles.Create(ctx, ProfileInput{Name: "Ann", Email: "ann@example.com"}, fakeUpload("a.png", pngMagic, 1024))
	require.NoError(t, err)

	f.profiles.Avatars = &brokenAvatars{}

	_, err = f.profiles.Update(ctx, orig.ID, ProfileInput{Name: "Renamed", Email: "new@example.com"}, fakeUpload("b.png", pngMagic, 1024))
	var aerr *AvatarError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, msgAvatarUpload, aerr.Message)
	assert.ErrorIs(t, err, ErrAvatarStore)

	got, err := f.profiles.Get(ctx, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, "ann@example.com", got.Email)
	assert.Equal(t, orig.Avatar, got.Avatar)

	_, err = f.profiles.Create(ctx, ProfileInput{Name: "Bob", Email: "bob@example.com"}, fakeUpload("b.png", pngMagic, 1024))
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, msgAvatarUpload, aerr.Message)

	page, _, err := f.profiles.List(ctx, ProfileListInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestProfileService_StoreFailureRemovesNewAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orig, err := f.profiles.Create(ctx, ProfileInput{Name: "Ann", Email: "ann@example.com"}, fakeUpload("a.png", pngMagic, 1024))
	require.NoError(t, err)

	f.profiles.Repo = &flakyProfiles{ProfileRepository: f.store.Profiles, failWrites: true}

	_, err = f.profiles.Create(ctx, ProfileInput{Name: "Bob", Email: "bob@example.com"}, fakeUpload("b.png", pngMagic, 1024))
	require.Error(t, err)

	_, err = f.profiles.Update(ctx, orig.ID, ProfileInput{Name: "Ann B", Email: "ann@example.com"}, fakeUpload("c.jpg", jpegMagic, 1024))
	require.Error(t, err)

	entries, err := os.ReadDir(f.avatars.Dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "only the original avatar may remain")
	assert.Equal(t, orig.Avatar, entries[0].Name())

	got, err := f.store.Profiles.GetByID(ctx, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, orig.Avatar, got.Avatar)
}

// mapIndex is an in-process search index.
type mapIndex struct {
	docs    map[int64]entity.UserProfile
	failAt  int
	indexed int
}

func (x *mapIndex) Index(_ context.Context, p *entity.UserProfile) error {
	x.indexed++
	if x.failAt > 0 && x.indexed == x.failAt {
		return errors.New("index closed")
	}
	x.docs[p.ID] = *p
	return nil
}

func (x *mapIndex) Remove(_ context.Context, id int64) error {
	delete(x.docs, id)
	return nil
}

func (x *mapIndex) Search(context.Context, repo.ProfileFilter, int, int) ([]entity.UserProfile, int, error) {
	return nil, 0, errors.New("not used")
}

func TestProfileService_Reindex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.profiles.Reindex(ctx)
	assert.ErrorIs(t, err, ErrIndexDisabled)

	for i := 0; i < 105; i++ {
		require.NoError(t, f.store.Profiles.Create(ctx, &entity.UserProfile{Name: fmt.Sprintf("P%03d", i), Email: fmt.Sprintf("p%03d@example.com", i)}))
	}

	idx := &mapIndex{docs: map[int64]entity.UserProfile{}}
	f.profiles.Index = idx
	n, err := f.profiles.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 105, n)
	assert.Len(t, idx.docs, 105)

	broken := &mapIndex{docs: map[int64]entity.UserProfile{}, failAt: 3}
	f.profiles.Index = broken
	n, err = f.profiles.Reindex(ctx)
	require.Error(t, err)
	assert.Equal(t, 2, n)
}
