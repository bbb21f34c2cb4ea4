package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petiteannonce/server/internal/common"
	"github.com/petiteannonce/server/internal/server/models"
)

type fakeAnnounceRepo struct {
	createFn        func(ctx context.Context, a *models.Announce) (*models.Announce, error)
	getByIDFn       func(ctx context.Context, id int64) (*models.Announce, error)
	selectAllFn     func(ctx context.Context) ([]*models.Announce, error)
	selectByOwnerFn func(ctx context.Context, ownerID int64) ([]*models.Announce, error)
	updateFn        func(ctx context.Context, a *models.Announce) error
	deleteFn        func(ctx context.Context, id int64) error
}

func (f *fakeAnnounceRepo) Create(ctx context.Context, a *models.Announce) (*models.Announce, error) {
	return f.createFn(ctx, a)
}
func (f *fakeAnnounceRepo) GetByID(ctx context.Context, id int64) (*models.Announce, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeAnnounceRepo) SelectAll(ctx context.Context) ([]*models.Announce, error) {
	return f.selectAllFn(ctx)
}
func (f *fakeAnnounceRepo) SelectByOwner(ctx context.Context, ownerID int64) ([]*models.Announce, error) {
	return f.selectByOwnerFn(ctx, ownerID)
}
func (f *fakeAnnounceRepo) Update(ctx context.Context, a *models.Announce) error {
	return f.updateFn(ctx, a)
}
func (f *fakeAnnounceRepo) Delete(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

type fakeStore struct {
	uploadFn func(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
}

func (f *fakeStore) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	return f.uploadFn(ctx, key, contentType, body)
}

func newAnnounceServiceWithRepo(t *testing.T, repo *fakeAnnounceRepo, store *fakeStore) (*AnnounceService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	if store == nil {
		store = &fakeStore{
			uploadFn: func(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
				return "", errors.New("unexpected upload")
			},
		}
	}
	return NewAnnounceService(db, &fakeRepoManager{announces: repo}, store, newTestLogger()), mock
}

func validInput() *AnnounceInput {
	return &AnnounceInput{
		Title:       "Bike",
		Category:    models.CategorySale,
		Description: "Mountain bike",
		City:        models.CityDouala,
		Phone:       "+237 655 55 55 55",
	}
}

func TestAnnounceCreate_NoImage(t *testing.T) {
	var saved *models.Announce
	repo := &fakeAnnounceRepo{
		createFn: func(ctx context.Context, a *models.Announce) (*models.Announce, error) {
			saved = a
			a.ID = 5
			return a, nil
		},
	}
	s, _ := newAnnounceServiceWithRepo(t, repo, nil)

	a, err := s.Create(context.Background(), validInput(), 3, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), a.ID)

	require.NotNil(t, saved)
	assert.Equal(t, int64(3), saved.OwnerID)
	assert.Equal(t, []string{}, saved.Images)
}

func TestAnnounceCreate_WithUpload(t *testing.T) {
	var uploadedKey string
	store := &fakeStore{
		uploadFn: func(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
			uploadedKey = key
			assert.Equal(t, "image/jpeg", contentType)
			return "https://cdn/x.jpg", nil
		},
	}
	var saved *models.Announce
	repo := &fakeAnnounceRepo{
		createFn: func(ctx context.Context, a *models.Announce) (*models.Announce, error) {
			saved = a
			a.ID = 6
			return a, nil
		},
	}
	s, _ := newAnnounceServiceWithRepo(t, repo, store)

	upload := &ImageUpload{
		FileName:    "photo.jpg",
		ContentType: "image/jpeg",
		Body:        strings.NewReader("jpegdata"),
	}
	_, err := s.Create(context.Background(), validInput(), 3, upload)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(uploadedKey, ".jpg"))
	require.NotNil(t, saved)
	assert.Equal(t, []string{"https://cdn/x.jpg"}, saved.Images)
}

// A failed upload must abort creation before any row is written.
func TestAnnounceCreate_UploadFailureAborts(t *testing.T) {
	store := &fakeStore{
		uploadFn: func(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
			return "", errors.New("connection refused")
		},
	}
	created := false
	repo := &fakeAnnounceRepo{
		createFn: func(ctx context.Context, a *models.Announce) (*models.Announce, error) {
			created = true
			return a, nil
		},
	}
	s, _ := newAnnounceServiceWithRepo(t, repo, store)

	upload := &ImageUpload{FileName: "photo.jpg", ContentType: "image/jpeg", Body: strings.NewReader("x")}
	_, err := s.Create(context.Background(), validInput(), 3, upload)
	require.Error(t, err)
	assert.False(t, created)
}

func TestAnnounceGet_NotFound(t *testing.T) {
	repo := &fakeAnnounceRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.Announce, error) {
			return nil, common.ErrorNotFound
		},
	}
	s, _ := newAnnounceServiceWithRepo(t, repo, nil)

	_, err := s.Get(context.Background(), 99)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAnnounceUpdate_Success(t *testing.T) {
	existing := &models.Announce{ID: 5, Title: "Bike", Category: models.CategorySale,
		Description: "Mountain bike", City: models.CityDouala, Phone: "+237 655 55 55 55", OwnerID: 3}

	var updated *models.Announce
	repo := &fakeAnnounceRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.Announce, error) {
			return existing, nil
		},
		updateFn: func(ctx context.Context, a *models.Announce) error {
			updated = a
			return nil
		},
	}
	s, mock := newAnnounceServiceWithRepo(t, repo, nil)
	mock.ExpectBegin()
	mock.ExpectCommit()

	title := "Road bike"
	a, err := s.Update(context.Background(), 5, &AnnouncePatch{Title: &title}, 3)
	require.NoError(t, err)

	assert.Equal(t, "Road bike", a.Title)
	assert.Equal(t, "Mountain bike", a.Description)
	require.NotNil(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// An empty patch leaves every field as it was.
func TestAnnounceUpdate_EmptyPatch(t *testing.T) {
	existing := &models.Announce{ID: 5, Title: "Bike", Category: models.CategorySale,
		Description: "Mountain bike", City: models.CityDouala, Phone: "+237 655 55 55 55", OwnerID: 3}

	repo := &fakeAnnounceRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.Announce, error) {
			return existing, nil
		},
		updateFn: func(ctx context.Context, a *models.Announce) error { return nil },
	}
	s, mock := newAnnounceServiceWithRepo(t, repo, nil)
	mock.ExpectBegin()
	mock.ExpectCommit()

	a, err := s.Update(context.Background(), 5, &AnnouncePatch{}, 3)
	require.NoError(t, err)
	assert.Equal(t, "Bike", a.Title)
	assert.Equal(t, models.CityDouala, a.City)
}

// A non-owner gets ErrorForbidden and the record is never touched.
func TestAnnounceUpdate_Forbidden(t *testing.T) {
	repo := &fakeAnnounceRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.Announce, error) {
			return &models.Announce{ID: 5, OwnerID: 9}, nil
		},
		updateFn: func(ctx context.Context, a *models.Announce) error {
			t.Fatal("update must not be called")
			return nil
		},
	}
	s, mock := newAnnounceServiceWithRepo(t, repo, nil)
	mock.ExpectBegin()
	mock.ExpectRollback()

	title := "Hijacked"
	_, err := s.Update(context.Background(), 5, &AnnouncePatch{Title: &title}, 3)
	assert.ErrorIs(t, err, common.ErrorForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnounceUpdate_NotFound(t *testing.T) {
	repo := &fakeAnnounceRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.Announce, error) {
			return nil, common.ErrorNotFound
		},
	}
	s, mock := newAnnounceServiceWithRepo(t, repo, nil)
	mock.ExpectBegin()
	mock.ExpectRollback()

	title := "Anything"
	_, err := s.Update(context.Background(), 99, &AnnouncePatch{Title: &title}, 3)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAnnounceDelete_Success(t *testing.T) {
	repo := &fakeAnnounceRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.Announce, error) {
			return &models.Announce{ID: 5, OwnerID: 3}, nil
		},
		deleteFn: func(ctx context.Context, id int64) error { return nil },
	}
	s, mock := newAnnounceServiceWithRepo(t, repo, nil)
	mock.ExpectBegin()
	mock.ExpectCommit()

	msg, err := s.Delete(context.Background(), 5, 3)
	require.NoError(t, err)
	assert.Equal(t, "announce #5 deleted", msg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnounceDelete_Forbidden(t *testing.T) {
	repo := &fakeAnnounceRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.Announce, error) {
			return &models.Announce{ID: 5, OwnerID: 9}, nil
		},
		deleteFn: func(ctx context.Context, id int64) error {
			t.Fatal("delete must not be called")
			return nil
		},
	}
	s, mock := newAnnounceServiceWithRepo(t, repo, nil)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.Delete(context.Background(), 5, 3)
	assert.ErrorIs(t, err, common.ErrorForbidden)
}

func TestListByOwner_PassesOwnerID(t *testing.T) {
	repo := &fakeAnnounceRepo{
		selectByOwnerFn: func(ctx context.Context, ownerID int64) ([]*models.Announce, error) {
			assert.Equal(t, int64(3), ownerID)
			return []*models.Announce{{ID: 1, OwnerID: 3}}, nil
		},
	}
	s, _ := newAnnounceServiceWithRepo(t, repo, nil)

	result, err := s.ListByOwner(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, result, 1)
}
