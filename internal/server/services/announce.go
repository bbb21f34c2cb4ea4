package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/petiteannonce/server/internal/common"
	"github.com/petiteannonce/server/internal/dbx"
	"github.com/petiteannonce/server/internal/logging"
	"github.com/petiteannonce/server/internal/server/models"
	"github.com/petiteannonce/server/internal/server/repositories/repomanager"
	"github.com/petiteannonce/server/internal/server/storage"
)

// AnnounceInput carries the validated fields for a new announce.
type AnnounceInput struct {
	Title       string
	Category    models.Category
	Price       *int64
	Description string
	City        models.City
	District    *string
	Phone       string
	Email       *string
	Images      []string
}

// AnnouncePatch carries partial-update fields; nil means "leave unchanged".
type AnnouncePatch struct {
	Title       *string
	Category    *models.Category
	Price       *int64
	Description *string
	City        *models.City
	District    *string
	Phone       *string
	Email       *string
	Images      []string
}

// ImageUpload describes a file attached to announce creation.
type ImageUpload struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

// AnnounceService implements ownership-gated CRUD over announces. Mutation
// and deletion are only permitted to the owning user; reads are public.
type AnnounceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
	logger      logging.Logger
}

func NewAnnounceService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, l logging.Logger) *AnnounceService {
	return &AnnounceService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      l.With("module", "announce_service"),
	}
}

// Create persists a new announce owned by ownerID. When an image upload is
// attached it is stored first, so an upload failure aborts creation and no
// announce row ever references a missing object.
func (s *AnnounceService) Create(ctx context.Context, in *AnnounceInput, ownerID int64, upload *ImageUpload) (*models.Announce, error) {

	images := append([]string{}, in.Images...)
	if upload != nil {
		key := storage.MakeStorageKey(upload.FileName)
		url, err := s.store.Upload(ctx, key, upload.ContentType, upload.Body)
		if err != nil {
			s.logger.Error(ctx, "image upload failed", "user_id", ownerID, "error", err)
			return nil, fmt.Errorf("uploading image: %w", err)
		}
		images = append([]string{url}, images...)
	}

	a := &models.Announce{
		Title:       in.Title,
		Category:    in.Category,
		Price:       in.Price,
		Description: in.Description,
		City:        in.City,
		District:    in.District,
		Phone:       in.Phone,
		Email:       in.Email,
		Images:      images,
		OwnerID:     ownerID,
	}

	repo := s.repomanager.Announces(s.db)
	created, err := repo.Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("error creating announce: %w", err)
	}

	s.logger.Info(ctx, "announce created", "announce_id", created.ID, "user_id", ownerID)
	return created, nil
}

// Get returns the announce with its owner summary embedded. Reads carry no
// ownership check.
func (s *AnnounceService) Get(ctx context.Context, id int64) (*models.Announce, error) {
	repo := s.repomanager.Announces(s.db)

	a, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting announce: %w", err)
	}
	return a, nil
}

// List returns all announces in insertion order.
func (s *AnnounceService) List(ctx context.Context) ([]*models.Announce, error) {
	repo := s.repomanager.Announces(s.db)

	result, err := repo.SelectAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing announces: %w", err)
	}
	return result, nil
}

// ListByOwner returns the announces belonging to ownerID; the login response
// embeds them next to the user.
func (s *AnnounceService) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Announce, error) {
	repo := s.repomanager.Announces(s.db)

	result, err := repo.SelectByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing announces: %w", err)
	}
	return result, nil
}

// Update applies the non-nil patch fields to the announce. The caller must
// be the owner; the ownership check happens after the lookup and before any
// mutation. The owner id itself is immutable.
func (s *AnnounceService) Update(ctx context.Context, id int64, patch *AnnouncePatch, callerID int64) (*models.Announce, error) {

	var updated *models.Announce

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Announces(tx)

		a, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a.OwnerID != callerID {
			s.logger.Warn(ctx, "update forbidden", "announce_id", id, "user_id", callerID)
			return common.ErrorForbidden
		}

		applyPatch(a, patch)

		if err := repo.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorForbidden) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating announce: %w", err)
	}

	s.logger.Info(ctx, "announce updated", "announce_id", id, "user_id", callerID)
	return updated, nil
}

// Delete removes the announce after the same ownership gate as Update and
// returns a human-readable confirmation.
func (s *AnnounceService) Delete(ctx context.Context, id int64, callerID int64) (string, error) {

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Announces(tx)

		a, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a.OwnerID != callerID {
			s.logger.Warn(ctx, "delete forbidden", "announce_id", id, "user_id", callerID)
			return common.ErrorForbidden
		}

		return repo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorForbidden) {
			return "", err
		}
		return "", fmt.Errorf("error deleting announce: %w", err)
	}

	s.logger.Info(ctx, "announce deleted", "announce_id", id, "user_id", callerID)
	return fmt.Sprintf("announce #%d deleted", id), nil
}

func applyPatch(a *models.Announce, patch *AnnouncePatch) {
	if patch.Title != nil {
		a.Title = *patch.Title
	}
	if patch.Category != nil {
		a.Category = *patch.Category
	}
	if patch.Price != nil {
		a.Price = patch.Price
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}
	if patch.City != nil {
		a.City = *patch.City
	}
	if patch.District != nil {
		a.District = patch.District
	}
	if patch.Phone != nil {
		a.Phone = *patch.Phone
	}
	if patch.Email != nil {
		a.Email = patch.Email
	}
	if patch.Images != nil {
		a.Images = patch.Images
	}
}
