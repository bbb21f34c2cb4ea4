// Package announces persists classified listings. Image URLs are stored as
// an ordered JSONB array; the owner row is joined eagerly where the API
// embeds an owner summary.
package announces

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/petiteannonce/server/internal/common"
	"github.com/petiteannonce/server/internal/dbx"
	"github.com/petiteannonce/server/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func encodeImages(images []string) ([]byte, error) {
	if images == nil {
		images = []string{}
	}
	return json.Marshal(images)
}

func decodeImages(raw []byte, a *models.Announce) error {
	a.Images = []string{}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, &a.Images)
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Announce) (*models.Announce, error) {

	images, err := encodeImages(a.Images)
	if err != nil {
		return nil, fmt.Errorf("encoding images: %w", err)
	}

	query :=
		`INSERT INTO announces (title, category, price, description, city, district, phone, email, images, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id
		 `

	err = r.db.QueryRowContext(ctx, query,
		a.Title, a.Category, a.Price, a.Description, a.City, a.District,
		a.Phone, a.Email, images, a.OwnerID).Scan(&a.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Announce, error) {
	query :=
		`SELECT a.id, a.title, a.category, a.price, a.description, a.city, a.district,
		        a.phone, a.email, a.images, a.owner_id, u.id, u.name, u.email
		 FROM announces a
		 JOIN users u ON u.id = a.owner_id
		 WHERE a.id = $1
		 `

	a := &models.Announce{Owner: &models.User{}}
	var images []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Title, &a.Category, &a.Price, &a.Description, &a.City, &a.District,
		&a.Phone, &a.Email, &images, &a.OwnerID,
		&a.Owner.ID, &a.Owner.Name, &a.Owner.Email)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := decodeImages(images, a); err != nil {
		return nil, fmt.Errorf("decoding images: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) SelectAll(ctx context.Context) ([]*models.Announce, error) {
	query :=
		`SELECT a.id, a.title, a.category, a.price, a.description, a.city, a.district,
		        a.phone, a.email, a.images, a.owner_id, u.id, u.name, u.email
		 FROM announces a
		 JOIN users u ON u.id = a.owner_id
		 ORDER BY a.id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Announce{}
	for rows.Next() {
		a := &models.Announce{Owner: &models.User{}}
		var images []byte
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Category, &a.Price, &a.Description, &a.City, &a.District,
			&a.Phone, &a.Email, &images, &a.OwnerID,
			&a.Owner.ID, &a.Owner.Name, &a.Owner.Email); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if err := decodeImages(images, a); err != nil {
			return nil, fmt.Errorf("decoding images: %w", err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) SelectByOwner(ctx context.Context, ownerID int64) ([]*models.Announce, error) {
	query :=
		`SELECT id, title, category, price, description, city, district,
		        phone, email, images, owner_id
		 FROM announces
		 WHERE owner_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Announce{}
	for rows.Next() {
		a := &models.Announce{}
		var images []byte
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Category, &a.Price, &a.Description, &a.City, &a.District,
			&a.Phone, &a.Email, &images, &a.OwnerID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if err := decodeImages(images, a); err != nil {
			return nil, fmt.Errorf("decoding images: %w", err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Update persists the mutable fields of a. The owner column is deliberately
// left out of the statement.
func (r *PostgresRepository) Update(ctx context.Context, a *models.Announce) error {

	images, err := encodeImages(a.Images)
	if err != nil {
		return fmt.Errorf("encoding images: %w", err)
	}

	query :=
		`UPDATE announces
		 SET title = $1, category = $2, price = $3, description = $4, city = $5,
		     district = $6, phone = $7, email = $8, images = $9
		 WHERE id = $10
		 `

	res, err := r.db.ExecContext(ctx, query,
		a.Title, a.Category, a.Price, a.Description, a.City, a.District,
		a.Phone, a.Email, images, a.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM announces WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
