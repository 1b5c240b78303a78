package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/houseofcharity/charity-be/internal/models"
	"github.com/houseofcharity/charity-be/internal/storage"
)

const userColumns = `id, email, user_type, name, phone, address, city, state, country, pincode,
	description, website, logo_url, verified, password_hash, created_at, updated_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
	INSERT INTO users (id, email, user_type, name, phone, address, city, state, country, pincode,
		description, website, logo_url, verified, password_hash)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query,
		user.ID, user.Email, string(user.UserType), user.Name, user.Phone, user.Address, user.City,
		user.State, user.Country, user.Pincode, user.Description, user.Website, user.LogoURL,
		user.Verified, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindUserByID fetches a user by identifier.
func (s *Store) FindUserByID(ctx context.Context, id string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// FindUserByEmail fetches a user by email address.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// ListNGOs returns every NGO account, newest first.
func (s *Store) ListNGOs(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_type = $1 ORDER BY created_at DESC`, string(models.NGO))
	if err != nil {
		return nil, fmt.Errorf("list ngos: %w", err)
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

// UpdateUser writes the set profile fields and bumps updated_at.
func (s *Store) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (models.User, error) {
	const query = `
	UPDATE users SET
		name = COALESCE($2, name),
		phone = COALESCE($3, phone),
		address = COALESCE($4, address),
		city = COALESCE($5, city),
		state = COALESCE($6, state),
		country = COALESCE($7, country),
		pincode = COALESCE($8, pincode),
		description = COALESCE($9, description),
		website = COALESCE($10, website),
		logo_url = COALESCE($11, logo_url),
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, id,
		upd.Name, upd.Phone, upd.Address, upd.City, upd.State, upd.Country,
		upd.Pincode, upd.Description, upd.Website, upd.LogoURL)
	return scanUser(row)
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var userType string
	if err := row.Scan(&user.ID, &user.Email, &userType, &user.Name, &user.Phone, &user.Address,
		&user.City, &user.State, &user.Country, &user.Pincode, &user.Description, &user.Website,
		&user.LogoURL, &user.Verified, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	user.UserType = models.UserType(userType)
	return user, nil
}
