package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// PostgresUsersRepository implements UsersRepository over user_profiles.
type PostgresUsersRepository struct {
	db *sql.DB
}

func NewPostgresUsersRepository(db *sql.DB) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db}
}

var _ UsersRepository = (*PostgresUsersRepository)(nil)

const userProfileColumns = `
	id,
	auth_user_id,
	COALESCE(name, '') AS name,
	COALESCE(email, '') AS email,
	COALESCE(role, '') AS role,
	COALESCE(client_id, '') AS client_id,
	COALESCE(is_active, true) AS is_active`

func scanUserProfile(row interface{ Scan(...any) error }) (*domain.UserProfile, error) {
	var p domain.UserProfile
	err := row.Scan(&p.ID, &p.AuthUserID, &p.Name, &p.Email, &p.Role, &p.ClientID, &p.IsActive)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresUsersRepository) GetProfileByAuthID(ctx context.Context, authUserID string) (*domain.UserProfile, error) {
	if authUserID == "" {
		return nil, fmt.Errorf("auth_user_id is required")
	}
	query := fmt.Sprintf(`SELECT %s FROM user_profiles WHERE auth_user_id = $1`, userProfileColumns)
	p, err := scanUserProfile(r.db.QueryRowContext(ctx, query, authUserID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user profile not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get user profile by auth id: %w", err)
	}
	return p, nil
}

func (r *PostgresUsersRepository) ListProfiles(ctx context.Context, clientID string) ([]*domain.UserProfile, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	query := fmt.Sprintf(`SELECT %s FROM user_profiles WHERE client_id = $1 ORDER BY name`, userProfileColumns)
	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user profiles: %w", err)
	}
	defer rows.Close()

	profiles := []*domain.UserProfile{}
	for rows.Next() {
		p, err := scanUserProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user profiles: %w", err)
	}
	return profiles, nil
}

func (r *PostgresUsersRepository) CreateProfile(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
	if profile == nil || profile.AuthUserID == "" {
		return nil, fmt.Errorf("auth_user_id is required")
	}
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_profiles (id, auth_user_id, name, email, role, client_id, is_active)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7)`,
		profile.ID, profile.AuthUserID, profile.Name, profile.Email,
		profile.Role, profile.ClientID, profile.IsActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user profile: %w", err)
	}
	return profile, nil
}
