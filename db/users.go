package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"prremind/core"
	"prremind/models"
)

type PostgresUsersRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for users table
var usersColumns = []string{
	"id",
	"name",
	"email",
	"profile_image",
	"created_at",
	"updated_at",
}

func NewPostgresUsersRepository(db *sqlx.DB, schema string) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db, schema: schema}
}

func (r *PostgresUsersRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	columnsStr := strings.Join(usersColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.users
		WHERE id = $1`, columnsStr, r.schema)

	user := &models.User{}
	err := r.db.QueryRowxContext(ctx, query, id).StructScan(user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *PostgresUsersRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	columnsStr := strings.Join(usersColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.users
		WHERE email = $1`, columnsStr, r.schema)

	user := &models.User{}
	err := r.db.QueryRowxContext(ctx, query, email).StructScan(user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// UpsertUserByEmail inserts a user or, when the email already exists,
// refreshes name and avatar from the identity provider. The unique
// constraint on email is what keeps concurrent first logins from
// creating duplicate rows, so the insert races resolve inside the
// database rather than in application code.
func (r *PostgresUsersRepository) UpsertUserByEmail(
	ctx context.Context,
	name, email string,
	profileImage *string,
) (*models.User, error) {
	insertColumns := []string{"id", "name", "email", "profile_image", "created_at", "updated_at"}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(usersColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.users (%s)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name,
		    profile_image = COALESCE(EXCLUDED.profile_image, %s.users.profile_image),
		    updated_at = NOW()
		RETURNING %s`, r.schema, columnsStr, r.schema, returningStr)

	user := &models.User{}
	err := r.db.QueryRowxContext(ctx, query, core.NewID(), name, email, profileImage).StructScan(user)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return user, nil
}
