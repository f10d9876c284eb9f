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

type PostgresSlackConnectionsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for slack_connections table
var slackConnectionsColumns = []string{
	"id",
	"user_id",
	"slack_user_id",
	"slack_team_id",
	"access_token",
	"team_name",
	"created_at",
	"updated_at",
}

func NewPostgresSlackConnectionsRepository(db *sqlx.DB, schema string) *PostgresSlackConnectionsRepository {
	return &PostgresSlackConnectionsRepository{db: db, schema: schema}
}

// UpsertSlackConnection creates or replaces the connection for a user.
// Relinking a workspace overwrites the stored token; the unique
// constraint on user_id enforces the one-connection-per-user rule.
func (r *PostgresSlackConnectionsRepository) UpsertSlackConnection(
	ctx context.Context,
	conn *models.SlackConnection,
) error {
	insertColumns := []string{
		"id",
		"user_id",
		"slack_user_id",
		"slack_team_id",
		"access_token",
		"team_name",
		"created_at",
		"updated_at",
	}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(slackConnectionsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.slack_connections (%s)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET slack_user_id = EXCLUDED.slack_user_id,
		    slack_team_id = EXCLUDED.slack_team_id,
		    access_token = EXCLUDED.access_token,
		    team_name = EXCLUDED.team_name,
		    updated_at = NOW()
		RETURNING %s`, r.schema, columnsStr, returningStr)

	if conn.ID == uuid.Nil {
		conn.ID = core.NewID()
	}

	err := r.db.QueryRowxContext(
		ctx,
		query,
		conn.ID,
		conn.UserID,
		conn.SlackUserID,
		conn.SlackTeamID,
		conn.AccessToken,
		conn.TeamName,
	).StructScan(conn)
	if err != nil {
		return fmt.Errorf("failed to upsert slack connection: %w", err)
	}

	return nil
}

func (r *PostgresSlackConnectionsRepository) GetSlackConnectionByUserID(
	ctx context.Context,
	userID uuid.UUID,
) (*models.SlackConnection, error) {
	columnsStr := strings.Join(slackConnectionsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.slack_connections
		WHERE user_id = $1`, columnsStr, r.schema)

	conn := &models.SlackConnection{}
	err := r.db.QueryRowxContext(ctx, query, userID).StructScan(conn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No connection
		}
		return nil, fmt.Errorf("failed to get slack connection by user ID: %w", err)
	}

	return conn, nil
}

// GetAllSlackConnections returns every stored connection, used by the
// scheduler to sweep all linked users.
func (r *PostgresSlackConnectionsRepository) GetAllSlackConnections(
	ctx context.Context,
) ([]*models.SlackConnection, error) {
	columnsStr := strings.Join(slackConnectionsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.slack_connections
		ORDER BY created_at DESC`, columnsStr, r.schema)

	var connections []*models.SlackConnection
	err := r.db.SelectContext(ctx, &connections, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all slack connections: %w", err)
	}

	return connections, nil
}

func (r *PostgresSlackConnectionsRepository) DeleteSlackConnectionByUserID(
	ctx context.Context,
	userID uuid.UUID,
) error {
	query := fmt.Sprintf(`DELETE FROM %s.slack_connections WHERE user_id = $1`, r.schema)

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete slack connection: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rowsAffected == 0 {
		return core.ErrNotFound
	}

	return nil
}
