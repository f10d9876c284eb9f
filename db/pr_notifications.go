package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"prremind/core"
	"prremind/models"
)

type PostgresPRNotificationsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for pull_request_notifications table
var prNotificationsColumns = []string{
	"id",
	"user_id",
	"sender_email",
	"recipient_email",
	"repo_name",
	"pr_title",
	"pr_link",
	"pr_number",
	"pr_status",
	"subject",
	"message_id",
	"received_at",
	"raw_text",
	"raw_html",
	"is_forwarded",
	"slack_sent",
	"created_at",
	"updated_at",
}

// PRNotificationFilters narrows list queries. Nil fields are ignored.
type PRNotificationFilters struct {
	RepoName  *string
	PRStatus  *string
	SlackSent *bool
	Since     *time.Time
	Limit     int
	Offset    int
}

func NewPostgresPRNotificationsRepository(db *sqlx.DB, schema string) *PostgresPRNotificationsRepository {
	return &PostgresPRNotificationsRepository{db: db, schema: schema}
}

// CreatePRNotification inserts a notification record. Webhook replays
// carrying an already-seen message_id hit the unique index and are
// reported as ErrDuplicateMessage so the caller can acknowledge the
// webhook without writing twice.
func (r *PostgresPRNotificationsRepository) CreatePRNotification(
	ctx context.Context,
	n *models.PRNotification,
) error {
	insertColumns := []string{
		"id",
		"user_id",
		"sender_email",
		"recipient_email",
		"repo_name",
		"pr_title",
		"pr_link",
		"pr_number",
		"pr_status",
		"subject",
		"message_id",
		"received_at",
		"raw_text",
		"raw_html",
		"is_forwarded",
		"slack_sent",
		"created_at",
		"updated_at",
	}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(prNotificationsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.pull_request_notifications (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr, returningStr)

	if n.ID == uuid.Nil {
		n.ID = core.NewID()
	}

	err := r.db.QueryRowxContext(
		ctx,
		query,
		n.ID,
		n.UserID,
		n.SenderEmail,
		n.RecipientEmail,
		n.RepoName,
		n.PRTitle,
		n.PRLink,
		n.PRNumber,
		n.PRStatus,
		n.Subject,
		n.MessageID,
		n.ReceivedAt,
		n.RawText,
		n.RawHTML,
		n.IsForwarded,
		n.SlackSent,
	).StructScan(n)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrDuplicateMessage
		}
		return fmt.Errorf("failed to create pr notification: %w", err)
	}

	return nil
}

// ErrDuplicateMessage signals a webhook replay of an already-stored email.
var ErrDuplicateMessage = errors.New("message already processed")

func (r *PostgresPRNotificationsRepository) GetPRNotificationByID(
	ctx context.Context,
	id, userID uuid.UUID,
) (*models.PRNotification, error) {
	columnsStr := strings.Join(prNotificationsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.pull_request_notifications
		WHERE id = $1 AND user_id = $2`, columnsStr, r.schema)

	n := &models.PRNotification{}
	err := r.db.QueryRowxContext(ctx, query, id, userID).StructScan(n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Notification not found
		}
		return nil, fmt.Errorf("failed to get pr notification by id: %w", err)
	}

	return n, nil
}

func (r *PostgresPRNotificationsRepository) ListPRNotifications(
	ctx context.Context,
	userID uuid.UUID,
	filters PRNotificationFilters,
) ([]*models.PRNotification, error) {
	columnsStr := strings.Join(prNotificationsColumns, ", ")

	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if filters.RepoName != nil {
		args = append(args, *filters.RepoName)
		conditions = append(conditions, fmt.Sprintf("repo_name = $%d", len(args)))
	}
	if filters.PRStatus != nil {
		args = append(args, *filters.PRStatus)
		conditions = append(conditions, fmt.Sprintf("pr_status = $%d", len(args)))
	}
	if filters.SlackSent != nil {
		args = append(args, *filters.SlackSent)
		conditions = append(conditions, fmt.Sprintf("slack_sent = $%d", len(args)))
	}
	if filters.Since != nil {
		args = append(args, *filters.Since)
		conditions = append(conditions, fmt.Sprintf("received_at >= $%d", len(args)))
	}

	limit := filters.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args = append(args, limit)
	limitClause := fmt.Sprintf("LIMIT $%d", len(args))
	args = append(args, filters.Offset)
	offsetClause := fmt.Sprintf("OFFSET $%d", len(args))

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.pull_request_notifications
		WHERE %s
		ORDER BY received_at DESC
		%s %s`, columnsStr, r.schema, strings.Join(conditions, " AND "), limitClause, offsetClause)

	var notifications []*models.PRNotification
	err := r.db.SelectContext(ctx, &notifications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pr notifications: %w", err)
	}

	return notifications, nil
}

// GetUnsentNotifications returns open PRs that have not yet been pushed
// to Slack, oldest first so reminders go out in arrival order.
func (r *PostgresPRNotificationsRepository) GetUnsentNotifications(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*models.PRNotification, error) {
	columnsStr := strings.Join(prNotificationsColumns, ", ")

	if limit <= 0 {
		limit = 10
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.pull_request_notifications
		WHERE user_id = $1 AND slack_sent = FALSE AND (pr_status IS NULL OR pr_status IN ('opened', 'updated'))
		ORDER BY received_at ASC
		LIMIT $2`, columnsStr, r.schema)

	var notifications []*models.PRNotification
	err := r.db.SelectContext(ctx, &notifications, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get unsent notifications: %w", err)
	}

	return notifications, nil
}

func (r *PostgresPRNotificationsRepository) MarkSlackSent(
	ctx context.Context,
	ids []uuid.UUID,
	userID uuid.UUID,
) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		UPDATE %s.pull_request_notifications
		SET slack_sent = TRUE, updated_at = NOW()
		WHERE id = ANY($1) AND user_id = $2`, r.schema)

	result, err := r.db.ExecContext(ctx, query, pq.Array(ids), userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications slack sent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected, nil
}

func (r *PostgresPRNotificationsRepository) DeletePRNotifications(
	ctx context.Context,
	ids []uuid.UUID,
	userID uuid.UUID,
) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s.pull_request_notifications
		WHERE id = ANY($1) AND user_id = $2`, r.schema)

	result, err := r.db.ExecContext(ctx, query, pq.Array(ids), userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete pr notifications: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected, nil
}

func (r *PostgresPRNotificationsRepository) GetPRStats(
	ctx context.Context,
	userID uuid.UUID,
) (*models.PRStats, error) {
	stats := &models.PRStats{
		ByStatus: make(map[string]int),
		ByRepo:   make(map[string]int),
	}

	query := fmt.Sprintf(`
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE slack_sent = FALSE) AS pending_slack
		FROM %s.pull_request_notifications
		WHERE user_id = $1`, r.schema)

	row := r.db.QueryRowxContext(ctx, query, userID)
	if err := row.Scan(&stats.Total, &stats.PendingSlack); err != nil {
		return nil, fmt.Errorf("failed to get pr notification totals: %w", err)
	}

	statusQuery := fmt.Sprintf(`
		SELECT COALESCE(pr_status, 'unknown'), COUNT(*)
		FROM %s.pull_request_notifications
		WHERE user_id = $1
		GROUP BY pr_status`, r.schema)

	rows, err := r.db.QueryxContext(ctx, statusQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pr status counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan pr status count: %w", err)
		}
		stats.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pr status counts: %w", err)
	}

	repoQuery := fmt.Sprintf(`
		SELECT repo_name, COUNT(*)
		FROM %s.pull_request_notifications
		WHERE user_id = $1 AND repo_name IS NOT NULL
		GROUP BY repo_name
		ORDER BY COUNT(*) DESC
		LIMIT 25`, r.schema)

	repoRows, err := r.db.QueryxContext(ctx, repoQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pr repo counts: %w", err)
	}
	defer repoRows.Close()
	for repoRows.Next() {
		var repo string
		var count int
		if err := repoRows.Scan(&repo, &count); err != nil {
			return nil, fmt.Errorf("failed to scan pr repo count: %w", err)
		}
		stats.ByRepo[repo] = count
	}
	if err := repoRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pr repo counts: %w", err)
	}

	return stats, nil
}

// GetPRSummary aggregates activity since the cutoff for the
// trailing-window summary endpoint.
func (r *PostgresPRNotificationsRepository) GetPRSummary(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
	staleBefore time.Time,
) (*models.PRSummary, error) {
	summary := &models.PRSummary{
		Repositories:  []string{},
		DailyActivity: make(map[string]int),
	}

	countsQuery := fmt.Sprintf(`
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE pr_status = 'opened') AS new_prs,
		       COUNT(*) FILTER (WHERE pr_status = 'merged') AS merged_prs,
		       COUNT(*) FILTER (WHERE pr_status = 'closed') AS closed_prs
		FROM %s.pull_request_notifications
		WHERE user_id = $1 AND received_at >= $2`, r.schema)

	row := r.db.QueryRowxContext(ctx, countsQuery, userID, since)
	if err := row.Scan(&summary.TotalNotifications, &summary.NewPRs,
		&summary.MergedPRs, &summary.ClosedPRs); err != nil {
		return nil, fmt.Errorf("failed to get pr summary counts: %w", err)
	}

	repoQuery := fmt.Sprintf(`
		SELECT DISTINCT repo_name
		FROM %s.pull_request_notifications
		WHERE user_id = $1 AND received_at >= $2 AND repo_name IS NOT NULL
		ORDER BY repo_name`, r.schema)

	if err := r.db.SelectContext(ctx, &summary.Repositories, repoQuery, userID, since); err != nil {
		return nil, fmt.Errorf("failed to get pr summary repositories: %w", err)
	}

	dailyQuery := fmt.Sprintf(`
		SELECT TO_CHAR(received_at::date, 'YYYY-MM-DD'), COUNT(*)
		FROM %s.pull_request_notifications
		WHERE user_id = $1 AND received_at >= $2
		GROUP BY received_at::date
		ORDER BY received_at::date`, r.schema)

	rows, err := r.db.QueryxContext(ctx, dailyQuery, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get pr daily activity: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("failed to scan pr daily activity: %w", err)
		}
		summary.DailyActivity[day] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pr daily activity: %w", err)
	}

	staleQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s.pull_request_notifications
		WHERE user_id = $1 AND pr_status = 'opened' AND received_at < $2`, r.schema)

	if err := r.db.QueryRowxContext(ctx, staleQuery, userID, staleBefore).Scan(&summary.OldOpenPRs); err != nil {
		return nil, fmt.Errorf("failed to count stale open prs: %w", err)
	}

	return summary, nil
}

func (r *PostgresPRNotificationsRepository) GetUserRepositories(
	ctx context.Context,
	userID uuid.UUID,
) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT repo_name
		FROM %s.pull_request_notifications
		WHERE user_id = $1 AND repo_name IS NOT NULL
		ORDER BY repo_name`, r.schema)

	var repos []string
	err := r.db.SelectContext(ctx, &repos, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user repositories: %w", err)
	}

	return repos, nil
}

// DeleteOlderThan removes notifications received before the cutoff,
// used by the weekly retention cleanup.
func (r *PostgresPRNotificationsRepository) DeleteOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s.pull_request_notifications
		WHERE received_at < $1 AND slack_sent = TRUE`, r.schema)

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old notifications: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected, nil
}
