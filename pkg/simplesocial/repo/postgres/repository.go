package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-social/pkg/simplesocial"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simplesocial.Repository using PostgreSQL. Platform
// content maps and hashtag lists are stored as jsonb; the staged snapshot
// on a scheduled row keeps scheduled records immutable even if the staged
// row is later deleted.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) simplesocial.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) simplesocial.Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("record already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) SaveStagedContent(ctx context.Context, content *simplesocial.StagedContent) error {
	platforms, err := json.Marshal(content.Platforms)
	if err != nil {
		return fmt.Errorf("marshal platforms: %w", err)
	}
	platformContent, err := json.Marshal(content.PlatformContent)
	if err != nil {
		return fmt.Errorf("marshal platform content: %w", err)
	}
	original, err := json.Marshal(content.OriginalData)
	if err != nil {
		return fmt.Errorf("marshal original data: %w", err)
	}
	mediaURLs, err := json.Marshal(content.MediaURLs)
	if err != nil {
		return fmt.Errorf("marshal media urls: %w", err)
	}

	query := `
		INSERT INTO social.staged_content
			(id, content_type, title, original_data, platforms, platform_content,
			 media_urls, thumbnail_url, duration, estimated_reach, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			platforms = EXCLUDED.platforms,
			platform_content = EXCLUDED.platform_content,
			media_urls = EXCLUDED.media_urls,
			thumbnail_url = EXCLUDED.thumbnail_url,
			estimated_reach = EXCLUDED.estimated_reach`

	_, err = r.db.Exec(ctx, query,
		content.ID, string(content.Type), content.Title, original, platforms,
		platformContent, mediaURLs, content.ThumbnailURL, content.Duration,
		content.EstimatedReach, content.CreatedAt)
	if err != nil {
		return r.handlePostgresError("save_staged_content", err)
	}
	return nil
}

func (r *Repository) GetStagedContent(ctx context.Context, id uuid.UUID) (*simplesocial.StagedContent, error) {
	query := `
		SELECT id, content_type, title, original_data, platforms, platform_content,
		       media_urls, thumbnail_url, duration, estimated_reach, created_at
		FROM social.staged_content
		WHERE id = $1`

	content, err := scanStaged(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simplesocial.ErrContentNotFound
		}
		return nil, r.handlePostgresError("get_staged_content", err)
	}
	return content, nil
}

func (r *Repository) ListStagedContent(ctx context.Context) ([]*simplesocial.StagedContent, error) {
	query := `
		SELECT id, content_type, title, original_data, platforms, platform_content,
		       media_urls, thumbnail_url, duration, estimated_reach, created_at
		FROM social.staged_content
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list_staged_content", err)
	}
	defer rows.Close()

	var out []*simplesocial.StagedContent
	for rows.Next() {
		content, err := scanStaged(rows)
		if err != nil {
			return nil, r.handlePostgresError("list_staged_content", err)
		}
		out = append(out, content)
	}
	return out, rows.Err()
}

func (r *Repository) DeleteStagedContent(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM social.staged_content WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete_staged_content", err)
	}
	if tag.RowsAffected() == 0 {
		return simplesocial.ErrContentNotFound
	}
	return nil
}

func (r *Repository) SaveScheduledContent(ctx context.Context, content *simplesocial.ScheduledContent) error {
	snapshot, err := json.Marshal(content.Content)
	if err != nil {
		return fmt.Errorf("marshal staged snapshot: %w", err)
	}
	platforms, err := json.Marshal(content.Platforms)
	if err != nil {
		return fmt.Errorf("marshal platforms: %w", err)
	}
	hashtags, err := json.Marshal(content.SuggestedHashtags)
	if err != nil {
		return fmt.Errorf("marshal suggested hashtags: %w", err)
	}

	query := `
		INSERT INTO social.scheduled_content
			(id, staged_id, content, scheduled_at, platforms, score, best_time,
			 reasoning, optimization_reason, suggested_hashtags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var stagedID uuid.UUID
	if content.Content != nil {
		stagedID = content.Content.ID
	}
	_, err = r.db.Exec(ctx, query,
		content.ID, stagedID, snapshot, content.ScheduledAt, platforms,
		content.Prediction.Score, content.Prediction.BestTime,
		content.Prediction.Reasoning, content.OptimizationReason, hashtags,
		content.CreatedAt)
	if err != nil {
		return r.handlePostgresError("save_scheduled_content", err)
	}
	return nil
}

func (r *Repository) ListScheduledContent(ctx context.Context) ([]*simplesocial.ScheduledContent, error) {
	query := `
		SELECT id, content, scheduled_at, platforms, score, best_time,
		       reasoning, optimization_reason, suggested_hashtags, created_at
		FROM social.scheduled_content
		ORDER BY scheduled_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list_scheduled_content", err)
	}
	defer rows.Close()

	var out []*simplesocial.ScheduledContent
	for rows.Next() {
		var (
			sc        simplesocial.ScheduledContent
			snapshot  []byte
			platforms []byte
			hashtags  []byte
		)
		err := rows.Scan(&sc.ID, &snapshot, &sc.ScheduledAt, &platforms,
			&sc.Prediction.Score, &sc.Prediction.BestTime, &sc.Prediction.Reasoning,
			&sc.OptimizationReason, &hashtags, &sc.CreatedAt)
		if err != nil {
			return nil, r.handlePostgresError("list_scheduled_content", err)
		}
		if len(snapshot) > 0 {
			if err := json.Unmarshal(snapshot, &sc.Content); err != nil {
				return nil, fmt.Errorf("unmarshal staged snapshot: %w", err)
			}
		}
		if err := json.Unmarshal(platforms, &sc.Platforms); err != nil {
			return nil, fmt.Errorf("unmarshal platforms: %w", err)
		}
		if err := json.Unmarshal(hashtags, &sc.SuggestedHashtags); err != nil {
			return nil, fmt.Errorf("unmarshal suggested hashtags: %w", err)
		}
		out = append(out, &sc)
	}
	return out, rows.Err()
}

func scanStaged(row pgx.Row) (*simplesocial.StagedContent, error) {
	var (
		content         simplesocial.StagedContent
		contentType     string
		original        []byte
		platforms       []byte
		platformContent []byte
		mediaURLs       []byte
	)
	err := row.Scan(&content.ID, &contentType, &content.Title, &original,
		&platforms, &platformContent, &mediaURLs, &content.ThumbnailURL,
		&content.Duration, &content.EstimatedReach, &content.CreatedAt)
	if err != nil {
		return nil, err
	}

	content.Type = simplesocial.ContentType(contentType)
	if len(original) > 0 {
		if err := json.Unmarshal(original, &content.OriginalData); err != nil {
			return nil, fmt.Errorf("unmarshal original data: %w", err)
		}
	}
	if err := json.Unmarshal(platforms, &content.Platforms); err != nil {
		return nil, fmt.Errorf("unmarshal platforms: %w", err)
	}
	if err := json.Unmarshal(platformContent, &content.PlatformContent); err != nil {
		return nil, fmt.Errorf("unmarshal platform content: %w", err)
	}
	if err := json.Unmarshal(mediaURLs, &content.MediaURLs); err != nil {
		return nil, fmt.Errorf("unmarshal media urls: %w", err)
	}
	return &content, nil
}
