// internal/repository/post_repository.go
package repository

import (
    "database/sql"
    "encoding/json"
    "fmt"
    "time"

    "github.com/lib/pq"

    "github.com/postpilot/postpilot-backend/internal/model"
)

type PostRepositoryInterface interface {
    Create(p *model.Post) error
    GetByID(id int) (*model.Post, error)
    GetByCampaignPlatformDay(campaignID int, platform string, dayIndex int) (*model.Post, error)
    ListByCampaign(campaignID int) ([]*model.Post, error)
    ListByStatus(status string) ([]*model.Post, error)
    ListPending() ([]*model.Post, error)
    Requeue(id int, scheduledAt time.Time) error
    MarkFailed(id int, lastError string) error
    MarkPublished(id int, platformPostID string, engagement model.Engagement, publishedAt time.Time) error
    UpdateStatus(id int, status string) error
    CountByStatus(campaignID int) (map[string]int, error)
}

type PostRepository struct {
    DB *sql.DB
}

const postColumns = `id, campaign_id, platform, day_index, content, status, scheduled_at, published_at, platform_post_id, engagement, last_error, retry_count, created_at, updated_at`

func (r *PostRepository) Create(p *model.Post) error {
    now := time.Now()
    p.CreatedAt = now
    p.UpdatedAt = now
    if p.Status == "" {
        p.Status = model.PostScheduled
    }

    engagementJSON, err := json.Marshal(p.Engagement)
    if err != nil {
        return fmt.Errorf("failed to marshal engagement: %w", err)
    }

    query := `
        INSERT INTO posts (campaign_id, platform, day_index, content, status, scheduled_at, published_at, platform_post_id, engagement, last_error, retry_count, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id
    `
    return r.DB.QueryRow(query,
        p.CampaignID, p.Platform, p.DayIndex, p.Content, p.Status, p.ScheduledAt,
        p.PublishedAt, p.PlatformPostID, engagementJSON, p.LastError, p.RetryCount,
        p.CreatedAt, p.UpdatedAt,
    ).Scan(&p.ID)
}

func (r *PostRepository) GetByID(id int) (*model.Post, error) {
    query := `SELECT ` + postColumns + ` FROM posts WHERE id=$1`
    p, err := r.scanPost(r.DB.QueryRow(query, id))
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, err
    }
    return p, nil
}

func (r *PostRepository) GetByCampaignPlatformDay(campaignID int, platform string, dayIndex int) (*model.Post, error) {
    query := `SELECT ` + postColumns + ` FROM posts WHERE campaign_id=$1 AND platform=$2 AND day_index=$3`
    p, err := r.scanPost(r.DB.QueryRow(query, campaignID, platform, dayIndex))
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, err
    }
    return p, nil
}

func (r *PostRepository) ListByCampaign(campaignID int) ([]*model.Post, error) {
    query := `SELECT ` + postColumns + ` FROM posts WHERE campaign_id=$1 ORDER BY platform, day_index`
    return r.queryPosts(query, campaignID)
}

// ListByStatus enumerates posts in the given status across all campaigns and
// all owners. The recovery sweep depends on the all-owners part.
func (r *PostRepository) ListByStatus(status string) ([]*model.Post, error) {
    query := `SELECT ` + postColumns + ` FROM posts WHERE status=$1 ORDER BY scheduled_at`
    return r.queryPosts(query, status)
}

// ListPending returns posts that still need a publication timer.
func (r *PostRepository) ListPending() ([]*model.Post, error) {
    query := `SELECT ` + postColumns + ` FROM posts WHERE status = ANY($1) ORDER BY scheduled_at`
    return r.queryPosts(query, pq.Array([]string{model.PostScheduled, model.PostApproved}))
}

// Requeue puts a failed post back in line: fresh target instant, cleared
// error, status back to scheduled.
func (r *PostRepository) Requeue(id int, scheduledAt time.Time) error {
    query := `UPDATE posts SET status=$1, scheduled_at=$2, last_error='', updated_at=NOW() WHERE id=$3`
    _, err := r.DB.Exec(query, model.PostScheduled, scheduledAt, id)
    return err
}

func (r *PostRepository) MarkFailed(id int, lastError string) error {
    query := `UPDATE posts SET status=$1, last_error=$2, retry_count=retry_count+1, updated_at=NOW() WHERE id=$3`
    _, err := r.DB.Exec(query, model.PostFailed, lastError, id)
    return err
}

func (r *PostRepository) MarkPublished(id int, platformPostID string, engagement model.Engagement, publishedAt time.Time) error {
    engagementJSON, err := json.Marshal(engagement)
    if err != nil {
        return fmt.Errorf("failed to marshal engagement: %w", err)
    }
    query := `
        UPDATE posts
        SET status=$1, platform_post_id=$2, engagement=$3, published_at=$4, last_error='', updated_at=NOW()
        WHERE id=$5
    `
    _, err = r.DB.Exec(query, model.PostPublished, platformPostID, engagementJSON, publishedAt, id)
    return err
}

func (r *PostRepository) UpdateStatus(id int, status string) error {
    query := `UPDATE posts SET status=$1, updated_at=NOW() WHERE id=$2`
    _, err := r.DB.Exec(query, status, id)
    return err
}

func (r *PostRepository) CountByStatus(campaignID int) (map[string]int, error) {
    query := `SELECT status, COUNT(*) FROM posts WHERE campaign_id=$1 GROUP BY status`
    rows, err := r.DB.Query(query, campaignID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    stats := map[string]int{
        model.PostScheduled: 0,
        model.PostApproved:  0,
        model.PostPublished: 0,
        model.PostFailed:    0,
        model.PostCancelled: 0,
    }
    total := 0
    for rows.Next() {
        var status string
        var count int
        if err := rows.Scan(&status, &count); err != nil {
            return nil, err
        }
        stats[status] = count
        total += count
    }
    stats["total"] = total
    return stats, nil
}

type rowScanner interface {
    Scan(dest ...interface{}) error
}

func (r *PostRepository) scanPost(row rowScanner) (*model.Post, error) {
    var p model.Post
    var engagementJSON []byte
    err := row.Scan(
        &p.ID, &p.CampaignID, &p.Platform, &p.DayIndex, &p.Content, &p.Status,
        &p.ScheduledAt, &p.PublishedAt, &p.PlatformPostID, &engagementJSON,
        &p.LastError, &p.RetryCount, &p.CreatedAt, &p.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if len(engagementJSON) > 0 {
        if err := json.Unmarshal(engagementJSON, &p.Engagement); err != nil {
            return nil, fmt.Errorf("failed to unmarshal engagement: %w", err)
        }
    }
    return &p, nil
}

func (r *PostRepository) queryPosts(query string, args ...interface{}) ([]*model.Post, error) {
    rows, err := r.DB.Query(query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    posts := []*model.Post{}
    for rows.Next() {
        p, err := r.scanPost(rows)
        if err != nil {
            return nil, err
        }
        posts = append(posts, p)
    }
    return posts, rows.Err()
}

var _ PostRepositoryInterface = (*PostRepository)(nil)
