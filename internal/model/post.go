// internal/model/post.go
package model

import "time"

const (
    PostScheduled = "scheduled"
    PostApproved  = "approved"
    PostPublished = "published"
    PostFailed    = "failed"
    PostCancelled = "cancelled"
)

// Engagement is an informational snapshot returned by a platform; it never
// drives control flow.
type Engagement struct {
    Reach    int `json:"reach"`
    Likes    int `json:"likes"`
    Comments int `json:"comments"`
    Shares   int `json:"shares"`
}

type Post struct {
    ID             int        `db:"id" json:"id"`
    CampaignID     int        `db:"campaign_id" json:"campaign_id"`
    Platform       string     `db:"platform" json:"platform"`
    DayIndex       int        `db:"day_index" json:"day_index"`
    Content        string     `db:"content" json:"content"`
    Status         string     `db:"status" json:"status"`
    ScheduledAt    time.Time  `db:"scheduled_at" json:"scheduled_at"`
    PublishedAt    *time.Time `db:"published_at" json:"published_at,omitempty"`
    PlatformPostID string     `db:"platform_post_id" json:"platform_post_id,omitempty"`
    Engagement     Engagement `db:"engagement" json:"engagement"`
    LastError      string     `db:"last_error" json:"last_error,omitempty"`
    RetryCount     int        `db:"retry_count" json:"retry_count"`
    CreatedAt      time.Time  `db:"created_at" json:"created_at"`
    UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}
