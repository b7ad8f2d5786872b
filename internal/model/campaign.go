// internal/model/campaign.go
package model

import (
    "time"

    "github.com/lib/pq"
)

const (
    CampaignActive    = "active"
    CampaignPaused    = "paused"
    CampaignCompleted = "completed"
)

type Campaign struct {
    ID           int            `db:"id" json:"id"`
    UserID       int            `db:"user_id" json:"user_id"`
    Name         string         `db:"name" json:"name"`
    Prompt       string         `db:"prompt" json:"prompt"`
    Tone         string         `db:"tone" json:"tone"`
    Platforms    pq.StringArray `db:"platforms" json:"platforms"`
    DurationDays int            `db:"duration_days" json:"duration_days"`
    PostingTime  string         `db:"posting_time" json:"posting_time"` // HH:MM
    Timezone     string         `db:"timezone" json:"timezone"`
    Status       string         `db:"status" json:"status"`
    CreatedAt    time.Time      `db:"created_at" json:"created_at"`
    UpdatedAt    *time.Time     `db:"updated_at" json:"updated_at,omitempty"`
}

// Instant campaigns publish once per platform, immediately.
func (c *Campaign) Instant() bool {
    return c.DurationDays <= 0
}

func (c *Campaign) Days() int {
    if c.Instant() {
        return 1
    }
    return c.DurationDays
}
