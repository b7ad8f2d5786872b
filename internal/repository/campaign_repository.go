// internal/repository/campaign_repository.go
package repository

import (
    "database/sql"
    "fmt"
    "time"

    "github.com/lib/pq"

    "github.com/postpilot/postpilot-backend/internal/apperrors"
    "github.com/postpilot/postpilot-backend/internal/model"
)

type CampaignRepositoryInterface interface {
    Create(c *model.Campaign) error
    GetByID(id int) (*model.Campaign, error)
    ListCampaigns(offset, limit int, status string) ([]*model.Campaign, int, error)
    UpdateStatus(campaignID int, status string) error
}

type CampaignRepository struct {
    DB *sql.DB
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
    c.CreatedAt = time.Now()
    if c.Status == "" {
        c.Status = model.CampaignActive
    }
    if c.Timezone == "" {
        c.Timezone = "UTC"
    }
    query := `
        INSERT INTO campaigns (user_id, name, prompt, tone, platforms, duration_days, posting_time, timezone, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id
    `
    return r.DB.QueryRow(query,
        c.UserID, c.Name, c.Prompt, c.Tone, pq.Array(c.Platforms),
        c.DurationDays, c.PostingTime, c.Timezone, c.Status, c.CreatedAt,
    ).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
    query := `
        SELECT id, user_id, name, prompt, tone, platforms, duration_days, posting_time, timezone, status, created_at, updated_at
        FROM campaigns WHERE id=$1
    `
    var c model.Campaign
    err := r.DB.QueryRow(query, id).Scan(
        &c.ID, &c.UserID, &c.Name, &c.Prompt, &c.Tone, &c.Platforms,
        &c.DurationDays, &c.PostingTime, &c.Timezone, &c.Status, &c.CreatedAt, &c.UpdatedAt,
    )
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, apperrors.NewCampaignNotFound(id)
        }
        return nil, err
    }
    return &c, nil
}

func (r *CampaignRepository) ListCampaigns(offset, limit int, status string) ([]*model.Campaign, int, error) {
    campaigns := []*model.Campaign{}
    query := `SELECT id, user_id, name, prompt, tone, platforms, duration_days, posting_time, timezone, status, created_at, updated_at FROM campaigns WHERE 1=1`
    args := []interface{}{}
    argPos := 1

    if status != "" {
        query += fmt.Sprintf(" AND status=$%d", argPos)
        args = append(args, status)
        argPos++
    }

    query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
    args = append(args, limit, offset)

    rows, err := r.DB.Query(query, args...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    for rows.Next() {
        c := &model.Campaign{}
        if err := rows.Scan(
            &c.ID, &c.UserID, &c.Name, &c.Prompt, &c.Tone, &c.Platforms,
            &c.DurationDays, &c.PostingTime, &c.Timezone, &c.Status, &c.CreatedAt, &c.UpdatedAt,
        ); err != nil {
            return nil, 0, err
        }
        campaigns = append(campaigns, c)
    }

    countQuery := `SELECT COUNT(*) FROM campaigns WHERE 1=1`
    argsCount := []interface{}{}
    if status != "" {
        countQuery += " AND status=$1"
        argsCount = append(argsCount, status)
    }

    var total int
    if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
        return nil, 0, err
    }

    return campaigns, total, nil
}

func (r *CampaignRepository) UpdateStatus(campaignID int, status string) error {
    query := `UPDATE campaigns SET status=$1, updated_at=$2 WHERE id=$3`
    _, err := r.DB.Exec(query, status, time.Now(), campaignID)
    return err
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
