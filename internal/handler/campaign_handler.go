// internal/handler/campaign_handler.go
package handler

import (
    "encoding/json"
    "net/http"
    "strconv"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/lib/pq"

    "github.com/postpilot/postpilot-backend/internal/repository"
)

// CampaignHandler serves the campaign detail view with per-status post stats.
type CampaignHandler struct {
    CampaignRepo repository.CampaignRepositoryInterface
    PostRepo     repository.PostRepositoryInterface
}

type campaignDetails struct {
    ID           int            `json:"id"`
    UserID       int            `json:"user_id"`
    Name         string         `json:"name"`
    Prompt       string         `json:"prompt"`
    Tone         string         `json:"tone"`
    Platforms    pq.StringArray `json:"platforms"`
    DurationDays int            `json:"duration_days"`
    PostingTime  string         `json:"posting_time"`
    Status       string         `json:"status"`
    CreatedAt    time.Time      `json:"created_at"`
    UpdatedAt    *time.Time     `json:"updated_at,omitempty"`
    Stats        map[string]int `json:"stats"`
}

func (h *CampaignHandler) GetCampaignWithStats(w http.ResponseWriter, r *http.Request) {
    idStr := chi.URLParam(r, "id")
    id, err := strconv.Atoi(idStr)
    if err != nil {
        http.Error(w, "invalid campaign id", http.StatusBadRequest)
        return
    }

    campaign, err := h.CampaignRepo.GetByID(id)
    if err != nil {
        http.Error(w, "failed to fetch campaign: "+err.Error(), http.StatusNotFound)
        return
    }

    stats, err := h.PostRepo.CountByStatus(id)
    if err != nil {
        http.Error(w, "failed to fetch stats: "+err.Error(), http.StatusInternalServerError)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(campaignDetails{
        ID:           campaign.ID,
        UserID:       campaign.UserID,
        Name:         campaign.Name,
        Prompt:       campaign.Prompt,
        Tone:         campaign.Tone,
        Platforms:    campaign.Platforms,
        DurationDays: campaign.DurationDays,
        PostingTime:  campaign.PostingTime,
        Status:       campaign.Status,
        CreatedAt:    campaign.CreatedAt,
        UpdatedAt:    campaign.UpdatedAt,
        Stats:        stats,
    })
}
