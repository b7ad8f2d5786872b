// internal/controller/campaign_controller.go
package controller

import (
    "encoding/json"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/rs/zerolog"

    "github.com/postpilot/postpilot-backend/internal/model"
    "github.com/postpilot/postpilot-backend/internal/queue"
    "github.com/postpilot/postpilot-backend/internal/repository"
)

type CampaignController struct {
    CampaignRepo repository.CampaignRepositoryInterface
    PostRepo     repository.PostRepositoryInterface
    Queue        queue.Queue
    Log          zerolog.Logger
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
    var body struct {
        UserID       int      `json:"user_id"`
        Name         string   `json:"name"`
        Prompt       string   `json:"prompt"`
        Tone         string   `json:"tone"`
        Platforms    []string `json:"platforms"`
        DurationDays int      `json:"duration_days"`
        PostingTime  string   `json:"posting_time"`
        Timezone     string   `json:"timezone"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    if strings.TrimSpace(body.Name) == "" || strings.TrimSpace(body.Prompt) == "" {
        http.Error(w, "name and prompt are required", http.StatusBadRequest)
        return
    }
    if len(body.Platforms) == 0 {
        http.Error(w, "at least one platform is required", http.StatusBadRequest)
        return
    }
    if body.DurationDays < 0 {
        http.Error(w, "duration_days cannot be negative", http.StatusBadRequest)
        return
    }
    if body.PostingTime == "" {
        body.PostingTime = "09:00"
    }
    if _, err := time.Parse("15:04", body.PostingTime); err != nil {
        http.Error(w, "posting_time must be HH:MM", http.StatusBadRequest)
        return
    }
    if body.Tone == "" {
        body.Tone = "professional"
    }

    campaign := &model.Campaign{
        UserID:       body.UserID,
        Name:         body.Name,
        Prompt:       body.Prompt,
        Tone:         body.Tone,
        Platforms:    body.Platforms,
        DurationDays: body.DurationDays,
        PostingTime:  body.PostingTime,
        Timezone:     body.Timezone,
        Status:       model.CampaignActive,
    }
    if err := c.CampaignRepo.Create(campaign); err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }

    // Fan-out is fire-and-forget; campaign creation never waits on generation.
    if err := c.Queue.Publish(queue.FanoutTopic, campaign.ID); err != nil {
        c.Log.Error().Err(err).Int("campaign_id", campaign.ID).Msg("failed to enqueue fan-out job")
    }

    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusCreated)
    json.NewEncoder(w).Encode(campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
    page, _ := strconv.Atoi(r.URL.Query().Get("page"))
    pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
    status := r.URL.Query().Get("status")

    if page < 1 {
        page = 1
    }
    if pageSize < 1 {
        pageSize = 20
    }
    if pageSize > 100 {
        pageSize = 100
    }
    offset := (page - 1) * pageSize

    campaigns, total, err := c.CampaignRepo.ListCampaigns(offset, pageSize, status)
    if err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }

    totalPages := (total + pageSize - 1) / pageSize
    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{
        "data": campaigns,
        "pagination": map[string]int{
            "page":        page,
            "page_size":   pageSize,
            "total_count": total,
            "total_pages": totalPages,
        },
    })
}

func (c *CampaignController) ListCampaignPosts(w http.ResponseWriter, r *http.Request) {
    idStr := chi.URLParam(r, "id")
    id, err := strconv.Atoi(idStr)
    if err != nil {
        http.Error(w, "invalid campaign id", http.StatusBadRequest)
        return
    }

    posts, err := c.PostRepo.ListByCampaign(id)
    if err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{"data": posts})
}

func (c *CampaignController) PauseCampaign(w http.ResponseWriter, r *http.Request) {
    c.setStatus(w, r, model.CampaignPaused)
}

func (c *CampaignController) ResumeCampaign(w http.ResponseWriter, r *http.Request) {
    c.setStatus(w, r, model.CampaignActive)
}

func (c *CampaignController) setStatus(w http.ResponseWriter, r *http.Request, status string) {
    idStr := chi.URLParam(r, "id")
    id, err := strconv.Atoi(idStr)
    if err != nil {
        http.Error(w, "invalid campaign id", http.StatusBadRequest)
        return
    }

    if _, err := c.CampaignRepo.GetByID(id); err != nil {
        http.Error(w, err.Error(), http.StatusNotFound)
        return
    }

    if err := c.CampaignRepo.UpdateStatus(id, status); err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{"id": id, "status": status})
}
