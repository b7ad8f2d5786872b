// internal/controller/post_controller.go
package controller

import (
    "encoding/json"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"
    "github.com/rs/zerolog"

    "github.com/postpilot/postpilot-backend/internal/model"
    "github.com/postpilot/postpilot-backend/internal/repository"
)

// PostSchedulerInterface is what the post endpoints need from the scheduler.
type PostSchedulerInterface interface {
    SchedulePost(post *model.Post)
    CancelScheduledPost(postID int)
}

type PostController struct {
    PostRepo  repository.PostRepositoryInterface
    Scheduler PostSchedulerInterface
    Log       zerolog.Logger
}

// ApprovePost marks a post approved and (re)installs its publication timer.
func (c *PostController) ApprovePost(w http.ResponseWriter, r *http.Request) {
    post, ok := c.loadPost(w, r)
    if !ok {
        return
    }

    if post.Status == model.PostPublished {
        http.Error(w, "post is already published", http.StatusConflict)
        return
    }

    if err := c.PostRepo.UpdateStatus(post.ID, model.PostApproved); err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }
    post.Status = model.PostApproved
    c.Scheduler.SchedulePost(post)

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(post)
}

// CancelPost discards the pending timer and marks the post cancelled. An
// attempt already in flight is not aborted.
func (c *PostController) CancelPost(w http.ResponseWriter, r *http.Request) {
    post, ok := c.loadPost(w, r)
    if !ok {
        return
    }

    if post.Status == model.PostPublished {
        http.Error(w, "post is already published", http.StatusConflict)
        return
    }

    c.Scheduler.CancelScheduledPost(post.ID)
    if err := c.PostRepo.UpdateStatus(post.ID, model.PostCancelled); err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }
    post.Status = model.PostCancelled

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(post)
}

func (c *PostController) GetPost(w http.ResponseWriter, r *http.Request) {
    post, ok := c.loadPost(w, r)
    if !ok {
        return
    }
    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(post)
}

func (c *PostController) loadPost(w http.ResponseWriter, r *http.Request) (*model.Post, bool) {
    idStr := chi.URLParam(r, "id")
    id, err := strconv.Atoi(idStr)
    if err != nil {
        http.Error(w, "invalid post id", http.StatusBadRequest)
        return nil, false
    }

    post, err := c.PostRepo.GetByID(id)
    if err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return nil, false
    }
    if post == nil {
        http.Error(w, "post not found", http.StatusNotFound)
        return nil, false
    }
    return post, true
}
