// internal/service/scheduler.go
package service

import (
    "context"
    "fmt"
    "sync"
    "time"

    "github.com/robfig/cron/v3"
    "github.com/rs/zerolog"

    "github.com/postpilot/postpilot-backend/internal/model"
    "github.com/postpilot/postpilot-backend/internal/repository"
)

type SchedulerConfig struct {
    RecoveryInterval time.Duration // how often the failed-post sweep runs
    RetryDelay       time.Duration // how far in the future a requeued post lands
    RetryMax         int           // 0 = retry forever
    PublishTimeout   time.Duration // per publish attempt
}

func (c SchedulerConfig) withDefaults() SchedulerConfig {
    if c.RecoveryInterval <= 0 {
        c.RecoveryInterval = time.Hour
    }
    if c.RetryDelay <= 0 {
        c.RetryDelay = time.Hour
    }
    if c.PublishTimeout <= 0 {
        c.PublishTimeout = 30 * time.Second
    }
    return c
}

// publishRunner is the slice of the publish pipeline the scheduler needs.
type publishRunner interface {
    Publish(ctx context.Context, postID int) error
}

// PostScheduler owns every pending publication timer. Timers live only in
// memory; the posts table is the source of truth, and Initialize rebuilds the
// timer map from it after a restart.
type PostScheduler struct {
    PostRepo repository.PostRepositoryInterface
    Pipeline publishRunner

    cfg SchedulerConfig
    log zerolog.Logger

    mu     sync.Mutex
    timers map[int]*time.Timer
    // vers lets a fired or cancelled timer detect that it has been superseded;
    // stale callbacks bail out instead of publishing twice.
    vers map[int]uint64

    cron  *cron.Cron
    nowFn func() time.Time
}

func NewPostScheduler(postRepo repository.PostRepositoryInterface, pipeline publishRunner, cfg SchedulerConfig, log zerolog.Logger) *PostScheduler {
    return &PostScheduler{
        PostRepo: postRepo,
        Pipeline: pipeline,
        cfg:      cfg.withDefaults(),
        log:      log.With().Str("component", "scheduler").Logger(),
        timers:   map[int]*time.Timer{},
        vers:     map[int]uint64{},
        nowFn:    time.Now,
    }
}

func (s *PostScheduler) now() time.Time {
    if s.nowFn != nil {
        return s.nowFn()
    }
    return time.Now()
}

// Start rebuilds timers from persisted posts and begins the recovery sweep.
func (s *PostScheduler) Start() error {
    if err := s.Initialize(); err != nil {
        return err
    }
    s.cron = cron.New()
    _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.cfg.RecoveryInterval), s.RecoverFailedPosts)
    if err != nil {
        return fmt.Errorf("failed to register recovery sweep: %w", err)
    }
    s.cron.Start()
    s.log.Info().Dur("recovery_interval", s.cfg.RecoveryInterval).Msg("scheduler started")
    return nil
}

func (s *PostScheduler) Stop() {
    if s.cron != nil {
        <-s.cron.Stop().Done()
        s.cron = nil
    }

    s.mu.Lock()
    for id, t := range s.timers {
        _ = t.Stop()
        s.vers[id]++
    }
    s.timers = map[int]*time.Timer{}
    s.mu.Unlock()

    s.log.Info().Msg("scheduler stopped")
}

// SchedulePost installs (or replaces) the timer for a post. Past-due posts
// publish immediately without a timer. The latest call wins: any previous
// timer for the same post id is cancelled first, so there is at most one live
// timer per post.
func (s *PostScheduler) SchedulePost(post *model.Post) {
    delay := post.ScheduledAt.Sub(s.now())
    if delay <= 0 {
        s.log.Info().Int("post_id", post.ID).Msg("post already due, publishing now")
        s.mu.Lock()
        if t, ok := s.timers[post.ID]; ok {
            _ = t.Stop()
            delete(s.timers, post.ID)
        }
        s.vers[post.ID]++
        s.mu.Unlock()
        go s.fire(post.ID)
        return
    }

    id := post.ID
    s.mu.Lock()
    if t, ok := s.timers[id]; ok {
        _ = t.Stop()
        delete(s.timers, id)
    }
    ver := s.vers[id] + 1
    s.vers[id] = ver
    s.timers[id] = time.AfterFunc(delay, func() {
        s.mu.Lock()
        if s.vers[id] != ver {
            s.mu.Unlock()
            return
        }
        delete(s.timers, id)
        s.mu.Unlock()
        s.fire(id)
    })
    s.mu.Unlock()

    s.log.Debug().Int("post_id", id).Time("at", post.ScheduledAt).Msg("post scheduled")
}

// CancelScheduledPost stops and discards the pending timer; a no-op when none
// exists. It cannot abort a publish that is already in flight.
func (s *PostScheduler) CancelScheduledPost(postID int) {
    s.mu.Lock()
    t, ok := s.timers[postID]
    if ok {
        _ = t.Stop()
        delete(s.timers, postID)
        s.vers[postID]++
    }
    s.mu.Unlock()

    if !ok {
        s.log.Debug().Int("post_id", postID).Msg("cancel requested but no timer pending")
        return
    }
    s.log.Info().Int("post_id", postID).Msg("scheduled post cancelled")
}

// Initialize loads every scheduled/approved post and re-installs its timer.
// Posts whose instant passed while the process was down go straight to the
// publish path via SchedulePost's past-due branch.
func (s *PostScheduler) Initialize() error {
    posts, err := s.PostRepo.ListPending()
    if err != nil {
        return fmt.Errorf("failed to list pending posts: %w", err)
    }
    for _, p := range posts {
        s.SchedulePost(p)
    }
    s.log.Info().Int("count", len(posts)).Msg("timers rebuilt from store")
    return nil
}

// RecoverFailedPosts requeues every failed post (all campaigns, all owners)
// with a fresh target instant and a cleared error. Posts at the retry ceiling
// stay failed until someone intervenes.
func (s *PostScheduler) RecoverFailedPosts() {
    failed, err := s.PostRepo.ListByStatus(model.PostFailed)
    if err != nil {
        s.log.Error().Err(err).Msg("recovery sweep could not list failed posts")
        return
    }

    requeued := 0
    for _, p := range failed {
        if s.cfg.RetryMax > 0 && p.RetryCount >= s.cfg.RetryMax {
            s.log.Warn().Int("post_id", p.ID).Int("retries", p.RetryCount).Msg("retry ceiling reached, leaving post failed")
            continue
        }

        at := s.now().Add(s.cfg.RetryDelay)
        if err := s.PostRepo.Requeue(p.ID, at); err != nil {
            s.log.Error().Err(err).Int("post_id", p.ID).Msg("failed to requeue post")
            continue
        }

        p.Status = model.PostScheduled
        p.ScheduledAt = at
        p.LastError = ""
        s.SchedulePost(p)
        requeued++
    }

    if len(failed) > 0 {
        s.log.Info().Int("failed", len(failed)).Int("requeued", requeued).Msg("recovery sweep complete")
    }
}

// fire runs one publish attempt. The pipeline records the outcome on the post
// row itself; errors here are only logged since nothing may escape a timer
// callback.
func (s *PostScheduler) fire(postID int) {
    defer func() {
        if r := recover(); r != nil {
            s.log.Error().Int("post_id", postID).Interface("panic", r).Msg("panic during publish")
            if err := s.PostRepo.MarkFailed(postID, fmt.Sprintf("publish panic: %v", r)); err != nil {
                s.log.Error().Err(err).Int("post_id", postID).Msg("failed to record panic outcome")
            }
        }
    }()

    ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PublishTimeout)
    defer cancel()

    if err := s.Pipeline.Publish(ctx, postID); err != nil {
        s.log.Warn().Err(err).Int("post_id", postID).Msg("publish attempt failed")
    }
}
