// internal/service/publish_pipeline.go
package service

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/rs/zerolog"

    "github.com/postpilot/postpilot-backend/internal/apperrors"
    "github.com/postpilot/postpilot-backend/internal/model"
    "github.com/postpilot/postpilot-backend/internal/platform"
    "github.com/postpilot/postpilot-backend/internal/repository"
)

// PlatformRegistry is the slice of the platform layer the pipeline needs.
type PlatformRegistry interface {
    Publish(ctx context.Context, platformName, content string, account *model.SocialAccount) (*platform.PublishResult, error)
}

// PublishPipeline performs one publish attempt for one post and records the
// outcome. Every attempt ends in exactly one store write: MarkPublished on
// success, MarkFailed on any failure. Retry is the scheduler's business.
type PublishPipeline struct {
    PostRepo     repository.PostRepositoryInterface
    CampaignRepo repository.CampaignRepositoryInterface
    AccountRepo  repository.SocialAccountRepositoryInterface
    Publishers   PlatformRegistry
    Log          zerolog.Logger

    nowFn func() time.Time
}

func NewPublishPipeline(
    postRepo repository.PostRepositoryInterface,
    campaignRepo repository.CampaignRepositoryInterface,
    accountRepo repository.SocialAccountRepositoryInterface,
    publishers PlatformRegistry,
    log zerolog.Logger,
) *PublishPipeline {
    return &PublishPipeline{
        PostRepo:     postRepo,
        CampaignRepo: campaignRepo,
        AccountRepo:  accountRepo,
        Publishers:   publishers,
        Log:          log.With().Str("component", "publish").Logger(),
        nowFn:        time.Now,
    }
}

func (p *PublishPipeline) now() time.Time {
    if p.nowFn != nil {
        return p.nowFn()
    }
    return time.Now()
}

func (p *PublishPipeline) Publish(ctx context.Context, postID int) error {
    post, err := p.PostRepo.GetByID(postID)
    if err != nil {
        return fmt.Errorf("failed to fetch post %d: %w", postID, err)
    }
    if post == nil {
        return fmt.Errorf("post %d not found", postID)
    }
    if post.Status == model.PostPublished {
        // Duplicate firing; the first one already won.
        p.Log.Debug().Int("post_id", postID).Msg("post already published, skipping")
        return nil
    }
    if post.Status == model.PostCancelled {
        p.Log.Debug().Int("post_id", postID).Msg("post cancelled, skipping")
        return nil
    }

    campaign, err := p.CampaignRepo.GetByID(post.CampaignID)
    if err != nil {
        var notFound *apperrors.ErrCampaignNotFound
        if errors.As(err, &notFound) {
            return p.fail(post.ID, err.Error())
        }
        return p.fail(post.ID, fmt.Sprintf("failed to fetch campaign %d: %v", post.CampaignID, err))
    }

    account, err := p.AccountRepo.GetActive(campaign.UserID, post.Platform)
    if err != nil {
        return p.fail(post.ID, fmt.Sprintf("failed to look up account: %v", err))
    }
    if account == nil {
        return p.fail(post.ID, apperrors.NewNoActiveAccount(campaign.UserID, post.Platform).Error())
    }
    if account.TokenExpired(p.now()) {
        return p.fail(post.ID, apperrors.NewTokenExpired(post.Platform).Error())
    }

    result, err := p.Publishers.Publish(ctx, post.Platform, post.Content, account)
    if err != nil {
        return p.fail(post.ID, err.Error())
    }

    publishedAt := p.now()
    if err := p.PostRepo.MarkPublished(post.ID, result.PlatformPostID, result.Engagement, publishedAt); err != nil {
        return fmt.Errorf("published to %s but failed to record outcome for post %d: %w", post.Platform, post.ID, err)
    }

    p.Log.Info().
        Int("post_id", post.ID).
        Str("platform", post.Platform).
        Str("platform_post_id", result.PlatformPostID).
        Msg("post published")
    return nil
}

// fail records the failure on the post row (the single write for this
// attempt) and returns the failure for the caller's log.
func (p *PublishPipeline) fail(postID int, msg string) error {
    if err := p.PostRepo.MarkFailed(postID, msg); err != nil {
        p.Log.Error().Err(err).Int("post_id", postID).Msg("failed to record publish failure")
        return fmt.Errorf("%s (and failed to record it: %v)", msg, err)
    }
    return errors.New(msg)
}
