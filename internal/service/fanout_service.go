// internal/service/fanout_service.go
package service

import (
    "context"
    "fmt"
    "strings"
    "time"

    "github.com/rs/zerolog"

    "github.com/postpilot/postpilot-backend/internal/model"
    "github.com/postpilot/postpilot-backend/internal/repository"
)

// PostSchedulerInterface is the slice of the scheduler the fan-out needs.
type PostSchedulerInterface interface {
    SchedulePost(post *model.Post)
}

// FanoutService expands one campaign into per-platform, per-day posts.
type FanoutService struct {
    PostRepo  repository.PostRepositoryInterface
    Generator Generator
    Fallback  Generator
    Scheduler PostSchedulerInterface
    Log       zerolog.Logger

    nowFn func() time.Time
}

func NewFanoutService(postRepo repository.PostRepositoryInterface, gen Generator, scheduler PostSchedulerInterface, log zerolog.Logger) *FanoutService {
    return &FanoutService{
        PostRepo:  postRepo,
        Generator: gen,
        Fallback:  &TemplateGenerator{},
        Scheduler: scheduler,
        Log:       log.With().Str("component", "fanout").Logger(),
        nowFn:     time.Now,
    }
}

func (s *FanoutService) now() time.Time {
    if s.nowFn != nil {
        return s.nowFn()
    }
    return time.Now()
}

// GenerateCampaignPosts creates one scheduled post per (platform, day) slot.
// Generator failures are absorbed per post via the template fallback; storage
// failures skip the slot and continue, so a single bad slot never aborts the
// rest of the fan-out.
func (s *FanoutService) GenerateCampaignPosts(ctx context.Context, campaign *model.Campaign) error {
    if len(campaign.Platforms) == 0 {
        return fmt.Errorf("campaign %d has no target platforms", campaign.ID)
    }

    days := campaign.Days()
    created := 0

    for _, platformName := range campaign.Platforms {
        prior := []string{}

        for day := 1; day <= days; day++ {
            existing, err := s.PostRepo.GetByCampaignPlatformDay(campaign.ID, platformName, day)
            if err != nil {
                s.Log.Error().Err(err).Int("campaign_id", campaign.ID).Str("platform", platformName).Int("day", day).Msg("dedup check failed, skipping slot")
                continue
            }
            if existing != nil {
                prior = append(prior, existing.Content)
                continue
            }

            content := s.generateContent(ctx, campaign, platformName, day, prior)

            post := &model.Post{
                CampaignID:  campaign.ID,
                Platform:    platformName,
                DayIndex:    day,
                Content:     content,
                Status:      model.PostScheduled,
                ScheduledAt: s.scheduleFor(campaign, day),
            }
            if err := s.PostRepo.Create(post); err != nil {
                s.Log.Error().Err(err).Int("campaign_id", campaign.ID).Str("platform", platformName).Int("day", day).Msg("failed to create post")
                continue
            }

            prior = append(prior, content)
            created++

            if s.Scheduler != nil {
                s.Scheduler.SchedulePost(post)
            }
        }
    }

    s.Log.Info().Int("campaign_id", campaign.ID).Int("posts", created).Msg("fan-out complete")
    return nil
}

func (s *FanoutService) generateContent(ctx context.Context, campaign *model.Campaign, platformName string, day int, prior []string) string {
    req := GenerateRequest{
        Prompt:        campaign.Prompt,
        Tone:          campaign.Tone,
        Platform:      platformName,
        DayIndex:      day,
        PriorContents: prior,
    }

    if s.Generator != nil {
        content, err := s.Generator.Generate(ctx, req)
        if err == nil && len(strings.TrimSpace(content)) >= MinContentLength {
            return content
        }
        if err != nil {
            s.Log.Warn().Err(err).Str("platform", platformName).Int("day", day).Msg("generator failed, using template fallback")
        } else {
            s.Log.Warn().Str("platform", platformName).Int("day", day).Msg("generator returned degenerate output, using template fallback")
        }
    }

    content, _ := s.Fallback.Generate(ctx, req)
    return content
}

// scheduleFor computes the target instant for a day slot: campaign start date
// plus (day-1) days, at the campaign's posting time in its timezone. Instant
// campaigns are due now.
func (s *FanoutService) scheduleFor(campaign *model.Campaign, day int) time.Time {
    if campaign.Instant() {
        return s.now()
    }

    loc, err := time.LoadLocation(campaign.Timezone)
    if err != nil || campaign.Timezone == "" {
        loc = time.UTC
    }

    hour, minute, err := parsePostingTime(campaign.PostingTime)
    if err != nil {
        hour, minute = 9, 0
    }

    start := campaign.CreatedAt.In(loc).AddDate(0, 0, day-1)
    return time.Date(start.Year(), start.Month(), start.Day(), hour, minute, 0, 0, loc)
}

func parsePostingTime(s string) (hour, minute int, err error) {
    t, err := time.Parse("15:04", strings.TrimSpace(s))
    if err != nil {
        return 0, 0, fmt.Errorf("invalid posting time %q, expected HH:MM", s)
    }
    return t.Hour(), t.Minute(), nil
}
