// internal/service/fanout_service_test.go
package service

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "testing"
    "time"

    "github.com/rs/zerolog"

    "github.com/postpilot/postpilot-backend/internal/model"
)

func testCampaign() *model.Campaign {
    return &model.Campaign{
        ID:           1,
        UserID:       1,
        Name:         "Spring Launch",
        Prompt:       "our spring product launch",
        Tone:         "excited",
        Platforms:    []string{"twitter", "linkedin"},
        DurationDays: 3,
        PostingTime:  "09:00",
        Timezone:     "UTC",
        Status:       model.CampaignActive,
        CreatedAt:    time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC),
    }
}

func newTestFanout(repo *fakePostRepo, gen Generator, sched PostSchedulerInterface) *FanoutService {
    return NewFanoutService(repo, gen, sched, zerolog.Nop())
}

func TestGenerateCampaignPostsCreatesOnePostPerSlot(t *testing.T) {
    repo := newFakePostRepo()
    gen := &fakeGenerator{content: "A generated post that is long enough to keep."}
    svc := newTestFanout(repo, gen, nil)
    campaign := testCampaign()

    if err := svc.GenerateCampaignPosts(context.Background(), campaign); err != nil {
        t.Fatalf("GenerateCampaignPosts: %v", err)
    }

    posts, _ := repo.ListByCampaign(campaign.ID)
    if len(posts) != 6 {
        t.Fatalf("expected 6 posts (2 platforms x 3 days), got %d", len(posts))
    }

    seen := map[string]bool{}
    for _, p := range posts {
        key := fmt.Sprintf("%s/%d", p.Platform, p.DayIndex)
        if seen[key] {
            t.Errorf("duplicate slot %s", key)
        }
        seen[key] = true

        if p.Status != model.PostScheduled {
            t.Errorf("slot %s: status = %q, want %q", key, p.Status, model.PostScheduled)
        }
        if p.DayIndex < 1 || p.DayIndex > 3 {
            t.Errorf("slot %s: day index out of range", key)
        }
    }
}

func TestGenerateCampaignPostsScheduleIsDailyAtPostingTime(t *testing.T) {
    repo := newFakePostRepo()
    gen := &fakeGenerator{content: "A generated post that is long enough to keep."}
    svc := newTestFanout(repo, gen, nil)
    campaign := testCampaign()

    if err := svc.GenerateCampaignPosts(context.Background(), campaign); err != nil {
        t.Fatalf("GenerateCampaignPosts: %v", err)
    }

    byDay := map[int]time.Time{}
    posts, _ := repo.ListByCampaign(campaign.ID)
    for _, p := range posts {
        if p.Platform != "twitter" {
            continue
        }
        byDay[p.DayIndex] = p.ScheduledAt
    }

    want1 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
    if !byDay[1].Equal(want1) {
        t.Errorf("day 1 scheduled at %v, want %v", byDay[1], want1)
    }
    for day := 2; day <= 3; day++ {
        if !byDay[day].Equal(byDay[day-1].AddDate(0, 0, 1)) {
            t.Errorf("day %d not exactly one day after day %d: %v vs %v", day, day-1, byDay[day], byDay[day-1])
        }
    }
}

func TestGenerateCampaignPostsInstantCampaign(t *testing.T) {
    repo := newFakePostRepo()
    gen := &fakeGenerator{content: "A generated post that is long enough to keep."}
    svc := newTestFanout(repo, gen, nil)
    now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
    svc.nowFn = func() time.Time { return now }

    campaign := testCampaign()
    campaign.DurationDays = 0

    if err := svc.GenerateCampaignPosts(context.Background(), campaign); err != nil {
        t.Fatalf("GenerateCampaignPosts: %v", err)
    }

    posts, _ := repo.ListByCampaign(campaign.ID)
    if len(posts) != 2 {
        t.Fatalf("expected 1 post per platform, got %d", len(posts))
    }
    for _, p := range posts {
        if p.DayIndex != 1 {
            t.Errorf("instant campaign produced day index %d", p.DayIndex)
        }
        if !p.ScheduledAt.Equal(now) {
            t.Errorf("instant post scheduled at %v, want %v", p.ScheduledAt, now)
        }
    }
}

func TestGenerateCampaignPostsFallsBackWhenGeneratorFails(t *testing.T) {
    repo := newFakePostRepo()
    gen := &fakeGenerator{err: errors.New("api quota exceeded")}
    svc := newTestFanout(repo, gen, nil)
    campaign := testCampaign()

    if err := svc.GenerateCampaignPosts(context.Background(), campaign); err != nil {
        t.Fatalf("GenerateCampaignPosts: %v", err)
    }

    posts, _ := repo.ListByCampaign(campaign.ID)
    if len(posts) != 6 {
        t.Fatalf("generator failure must not abort fan-out, got %d posts", len(posts))
    }
    for _, p := range posts {
        if len(strings.TrimSpace(p.Content)) < MinContentLength {
            t.Errorf("fallback content too short: %q", p.Content)
        }
        if !strings.Contains(p.Content, campaign.Prompt) {
            t.Errorf("fallback content does not mention the prompt: %q", p.Content)
        }
    }
}

func TestGenerateCampaignPostsFallsBackOnDegenerateOutput(t *testing.T) {
    repo := newFakePostRepo()
    gen := &fakeGenerator{content: "too short"}
    svc := newTestFanout(repo, gen, nil)

    if err := svc.GenerateCampaignPosts(context.Background(), testCampaign()); err != nil {
        t.Fatalf("GenerateCampaignPosts: %v", err)
    }

    posts, _ := repo.ListByCampaign(1)
    for _, p := range posts {
        if p.Content == "too short" {
            t.Fatalf("degenerate generator output was kept")
        }
    }
}

func TestGenerateCampaignPostsSkipsExistingSlots(t *testing.T) {
    repo := newFakePostRepo()
    repo.add(&model.Post{
        CampaignID: 1, Platform: "twitter", DayIndex: 1,
        Content: "already here", Status: model.PostPublished,
        ScheduledAt: time.Now(),
    })

    gen := &fakeGenerator{content: "A generated post that is long enough to keep."}
    svc := newTestFanout(repo, gen, nil)

    if err := svc.GenerateCampaignPosts(context.Background(), testCampaign()); err != nil {
        t.Fatalf("GenerateCampaignPosts: %v", err)
    }

    posts, _ := repo.ListByCampaign(1)
    if len(posts) != 6 {
        t.Fatalf("expected 6 posts total after re-run, got %d", len(posts))
    }
    existing, _ := repo.GetByCampaignPlatformDay(1, "twitter", 1)
    if existing.Content != "already here" {
        t.Errorf("existing slot was overwritten: %q", existing.Content)
    }
}

func TestGenerateCampaignPostsRejectsEmptyPlatforms(t *testing.T) {
    svc := newTestFanout(newFakePostRepo(), &fakeGenerator{}, nil)
    campaign := testCampaign()
    campaign.Platforms = nil

    if err := svc.GenerateCampaignPosts(context.Background(), campaign); err == nil {
        t.Fatal("expected error for campaign without platforms")
    }
}

func TestGenerateCampaignPostsHandsPostsToScheduler(t *testing.T) {
    repo := newFakePostRepo()
    sched := &fakeScheduler{}
    gen := &fakeGenerator{content: "A generated post that is long enough to keep."}
    svc := newTestFanout(repo, gen, sched)

    if err := svc.GenerateCampaignPosts(context.Background(), testCampaign()); err != nil {
        t.Fatalf("GenerateCampaignPosts: %v", err)
    }

    if sched.count() != 6 {
        t.Errorf("scheduler received %d posts, want 6", sched.count())
    }
}

func TestGenerateCampaignPostsContinuesPastStorageErrors(t *testing.T) {
    repo := newFakePostRepo()
    repo.createErr = errors.New("disk full")
    svc := newTestFanout(repo, &fakeGenerator{content: "A generated post that is long enough to keep."}, nil)

    if err := svc.GenerateCampaignPosts(context.Background(), testCampaign()); err != nil {
        t.Fatalf("storage errors must not abort fan-out: %v", err)
    }
}

func TestTemplateGeneratorNeverFails(t *testing.T) {
    gen := &TemplateGenerator{}
    for _, platformName := range []string{"twitter", "linkedin", "facebook", "slack", "telegram", "myspace"} {
        content, err := gen.Generate(context.Background(), GenerateRequest{
            Prompt:   "launch week",
            Tone:     "excited",
            Platform: platformName,
            DayIndex: 2,
        })
        if err != nil {
            t.Fatalf("%s: unexpected error %v", platformName, err)
        }
        if len(strings.TrimSpace(content)) < MinContentLength {
            t.Errorf("%s: content too short: %q", platformName, content)
        }
        if !strings.Contains(content, "2") {
            t.Errorf("%s: day number missing from %q", platformName, content)
        }
    }
}

func TestHashTag(t *testing.T) {
    cases := []struct {
        prompt string
        want   string
    }{
        {"spring product launch teasers", "SpringProductLaunch"},
        {"AI", "Ai"},
        {"!!!", "Series"},
        {"", "Series"},
    }
    for _, tc := range cases {
        if got := hashTag(tc.prompt); got != tc.want {
            t.Errorf("hashTag(%q) = %q, want %q", tc.prompt, got, tc.want)
        }
    }
}
