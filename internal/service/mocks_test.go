// internal/service/mocks_test.go
package service

import (
    "context"
    "errors"
    "sync"
    "time"

    "github.com/postpilot/postpilot-backend/internal/model"
    "github.com/postpilot/postpilot-backend/internal/platform"
)

// fakePostRepo is an in-memory PostRepositoryInterface for tests.
type fakePostRepo struct {
    mu    sync.Mutex
    seq   int
    posts map[int]*model.Post

    createErr error
    writes    int // MarkFailed + MarkPublished + Requeue + UpdateStatus calls
}

func newFakePostRepo() *fakePostRepo {
    return &fakePostRepo{posts: map[int]*model.Post{}}
}

func (f *fakePostRepo) add(p *model.Post) *model.Post {
    f.mu.Lock()
    defer f.mu.Unlock()
    if p.ID == 0 {
        f.seq++
        p.ID = f.seq
    } else if p.ID > f.seq {
        f.seq = p.ID
    }
    f.posts[p.ID] = p
    return p
}

func (f *fakePostRepo) Create(p *model.Post) error {
    if f.createErr != nil {
        return f.createErr
    }
    if p.Status == "" {
        p.Status = model.PostScheduled
    }
    f.add(p)
    return nil
}

func (f *fakePostRepo) GetByID(id int) (*model.Post, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    p, ok := f.posts[id]
    if !ok {
        return nil, nil
    }
    cp := *p
    return &cp, nil
}

func (f *fakePostRepo) GetByCampaignPlatformDay(campaignID int, platformName string, dayIndex int) (*model.Post, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    for _, p := range f.posts {
        if p.CampaignID == campaignID && p.Platform == platformName && p.DayIndex == dayIndex {
            cp := *p
            return &cp, nil
        }
    }
    return nil, nil
}

func (f *fakePostRepo) ListByCampaign(campaignID int) ([]*model.Post, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    var out []*model.Post
    for _, p := range f.posts {
        if p.CampaignID == campaignID {
            cp := *p
            out = append(out, &cp)
        }
    }
    return out, nil
}

func (f *fakePostRepo) ListByStatus(status string) ([]*model.Post, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    var out []*model.Post
    for _, p := range f.posts {
        if p.Status == status {
            cp := *p
            out = append(out, &cp)
        }
    }
    return out, nil
}

func (f *fakePostRepo) ListPending() ([]*model.Post, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    var out []*model.Post
    for _, p := range f.posts {
        if p.Status == model.PostScheduled || p.Status == model.PostApproved {
            cp := *p
            out = append(out, &cp)
        }
    }
    return out, nil
}

func (f *fakePostRepo) Requeue(id int, scheduledAt time.Time) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    p, ok := f.posts[id]
    if !ok {
        return errors.New("post not found")
    }
    p.Status = model.PostScheduled
    p.ScheduledAt = scheduledAt
    p.LastError = ""
    f.writes++
    return nil
}

func (f *fakePostRepo) MarkFailed(id int, lastError string) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    p, ok := f.posts[id]
    if !ok {
        return errors.New("post not found")
    }
    p.Status = model.PostFailed
    p.LastError = lastError
    p.RetryCount++
    f.writes++
    return nil
}

func (f *fakePostRepo) MarkPublished(id int, platformPostID string, engagement model.Engagement, publishedAt time.Time) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    p, ok := f.posts[id]
    if !ok {
        return errors.New("post not found")
    }
    p.Status = model.PostPublished
    p.PlatformPostID = platformPostID
    p.Engagement = engagement
    p.PublishedAt = &publishedAt
    p.LastError = ""
    f.writes++
    return nil
}

func (f *fakePostRepo) UpdateStatus(id int, status string) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    p, ok := f.posts[id]
    if !ok {
        return errors.New("post not found")
    }
    p.Status = status
    f.writes++
    return nil
}

func (f *fakePostRepo) CountByStatus(campaignID int) (map[string]int, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    out := map[string]int{}
    for _, p := range f.posts {
        if p.CampaignID == campaignID {
            out[p.Status]++
            out["total"]++
        }
    }
    return out, nil
}

func (f *fakePostRepo) writeCount() int {
    f.mu.Lock()
    defer f.mu.Unlock()
    return f.writes
}

func (f *fakePostRepo) get(id int) model.Post {
    f.mu.Lock()
    defer f.mu.Unlock()
    return *f.posts[id]
}

type fakeCampaignRepo struct {
    campaigns map[int]*model.Campaign
    getErr    error
}

func (f *fakeCampaignRepo) Create(c *model.Campaign) error { return nil }

func (f *fakeCampaignRepo) GetByID(id int) (*model.Campaign, error) {
    if f.getErr != nil {
        return nil, f.getErr
    }
    c, ok := f.campaigns[id]
    if !ok {
        return nil, errors.New("campaign not found")
    }
    return c, nil
}

func (f *fakeCampaignRepo) ListCampaigns(offset, limit int, status string) ([]*model.Campaign, int, error) {
    return nil, 0, nil
}

func (f *fakeCampaignRepo) UpdateStatus(campaignID int, status string) error { return nil }

type fakeAccountRepo struct {
    accounts map[string]*model.SocialAccount // keyed by platform
}

func (f *fakeAccountRepo) GetActive(userID int, platformName string) (*model.SocialAccount, error) {
    return f.accounts[platformName], nil
}

func (f *fakeAccountRepo) ListByUser(userID int) ([]model.SocialAccount, error) {
    return nil, nil
}

// fakeGenerator returns scripted content or errors.
type fakeGenerator struct {
    mu      sync.Mutex
    content string
    err     error
    calls   int
}

func (f *fakeGenerator) Generate(_ context.Context, req GenerateRequest) (string, error) {
    f.mu.Lock()
    f.calls++
    f.mu.Unlock()
    if f.err != nil {
        return "", f.err
    }
    return f.content, nil
}

// fakeScheduler records SchedulePost calls.
type fakeScheduler struct {
    mu    sync.Mutex
    posts []*model.Post
}

func (f *fakeScheduler) SchedulePost(post *model.Post) {
    f.mu.Lock()
    defer f.mu.Unlock()
    f.posts = append(f.posts, post)
}

func (f *fakeScheduler) count() int {
    f.mu.Lock()
    defer f.mu.Unlock()
    return len(f.posts)
}

// fakePipeline counts publish attempts and signals each one.
type fakePipeline struct {
    mu       sync.Mutex
    attempts []int
    err      error
    fired    chan int
}

func newFakePipeline() *fakePipeline {
    return &fakePipeline{fired: make(chan int, 16)}
}

func (f *fakePipeline) Publish(_ context.Context, postID int) error {
    f.mu.Lock()
    f.attempts = append(f.attempts, postID)
    f.mu.Unlock()
    f.fired <- postID
    return f.err
}

func (f *fakePipeline) count() int {
    f.mu.Lock()
    defer f.mu.Unlock()
    return len(f.attempts)
}

// fakeRegistry is a scripted PlatformRegistry.
type fakeRegistry struct {
    result *platform.PublishResult
    err    error
    calls  int
}

func (f *fakeRegistry) Publish(_ context.Context, platformName, content string, account *model.SocialAccount) (*platform.PublishResult, error) {
    f.calls++
    if f.err != nil {
        return nil, f.err
    }
    return f.result, nil
}
