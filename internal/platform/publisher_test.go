// internal/platform/publisher_test.go
package platform

import (
    "context"
    "strings"
    "testing"

    "github.com/postpilot/postpilot-backend/internal/model"
)

type stubPublisher struct {
    name   string
    result *PublishResult
    calls  int
}

func (s *stubPublisher) Name() string { return s.name }

func (s *stubPublisher) Publish(_ context.Context, content string, _ *model.SocialAccount) (*PublishResult, error) {
    s.calls++
    return s.result, nil
}

func TestRegistryRoutesByPlatformName(t *testing.T) {
    tw := &stubPublisher{name: "twitter", result: &PublishResult{PlatformPostID: "tw_1"}}
    li := &stubPublisher{name: "linkedin", result: &PublishResult{PlatformPostID: "li_1"}}
    r := NewRegistry(tw, li)

    res, err := r.Publish(context.Background(), "linkedin", "hello", &model.SocialAccount{})
    if err != nil {
        t.Fatalf("Publish: %v", err)
    }
    if res.PlatformPostID != "li_1" {
        t.Errorf("routed to wrong adapter, got %q", res.PlatformPostID)
    }
    if tw.calls != 0 || li.calls != 1 {
        t.Errorf("call counts: twitter=%d linkedin=%d", tw.calls, li.calls)
    }
}

func TestRegistryUnknownPlatform(t *testing.T) {
    r := NewRegistry(&stubPublisher{name: "twitter"})

    _, err := r.Publish(context.Background(), "myspace", "hello", &model.SocialAccount{})
    if err == nil {
        t.Fatal("expected error for unregistered platform")
    }
    if !strings.Contains(err.Error(), "no publisher registered for platform myspace") {
        t.Errorf("error = %q", err)
    }
}

func TestRegistryPlatforms(t *testing.T) {
    r := NewRegistry(&stubPublisher{name: "twitter"}, &stubPublisher{name: "slack"})
    names := r.Platforms()
    if len(names) != 2 {
        t.Fatalf("got %d platforms, want 2", len(names))
    }
}

func TestSimulatedResult(t *testing.T) {
    res := simulatedResult("twitter")
    if !strings.HasPrefix(res.PlatformPostID, "twitter_sim_") {
        t.Errorf("post id %q missing simulate marker", res.PlatformPostID)
    }
    if res.Engagement.Reach < 500 || res.Engagement.Reach >= 5000 {
        t.Errorf("reach %d outside expected range", res.Engagement.Reach)
    }
    if res.Engagement.Likes < 10 {
        t.Errorf("likes %d below floor", res.Engagement.Likes)
    }

    other := simulatedResult("twitter")
    if other.PlatformPostID == res.PlatformPostID {
        t.Error("simulated ids must be unique")
    }
}

func TestTruncateBody(t *testing.T) {
    long := strings.Repeat("x", 400)
    got := truncateBody([]byte(long))
    if len(got) != 300 {
        t.Errorf("truncated length = %d, want 300", len(got))
    }
    if !strings.HasSuffix(got, "...") {
        t.Error("truncation marker missing")
    }
    if short := truncateBody([]byte("  oops  ")); short != "oops" {
        t.Errorf("short body = %q", short)
    }
}
