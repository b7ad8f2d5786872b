// internal/platform/publisher.go
package platform

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "math/rand"
    "net/http"
    "strings"

    "github.com/google/uuid"

    "github.com/postpilot/postpilot-backend/internal/model"
)

// PublishResult is what a platform hands back after accepting a post.
type PublishResult struct {
    PlatformPostID string
    Engagement     model.Engagement
}

// Publisher transmits one piece of content to one platform.
type Publisher interface {
    Name() string
    Publish(ctx context.Context, content string, account *model.SocialAccount) (*PublishResult, error)
}

// Registry routes publish calls to the adapter registered for a platform.
type Registry struct {
    publishers map[string]Publisher
}

func NewRegistry(publishers ...Publisher) *Registry {
    r := &Registry{publishers: make(map[string]Publisher)}
    for _, p := range publishers {
        r.publishers[p.Name()] = p
    }
    return r
}

func (r *Registry) Publish(ctx context.Context, platformName, content string, account *model.SocialAccount) (*PublishResult, error) {
    p, ok := r.publishers[platformName]
    if !ok {
        return nil, fmt.Errorf("no publisher registered for platform %s", platformName)
    }
    return p.Publish(ctx, content, account)
}

func (r *Registry) Platforms() []string {
    names := make([]string, 0, len(r.publishers))
    for name := range r.publishers {
        names = append(names, name)
    }
    return names
}

// simulatedResult synthesizes a delivery outcome with plausible engagement
// numbers. Used by adapters running with the simulate flag on.
func simulatedResult(platformName string) *PublishResult {
    return &PublishResult{
        PlatformPostID: fmt.Sprintf("%s_sim_%s", platformName, uuid.NewString()),
        Engagement: model.Engagement{
            Reach:    500 + rand.Intn(4500),
            Likes:    10 + rand.Intn(190),
            Comments: rand.Intn(25),
            Shares:   rand.Intn(40),
        },
    }
}

// postJSON sends a JSON body and decodes a JSON response, failing on any
// non-2xx status.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body any, out any) error {
    jsonData, err := json.Marshal(body)
    if err != nil {
        return fmt.Errorf("failed to marshal request: %w", err)
    }

    req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
    if err != nil {
        return fmt.Errorf("failed to create request: %w", err)
    }
    req.Header.Set("Content-Type", "application/json")
    for k, v := range headers {
        req.Header.Set(k, v)
    }

    resp, err := client.Do(req)
    if err != nil {
        return err
    }
    defer resp.Body.Close()

    respBody, err := io.ReadAll(resp.Body)
    if err != nil {
        return fmt.Errorf("failed to read response: %w", err)
    }

    if resp.StatusCode < 200 || resp.StatusCode > 299 {
        return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, truncateBody(respBody))
    }

    if out != nil {
        if err := json.Unmarshal(respBody, out); err != nil {
            return fmt.Errorf("failed to parse response: %w", err)
        }
    }
    return nil
}

func truncateBody(b []byte) string {
    s := strings.TrimSpace(string(b))
    if len(s) > 300 {
        return s[:297] + "..."
    }
    return s
}
