// internal/service/generator.go
package service

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "strings"
)

// Generated text shorter than this is treated as degenerate output and
// replaced by the template fallback.
const MinContentLength = 20

type GenerateRequest struct {
    Prompt        string
    Tone          string
    Platform      string
    DayIndex      int
    PriorContents []string
}

// Generator produces post text for one platform/day slot.
type Generator interface {
    Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// ---------- Anthropic-backed generator ----------

type AnthropicGenerator struct {
    apiKey     string
    model      string
    httpClient *http.Client
}

func NewAnthropicGenerator(apiKey string) *AnthropicGenerator {
    return &AnthropicGenerator{
        apiKey:     apiKey,
        model:      "claude-sonnet-4-5-20250929",
        httpClient: &http.Client{},
    }
}

type anthropicMessage struct {
    Role    string `json:"role"`
    Content string `json:"content"`
}

type anthropicRequest struct {
    Model     string             `json:"model"`
    MaxTokens int                `json:"max_tokens"`
    Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
    Content []struct {
        Type string `json:"type"`
        Text string `json:"text"`
    } `json:"content"`
    Error *struct {
        Type    string `json:"type"`
        Message string `json:"message"`
    } `json:"error"`
}

func (g *AnthropicGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
    prompt := buildPrompt(req)

    reqBody := anthropicRequest{
        Model:     g.model,
        MaxTokens: 1000,
        Messages: []anthropicMessage{
            {Role: "user", Content: prompt},
        },
    }

    jsonData, err := json.Marshal(reqBody)
    if err != nil {
        return "", fmt.Errorf("failed to marshal request: %w", err)
    }

    httpReq, err := http.NewRequestWithContext(ctx, "POST", "https://api.anthropic.com/v1/messages", bytes.NewBuffer(jsonData))
    if err != nil {
        return "", fmt.Errorf("failed to create request: %w", err)
    }
    httpReq.Header.Set("Content-Type", "application/json")
    httpReq.Header.Set("x-api-key", g.apiKey)
    httpReq.Header.Set("anthropic-version", "2023-06-01")

    resp, err := g.httpClient.Do(httpReq)
    if err != nil {
        return "", fmt.Errorf("failed to call Anthropic API: %w", err)
    }
    defer resp.Body.Close()

    body, err := io.ReadAll(resp.Body)
    if err != nil {
        return "", fmt.Errorf("failed to read response: %w", err)
    }

    if resp.StatusCode != http.StatusOK {
        return "", fmt.Errorf("API request failed with status %d", resp.StatusCode)
    }

    var apiResp anthropicResponse
    if err := json.Unmarshal(body, &apiResp); err != nil {
        return "", fmt.Errorf("failed to parse response: %w", err)
    }
    if apiResp.Error != nil {
        return "", fmt.Errorf("API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
    }
    if len(apiResp.Content) > 0 && apiResp.Content[0].Type == "text" {
        return strings.TrimSpace(apiResp.Content[0].Text), nil
    }
    return "", fmt.Errorf("unexpected response format")
}

func buildPrompt(req GenerateRequest) string {
    var b strings.Builder
    fmt.Fprintf(&b, `You are a social media ghostwriter creating a %s post.

Theme: %s
Tone: %s
This is post %d of a multi-day series on this theme.

Write a single post that:
1. Sounds natural for %s (length, formatting, hashtag conventions)
2. Starts with a strong hook
3. Takes a fresh angle for day %d so the series does not repeat itself
4. Ends with light engagement (question or call to action)

Respond with the post text only, no preamble.`,
        req.Platform, req.Prompt, req.Tone, req.DayIndex, req.Platform, req.DayIndex)

    if len(req.PriorContents) > 0 {
        b.WriteString("\n\nPosts already written for this platform (do not repeat their angles):")
        for i, prior := range req.PriorContents {
            fmt.Fprintf(&b, "\n--- Post %d ---\n%s", i+1, prior)
        }
    }
    return b.String()
}

// ---------- Deterministic template fallback ----------

// TemplateGenerator renders a canned per-platform template. It never fails,
// which is what lets fan-out survive a flaky generator.
type TemplateGenerator struct{}

var platformTemplates = map[string]string{
    "twitter":  "Day {day} on {prompt}: one thing worth knowing today. Thoughts? #{tag}",
    "linkedin": "Day {day} of our series on {prompt}.\n\nHere's a {tone} take worth your time today. What has your experience been?\n\n#{tag}",
    "facebook": "Day {day}: continuing our look at {prompt}. Tell us what you think in the comments!",
    "telegram": "Day {day} — {prompt}. Today's update from the series.",
    "slack":    ":calendar: Day {day} of the {prompt} series — today's {tone} update.",
}

const defaultTemplate = "Day {day} of our series on {prompt} — a {tone} update. Join the conversation!"

func (g *TemplateGenerator) Generate(_ context.Context, req GenerateRequest) (string, error) {
    template, ok := platformTemplates[req.Platform]
    if !ok {
        template = defaultTemplate
    }
    tone := req.Tone
    if tone == "" {
        tone = "professional"
    }
    return RenderTemplate(template, map[string]string{
        "day":    strconv.Itoa(req.DayIndex),
        "prompt": req.Prompt,
        "tone":   tone,
        "tag":    hashTag(req.Prompt),
    }), nil
}

// hashTag squeezes the theme into a single CamelCase hashtag body.
func hashTag(prompt string) string {
    words := strings.Fields(prompt)
    if len(words) > 3 {
        words = words[:3]
    }
    var b strings.Builder
    for _, w := range words {
        w = strings.Map(func(r rune) rune {
            if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
                return r
            }
            return -1
        }, w)
        if w == "" {
            continue
        }
        b.WriteString(strings.ToUpper(w[:1]))
        b.WriteString(strings.ToLower(w[1:]))
    }
    if b.Len() == 0 {
        return "Series"
    }
    return b.String()
}
