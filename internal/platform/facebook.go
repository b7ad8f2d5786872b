// internal/platform/facebook.go
package platform

import (
    "context"
    "net/http"

    "github.com/postpilot/postpilot-backend/internal/model"
)

type FacebookPublisher struct {
    client   *http.Client
    simulate bool
}

func NewFacebookPublisher(simulate bool) *FacebookPublisher {
    return &FacebookPublisher{client: &http.Client{}, simulate: simulate}
}

func (p *FacebookPublisher) Name() string { return "facebook" }

func (p *FacebookPublisher) Publish(ctx context.Context, content string, account *model.SocialAccount) (*PublishResult, error) {
    var resp struct {
        ID string `json:"id"`
    }
    err := postJSON(ctx, p.client, "https://graph.facebook.com/v19.0/me/feed",
        nil,
        map[string]string{
            "message":      content,
            "access_token": account.AccessToken,
        },
        &resp,
    )
    if err != nil {
        if p.simulate {
            return simulatedResult(p.Name()), nil
        }
        return nil, err
    }
    return &PublishResult{PlatformPostID: resp.ID}, nil
}
