// internal/platform/twitter.go
package platform

import (
    "context"
    "net/http"

    "github.com/postpilot/postpilot-backend/internal/model"
)

const tweetMaxLen = 280

type TwitterPublisher struct {
    client   *http.Client
    simulate bool
}

func NewTwitterPublisher(simulate bool) *TwitterPublisher {
    return &TwitterPublisher{client: &http.Client{}, simulate: simulate}
}

func (p *TwitterPublisher) Name() string { return "twitter" }

func (p *TwitterPublisher) Publish(ctx context.Context, content string, account *model.SocialAccount) (*PublishResult, error) {
    if len(content) > tweetMaxLen {
        content = content[:tweetMaxLen-3] + "..."
    }

    var resp struct {
        Data struct {
            ID string `json:"id"`
        } `json:"data"`
    }
    err := postJSON(ctx, p.client, "https://api.twitter.com/2/tweets",
        map[string]string{"Authorization": "Bearer " + account.AccessToken},
        map[string]string{"text": content},
        &resp,
    )
    if err != nil {
        if p.simulate {
            return simulatedResult(p.Name()), nil
        }
        return nil, err
    }
    return &PublishResult{PlatformPostID: resp.Data.ID}, nil
}
