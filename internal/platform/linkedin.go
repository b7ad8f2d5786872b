// internal/platform/linkedin.go
package platform

import (
    "context"
    "fmt"
    "net/http"

    "github.com/postpilot/postpilot-backend/internal/model"
)

type LinkedInPublisher struct {
    client   *http.Client
    simulate bool
}

func NewLinkedInPublisher(simulate bool) *LinkedInPublisher {
    return &LinkedInPublisher{client: &http.Client{}, simulate: simulate}
}

func (p *LinkedInPublisher) Name() string { return "linkedin" }

func (p *LinkedInPublisher) Publish(ctx context.Context, content string, account *model.SocialAccount) (*PublishResult, error) {
    body := map[string]any{
        "author":         fmt.Sprintf("urn:li:person:%d", account.UserID),
        "lifecycleState": "PUBLISHED",
        "specificContent": map[string]any{
            "com.linkedin.ugc.ShareContent": map[string]any{
                "shareCommentary":    map[string]string{"text": content},
                "shareMediaCategory": "NONE",
            },
        },
        "visibility": map[string]string{
            "com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
        },
    }

    var resp struct {
        ID string `json:"id"`
    }
    err := postJSON(ctx, p.client, "https://api.linkedin.com/v2/ugcPosts",
        map[string]string{
            "Authorization":             "Bearer " + account.AccessToken,
            "X-Restli-Protocol-Version": "2.0.0",
        },
        body,
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
