// internal/platform/slack.go
package platform

import (
    "context"
    "fmt"

    "github.com/slack-go/slack"

    "github.com/postpilot/postpilot-backend/internal/model"
)

// SlackPublisher posts into a fixed channel using the account's bot token.
type SlackPublisher struct {
    channel  string
    simulate bool
}

func NewSlackPublisher(channel string, simulate bool) *SlackPublisher {
    return &SlackPublisher{channel: channel, simulate: simulate}
}

func (p *SlackPublisher) Name() string { return "slack" }

func (p *SlackPublisher) Publish(ctx context.Context, content string, account *model.SocialAccount) (*PublishResult, error) {
    api := slack.New(account.AccessToken)

    channelID, timestamp, err := api.PostMessageContext(ctx, p.channel, slack.MsgOptionText(content, false))
    if err != nil {
        if p.simulate {
            return simulatedResult(p.Name()), nil
        }
        return nil, err
    }
    return &PublishResult{PlatformPostID: fmt.Sprintf("%s.%s", channelID, timestamp)}, nil
}
