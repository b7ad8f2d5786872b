// internal/platform/telegram.go
package platform

import (
    "context"
    "strconv"

    tele "gopkg.in/telebot.v4"

    "github.com/postpilot/postpilot-backend/internal/model"
)

// TelegramPublisher sends into a channel or group chat using the account's
// bot token.
type TelegramPublisher struct {
    chatID   int64
    simulate bool
}

func NewTelegramPublisher(chatID int64, simulate bool) *TelegramPublisher {
    return &TelegramPublisher{chatID: chatID, simulate: simulate}
}

func (p *TelegramPublisher) Name() string { return "telegram" }

func (p *TelegramPublisher) Publish(ctx context.Context, content string, account *model.SocialAccount) (*PublishResult, error) {
    // Offline keeps NewBot from hitting getMe; the send below is the only call.
    bot, err := tele.NewBot(tele.Settings{Token: account.AccessToken, Offline: true})
    if err != nil {
        if p.simulate {
            return simulatedResult(p.Name()), nil
        }
        return nil, err
    }

    msg, err := bot.Send(tele.ChatID(p.chatID), content)
    if err != nil {
        if p.simulate {
            return simulatedResult(p.Name()), nil
        }
        return nil, err
    }
    return &PublishResult{PlatformPostID: strconv.Itoa(msg.ID)}, nil
}
