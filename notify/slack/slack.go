package slack

import (
	"context"
	"fmt"

	notificationDomain "github.com/MEERAN2314/socialtab/notification"
	"github.com/slack-go/slack"
)

type Config struct {
	OauthToken  string `env:"SLACK_OAUTH_TOKEN" json:"-"`
	Channel     string `env:"SLACK_NOTIFY_CHANNEL"`
	SlackAPIUrl string `env:"SLACK_API_URL"` // only for testing
}

// Sink mirrors every notification into a Slack channel. It is an
// optional best-effort feed, the store remains the source of truth.
type Sink struct {
	client  *slack.Client
	channel string
}

func New(cfg Config, slackOptions ...slack.Option) *Sink {
	if cfg.SlackAPIUrl != "" {
		slackOptions = append(slackOptions, slack.OptionAPIURL(cfg.SlackAPIUrl))
	}
	return &Sink{
		client:  slack.New(cfg.OauthToken, slackOptions...),
		channel: cfg.Channel,
	}
}

func (s *Sink) Notify(ctx context.Context, n *notificationDomain.Notification) error {
	text := fmt.Sprintf("*%s* (to %s): %s", n.Title, n.UserUsername, n.Message)
	_, _, err := s.client.PostMessageContext(ctx, s.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("posting message: %w", err)
	}
	return nil
}
