package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/disgo/webhook"
	"github.com/ellavondegurechaff/pricevault/pricevault/config"
)

const (
	colorOK     = 0x2b2d31
	colorFailed = 0xED4245
)

type Field struct {
	Name  string
	Value string
}

// Event is one run outcome to announce.
type Event struct {
	Title  string
	Failed bool
	Fields []Field
	Time   time.Time
}

type Notifier interface {
	Notify(ctx context.Context, e Event) error
	Close(ctx context.Context)
}

// EmbedSender is the part of a disgo webhook client Webhook needs.
type EmbedSender interface {
	CreateEmbeds(embeds []discord.Embed, opts ...rest.RequestOpt) (*discord.Message, error)
	Close(ctx context.Context)
}

// Webhook posts events to a Discord channel webhook.
type Webhook struct {
	client EmbedSender
}

func NewWebhook(url string) (*Webhook, error) {
	client, err := webhook.NewWithURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url: %w", err)
	}
	return NewWebhookWithClient(client), nil
}

func NewWebhookWithClient(client EmbedSender) *Webhook {
	return &Webhook{client: client}
}

func (w *Webhook) Notify(ctx context.Context, e Event) error {
	ctx, cancel := context.WithTimeout(ctx, config.NotifyTimeout)
	defer cancel()

	if _, err := w.client.CreateEmbeds([]discord.Embed{BuildEmbed(e)}, rest.WithCtx(ctx)); err != nil {
		return fmt.Errorf("failed to post %q: %w", e.Title, err)
	}
	return nil
}

func (w *Webhook) Close(ctx context.Context) {
	w.client.Close(ctx)
}

// BuildEmbed renders e the way it is posted.
func BuildEmbed(e Event) discord.Embed {
	builder := discord.NewEmbedBuilder().SetTitle(e.Title)
	for _, f := range e.Fields {
		builder.AddField(f.Name, f.Value, true)
	}
	if e.Failed {
		builder.SetColor(colorFailed)
	} else {
		builder.SetColor(colorOK)
	}
	if !e.Time.IsZero() {
		builder.SetTimestamp(e.Time)
	}
	return builder.Build()
}

// Nop drops every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }
func (Nop) Close(context.Context)               {}
