package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/ellavondegurechaff/pricevault/pricevault/notify"
	"github.com/ellavondegurechaff/pricevault/pricevault/notify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBuildEmbed(t *testing.T) {
	at := time.Date(2025, 9, 21, 6, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		event     notify.Event
		wantColor int
	}{
		{
			name:      "success",
			event:     notify.Event{Title: "daily ok", Fields: []notify.Field{{Name: "Processed", Value: "3"}}, Time: at},
			wantColor: 0x2b2d31,
		},
		{
			name:      "failure",
			event:     notify.Event{Title: "daily failed", Failed: true, Fields: []notify.Field{{Name: "Phase", Value: "MergeDelta"}, {Name: "Error", Value: "boom"}}},
			wantColor: 0xED4245,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embed := notify.BuildEmbed(tt.event)
			require.Equal(t, tt.event.Title, embed.Title)
			require.Equal(t, tt.wantColor, embed.Color)
			require.Len(t, embed.Fields, len(tt.event.Fields))
			for i, f := range tt.event.Fields {
				require.Equal(t, f.Name, embed.Fields[i].Name)
				require.Equal(t, f.Value, embed.Fields[i].Value)
			}
			if tt.event.Time.IsZero() {
				require.Nil(t, embed.Timestamp)
			} else {
				require.True(t, embed.Timestamp.Equal(at))
			}
		})
	}
}

func TestWebhook_Notify(t *testing.T) {
	client := mock.NewMockEmbedSender(gomock.NewController(t))
	client.EXPECT().
		CreateEmbeds(gomock.Any(), gomock.Any()).
		DoAndReturn(func(embeds []discord.Embed, _ ...rest.RequestOpt) (*discord.Message, error) {
			require.Len(t, embeds, 1)
			require.Equal(t, "import ok", embeds[0].Title)
			return &discord.Message{}, nil
		})
	client.EXPECT().Close(gomock.Any())

	w := notify.NewWebhookWithClient(client)
	require.NoError(t, w.Notify(context.Background(), notify.Event{Title: "import ok"}))
	w.Close(context.Background())
}

func TestWebhook_NotifyFails(t *testing.T) {
	client := mock.NewMockEmbedSender(gomock.NewController(t))
	client.EXPECT().
		CreateEmbeds(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("429 too many requests"))

	err := notify.NewWebhookWithClient(client).Notify(context.Background(), notify.Event{Title: "daily ok"})
	require.ErrorContains(t, err, "429")
}

func TestNop(t *testing.T) {
	var n notify.Notifier = notify.Nop{}
	require.NoError(t, n.Notify(context.Background(), notify.Event{Title: "x"}))
	n.Close(context.Background())
}
