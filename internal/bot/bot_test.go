package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	dg "github.com/bwmarrin/discordgo"
	"github.com/glotchimo/weathercast/internal/handlers"
	"github.com/glotchimo/weathercast/internal/handlers/commands"
	"github.com/glotchimo/weathercast/internal/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
}

type fakeSession struct {
	*recorder

	respondErr  error
	editErr     error
	sendErr     error
	registerErr error

	edits    []string
	sent     map[string][]string
	commands []*dg.ApplicationCommand
}

func (f *fakeSession) InteractionRespond(i *dg.Interaction, resp *dg.InteractionResponse, _ ...dg.RequestOption) error {
	f.calls = append(f.calls, "defer")
	return f.respondErr
}

func (f *fakeSession) InteractionResponseEdit(i *dg.Interaction, edit *dg.WebhookEdit, _ ...dg.RequestOption) (*dg.Message, error) {
	f.calls = append(f.calls, "edit")
	f.edits = append(f.edits, *edit.Content)
	return &dg.Message{}, f.editErr
}

func (f *fakeSession) ChannelMessageSend(channelID, content string, _ ...dg.RequestOption) (*dg.Message, error) {
	f.calls = append(f.calls, "send")
	if f.sent == nil {
		f.sent = make(map[string][]string)
	}
	f.sent[channelID] = append(f.sent[channelID], content)
	return &dg.Message{}, f.sendErr
}

func (f *fakeSession) ApplicationCommandCreate(appID, guildID string, cmd *dg.ApplicationCommand, _ ...dg.RequestOption) (*dg.ApplicationCommand, error) {
	f.calls = append(f.calls, "register")
	f.commands = append(f.commands, cmd)
	return cmd, f.registerErr
}

type fakeWeather struct {
	*recorder

	summary *weather.Summary
	err     error
	panics  bool
}

func (f *fakeWeather) Current(_ context.Context, city string) (*weather.Summary, error) {
	f.calls = append(f.calls, "weather")
	if f.panics {
		panic("nil map")
	}
	return f.summary, f.err
}

func setup(w *fakeWeather) (*Bot, *fakeSession, *recorder) {
	rec := &recorder{}
	s := &fakeSession{recorder: rec}
	if w == nil {
		w = &fakeWeather{}
	}
	w.recorder = rec

	b := newBot(s, w, slog.New(slog.NewTextHandler(io.Discard, nil)))
	b.selfID = "42"
	b.appID = "42"
	return b, s, rec
}

func interaction(name string, opts ...*dg.ApplicationCommandInteractionDataOption) *dg.Interaction {
	return &dg.Interaction{
		ID:        "1",
		AppID:     "42",
		Token:     "tok",
		Type:      dg.InteractionApplicationCommand,
		ChannelID: "100",
		Member:    &dg.Member{User: &dg.User{Username: "ada"}},
		Data:      dg.ApplicationCommandInteractionData{Name: name, Options: opts},
	}
}

func city(v string) *dg.ApplicationCommandInteractionDataOption {
	return &dg.ApplicationCommandInteractionDataOption{Name: commands.CityOption, Type: dg.ApplicationCommandOptionString, Value: v}
}

func TestBot_onInteraction(t *testing.T) {
	b, s, rec := setup(&fakeWeather{summary: &weather.Summary{Condition: "Clear", TempMinC: 10, TempMaxC: 15, WindSpeedKmh: 12}})

	b.onInteraction(interaction(commands.WeatherCommand, city("London")))

	assert.Equal(t, []string{"defer", "weather", "edit"}, rec.calls)
	assert.Equal(t, []string{"Today: Clear,\nLow temperature: 10 °C,\nHigh temperature: 15 °C,\nWind Speed: 12 km/h"}, s.edits)
}

func TestBot_onInteraction_WeatherFailure(t *testing.T) {
	b, s, rec := setup(&fakeWeather{err: &weather.Failure{Kind: weather.KindUpstream, Status: 404}})

	b.onInteraction(interaction(commands.WeatherCommand, city("Atlantis")))

	assert.Equal(t, []string{"defer", "weather", "edit"}, rec.calls)
	assert.Equal(t, []string{"No city or incorrect spelling"}, s.edits)
}

func TestBot_onInteraction_BadInput(t *testing.T) {
	b, s, rec := setup(nil)

	b.onInteraction(interaction(commands.WeatherCommand))

	assert.Equal(t, []string{"defer", "edit"}, rec.calls)
	assert.Equal(t, []string{commands.MissingCityMessage}, s.edits)
}

func TestBot_onInteraction_DeferFailure(t *testing.T) {
	b, s, rec := setup(&fakeWeather{err: errors.New("dial tcp")})
	s.respondErr = errors.New("unknown interaction")

	b.onInteraction(interaction(commands.WeatherCommand, city("London")))

	assert.Equal(t, []string{"defer", "weather", "edit"}, rec.calls)
	assert.Len(t, s.edits, 1)
}

func TestBot_onInteraction_Panic(t *testing.T) {
	b, s, rec := setup(&fakeWeather{panics: true})

	require.NotPanics(t, func() {
		b.onInteraction(interaction(commands.WeatherCommand, city("London")))
	})

	assert.Equal(t, []string{"defer", "weather", "edit"}, rec.calls)
	require.Len(t, s.edits, 1)
	assert.NotEmpty(t, s.edits[0])
}

func TestBot_onInteraction_Ignored(t *testing.T) {
	tests := []struct {
		name      string
		channelID string
		i         *dg.Interaction
	}{
		{name: "unknown command", i: interaction("forecast", city("London"))},
		{name: "not a command", i: &dg.Interaction{Type: dg.InteractionMessageComponent}},
		{name: "nil"},
		{name: "other channel", channelID: "200", i: interaction(commands.WeatherCommand, city("London"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _, rec := setup(nil)
			b.channelID = tt.channelID

			b.onInteraction(tt.i)
			assert.Empty(t, rec.calls)
		})
	}
}

func TestBot_onInteraction_WatchedChannel(t *testing.T) {
	b, _, rec := setup(&fakeWeather{err: errors.New("dial tcp")})
	b.channelID = "100"

	b.onInteraction(interaction(commands.WeatherCommand, city("London")))
	assert.Equal(t, []string{"defer", "weather", "edit"}, rec.calls)
}

func TestBot_onMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  *dg.Message
		want []string
	}{
		{
			name: "user message",
			msg:  &dg.Message{ChannelID: "100", Content: "hello there", Author: &dg.User{ID: "7"}},
			want: []string{"hello there"},
		},
		{
			name: "own message",
			msg:  &dg.Message{ChannelID: "100", Content: "hello there", Author: &dg.User{ID: "42", Bot: true}},
		},
		{
			name: "own id without bot flag",
			msg:  &dg.Message{ChannelID: "100", Content: "hello there", Author: &dg.User{ID: "42"}},
		},
		{
			name: "other bot",
			msg:  &dg.Message{ChannelID: "100", Content: "beep", Author: &dg.User{ID: "9", Bot: true}},
		},
		{
			name: "attachment only",
			msg:  &dg.Message{ChannelID: "100", Author: &dg.User{ID: "7"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, s, _ := setup(nil)

			b.onMessage(tt.msg)
			assert.Equal(t, tt.want, s.sent["100"])
		})
	}
}

func TestBot_onMessage_SendFailure(t *testing.T) {
	b, s, _ := setup(nil)
	s.sendErr = errors.New("missing access")

	assert.NotPanics(t, func() {
		b.onMessage(&dg.Message{ChannelID: "100", Content: "hi", Author: &dg.User{ID: "7"}})
	})
	assert.Equal(t, []string{"send"}, s.calls)
}

func TestBot_handlers(t *testing.T) {
	b, _, _ := setup(nil)

	require.Len(t, b.handlers, 1)
	var h handlers.Handler = b.handlers["test"]
	assert.IsType(t, &commands.Weather{}, h)
}
