package bot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	dg "github.com/bwmarrin/discordgo"
	"github.com/glotchimo/weathercast/internal/cache"
	"github.com/glotchimo/weathercast/internal/handlers"
	"github.com/glotchimo/weathercast/internal/handlers/commands"
	"github.com/glotchimo/weathercast/internal/response"
	"github.com/glotchimo/weathercast/internal/utils"
	"github.com/glotchimo/weathercast/internal/weather"
	"github.com/graxinc/errutil"
)

var lookup map[string]handlers.Handler = map[string]handlers.Handler{
	commands.WeatherCommand: &commands.Weather{},
}

// Session is the subset of *discordgo.Session the bot calls at runtime.
type Session interface {
	response.Session
	ChannelMessageSend(channelID string, content string, options ...dg.RequestOption) (*dg.Message, error)
	ApplicationCommandCreate(appID string, guildID string, cmd *dg.ApplicationCommand, options ...dg.RequestOption) (*dg.ApplicationCommand, error)
}

type HashStore interface {
	CommandSetHash(ctx context.Context, appID string) (string, error)
	SetCommandSetHash(ctx context.Context, appID, hash string) error
}

type Config struct {
	Debug     bool
	Token     string
	Intents   int
	AppID     string
	ChannelID string
	CacheURL  string
	Version   string

	WeatherURL     string
	WeatherKey     string
	WeatherTimeout time.Duration
}

type Bot struct {
	ctx    context.Context
	cancel context.CancelFunc

	gw *dg.Session
	s  Session
	c  HashStore
	l  *slog.Logger
	r  *response.Responder
	w  handlers.Weather

	closers []func() error

	handlers  map[string]handlers.Handler
	appID     string
	selfID    string
	channelID string
	version   string
}

func NewBot(conf Config) (*Bot, error) {
	var l *slog.Logger
	if conf.Debug {
		l = slog.Default()
	} else {
		l = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
	}

	if conf.ChannelID != "" {
		if _, err := strconv.ParseUint(conf.ChannelID, 10, 64); err != nil {
			return nil, errutil.With(fmt.Errorf("invalid channel id %q: %w", conf.ChannelID, err))
		}
	}

	session, err := dg.New("Bot " + conf.Token)
	if err != nil {
		return nil, errutil.With(err)
	}
	session.Identify.Intents = dg.Intent(conf.Intents)

	b := newBot(session, weather.NewClient(l, conf.WeatherURL, conf.WeatherKey, conf.WeatherTimeout), l)
	b.gw = session
	b.channelID = conf.ChannelID
	b.version = conf.Version

	if conf.CacheURL != "" {
		c, err := cache.NewCache(conf.CacheURL, l)
		if err != nil {
			return nil, errutil.With(err)
		}
		b.c = c
		b.closers = append(b.closers, c.Close)
	}

	b.gw.AddHandler(func(s *dg.Session, r *dg.Ready) {
		b.l.Info("bot connected to gateway",
			"bot", fmt.Sprintf("%s#%s", r.User.Username, r.User.Discriminator),
			"guilds", len(r.Guilds),
			"version", b.version,
			"commit", utils.GetCommit(),
		)
		b.status()
	})

	if err := b.gw.Open(); err != nil {
		b.Close()
		return nil, errutil.With(err)
	}
	b.closers = append(b.closers, b.gw.Close)

	me, err := b.gw.User("@me")
	if err != nil {
		b.Close()
		return nil, errutil.With(err)
	}
	b.selfID = me.ID

	b.appID = conf.AppID
	if b.appID == "" {
		b.appID = me.ID
	}

	b.register()

	b.gw.AddHandler(func(s *dg.Session, m *dg.MessageCreate) { b.onMessage(m.Message) })
	b.gw.AddHandler(func(s *dg.Session, i *dg.InteractionCreate) { b.onInteraction(i.Interaction) })

	return b, nil
}

func newBot(s Session, w handlers.Weather, l *slog.Logger) *Bot {
	ctx, cancel := context.WithCancel(context.Background())

	return &Bot{
		ctx:      ctx,
		cancel:   cancel,
		s:        s,
		l:        l,
		r:        response.NewSessionResponder(s, l),
		w:        w,
		handlers: lookup,
	}
}

func (b *Bot) Close() {
	b.cancel()

	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			b.l.Warn("error closing bot resource", "error", err)
		}
	}
}

func (b *Bot) status() {
	if err := b.gw.UpdateStatusComplex(dg.UpdateStatusData{
		Status: string(dg.StatusOnline),
		Activities: []*dg.Activity{
			{
				Name:  "weather",
				Type:  dg.ActivityTypeCustom,
				State: "Try /" + commands.WeatherCommand + " " + commands.CityOption + ":London",
			},
		},
	}); err != nil {
		b.l.Error("error setting bot status", "error", err)
	}
}

func (b *Bot) onMessage(m *dg.Message) {
	if m == nil || m.Author == nil {
		return
	}
	if m.Author.Bot || m.Author.ID == b.selfID {
		return
	}
	if m.Content == "" {
		return
	}

	if _, err := b.s.ChannelMessageSend(m.ChannelID, m.Content); err != nil {
		b.l.Warn("error echoing message", "error", err, "channel", m.ChannelID)
	}
}

func (b *Bot) onInteraction(i *dg.Interaction) {
	if i == nil || i.Type != dg.InteractionApplicationCommand {
		return
	}

	if b.channelID != "" && i.ChannelID != b.channelID {
		b.l.Debug("ignoring command from unwatched channel", "channel", i.ChannelID)
		return
	}

	data := i.ApplicationCommandData()
	h, ok := b.handlers[data.Name]
	if !ok {
		b.l.Debug("ignoring unknown command", "command", data.Name)
		return
	}

	l := b.l.With("invocation", utils.GenerateID(), "command", data.Name, "interaction", i.ID)
	l.Info("command issued", "user", invoker(i), "called", utils.FormatInteraction(i))

	p := b.r.Defer(i)

	var content string
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			stack = stack[:runtime.Stack(stack, false)]
			l.Error("panic recovered", "recovered", r, "stack", string(stack))
			content = utils.FailureText(fmt.Errorf("panic: %v", r))
		}

		if err := p.Finalize(content); err != nil {
			l.Warn("error finalizing interaction", "error", err)
		}
	}()

	content, err := h.Handle(b.ctx, handlers.Dependencies{
		Weather:     b.w,
		Logger:      l,
		Interaction: i,
		Options:     utils.MapOptions(i),
	})
	if err != nil {
		l.Warn("error handling command", "error", err)
		content = utils.FailureText(err)
	}
}

func invoker(i *dg.Interaction) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.Username
	case i.User != nil:
		return i.User.Username
	default:
		return ""
	}
}
