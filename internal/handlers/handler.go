package handlers

import (
	"context"
	"log/slog"

	dg "github.com/bwmarrin/discordgo"
	"github.com/glotchimo/weathercast/internal/weather"
)

type Weather interface {
	Current(ctx context.Context, city string) (*weather.Summary, error)
}

type Dependencies struct {
	Weather     Weather
	Logger      *slog.Logger
	Interaction *dg.Interaction
	Options     map[string]*dg.ApplicationCommandInteractionDataOption
}

// Handler produces the text the deferred response is edited with. Errors
// are turned into user-facing text by the caller.
type Handler interface {
	Metadata() dg.ApplicationCommand
	Handle(context.Context, Dependencies) (string, error)
}
