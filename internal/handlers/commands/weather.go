package commands

import (
	"context"
	"fmt"

	dg "github.com/bwmarrin/discordgo"
	"github.com/glotchimo/weathercast/internal/handlers"
	"github.com/glotchimo/weathercast/internal/utils"
	"github.com/glotchimo/weathercast/internal/weather"
)

const (
	WeatherCommand = "test"
	CityOption     = "city"

	NoCityMessage      = "No city or incorrect spelling"
	MissingCityMessage = "Please provide a city name."
)

type Weather struct{}

func (w *Weather) Metadata() dg.ApplicationCommand {
	return dg.ApplicationCommand{
		Name:        WeatherCommand,
		Description: "Get the weather for a city",
		Options: []*dg.ApplicationCommandOption{
			{
				Name:        CityOption,
				Description: "The city to lookup",
				Type:        dg.ApplicationCommandOptionString,
				Required:    true,
			},
		},
	}
}

func (w *Weather) Handle(ctx context.Context, dep handlers.Dependencies) (string, error) {
	city, ok := utils.StringOption(dep.Options, CityOption)
	if !ok {
		return "", utils.Failure{
			Type:    utils.ErrBadInput,
			Message: MissingCityMessage,
			Data:    map[string]any{"options": len(dep.Options)},
		}
	}

	s, err := dep.Weather.Current(ctx, city)
	if err != nil {
		dep.Logger.Warn("weather lookup failed", "city", city, "error", err)
		return NoCityMessage, nil
	}

	return FormatSummary(s), nil
}

func FormatSummary(s *weather.Summary) string {
	return fmt.Sprintf("Today: %s,\nLow temperature: %d °C,\nHigh temperature: %d °C,\nWind Speed: %d km/h",
		s.Condition, s.TempMinC, s.TempMaxC, s.WindSpeedKmh)
}
