package main

import (
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/glotchimo/weathercast/internal/bot"
	"github.com/joho/godotenv"
)

var VERSION = "dev"

type Conf struct {
	Debug     bool   `env:"DEBUG"`
	Token     string `env:"DISCORD_TOKEN,notEmpty"`
	Intents   int    `env:"BOT_INTENTS" envDefault:"37377"`
	AppID     string `env:"BOT_ID"`
	ChannelID string `env:"DISCORD_CHANNEL_ID"`
	CacheURL  string `env:"REDIS_URL"`

	WeatherURL     string        `env:"WEATHER_URL" envDefault:"https://api.openweathermap.org/data/2.5/weather"`
	WeatherKey     string        `env:"WEATHER_API_KEY" envDefault:"fake_api_key"`
	WeatherTimeout time.Duration `env:"WEATHER_TIMEOUT" envDefault:"10s"`
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	var conf Conf
	if err := env.Parse(&conf); err != nil {
		panic(err)
	}

	b, err := bot.NewBot(bot.Config{
		Debug:          conf.Debug,
		Token:          conf.Token,
		Intents:        conf.Intents,
		AppID:          conf.AppID,
		ChannelID:      conf.ChannelID,
		CacheURL:       conf.CacheURL,
		Version:        VERSION,
		WeatherURL:     conf.WeatherURL,
		WeatherKey:     conf.WeatherKey,
		WeatherTimeout: conf.WeatherTimeout,
	})
	if err != nil {
		panic(err)
	}
	defer b.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}
