package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/graxinc/errutil"
)

const (
	DefaultURL     = "https://api.openweathermap.org/data/2.5/weather"
	DefaultKey     = "fake_api_key"
	DefaultTimeout = 10 * time.Second

	unknownCondition = "Unknown"
)

type Kind int

const (
	KindTransport Kind = iota
	KindUpstream
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUpstream:
		return "upstream"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Failure is returned for every unsuccessful lookup. Status is only set for
// KindUpstream.
type Failure struct {
	Kind   Kind
	Status int
	Cause  error
}

func (f *Failure) Error() string {
	if f.Kind == KindUpstream {
		return fmt.Sprintf("weather %s error: status %d", f.Kind, f.Status)
	}
	return fmt.Sprintf("weather %s error: %v", f.Kind, f.Cause)
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

type Summary struct {
	Condition    string
	TempMinC     int
	TempMaxC     int
	WindSpeedKmh int
}

type apiResult struct {
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
	Main *struct {
		TempMin float64 `json:"temp_min"`
		TempMax float64 `json:"temp_max"`
	} `json:"main"`
	Wind *struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (r apiResult) summary() Summary {
	s := Summary{
		Condition:    unknownCondition,
		TempMinC:     int(r.Main.TempMin),
		TempMaxC:     int(r.Main.TempMax),
		WindSpeedKmh: int(r.Wind.Speed),
	}
	if len(r.Weather) > 0 {
		s.Condition = r.Weather[0].Main
	}
	return s
}

type Client struct {
	h   *http.Client
	l   *slog.Logger
	url string
	key string
}

func NewClient(l *slog.Logger, baseURL, key string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if key == "" {
		key = DefaultKey
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		h:   &http.Client{Timeout: timeout},
		l:   l,
		url: baseURL,
		key: key,
	}
}

// Current fetches the current conditions for city. Units are metric.
func (c *Client) Current(ctx context.Context, city string) (*Summary, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "metric")
	q.Set("appid", c.key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"?"+q.Encode(), nil)
	if err != nil {
		c.l.Error("error building weather request", "error", err, "city", city)
		return nil, &Failure{Kind: KindTransport, Cause: errutil.With(err)}
	}

	res, err := c.h.Do(req)
	if err != nil {
		c.l.Error("error getting response from weather api", "error", err, "city", city)
		return nil, &Failure{Kind: KindTransport, Cause: errutil.With(err)}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.l.Error("weather api http error", "status", res.StatusCode, "city", city)
		return nil, &Failure{Kind: KindUpstream, Status: res.StatusCode}
	}

	var result apiResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		c.l.Error("error decoding weather api response", "error", err, "city", city)
		return nil, &Failure{Kind: KindParse, Cause: errutil.With(err)}
	}

	if result.Main == nil || result.Wind == nil {
		err := errors.New("missing main or wind object")
		c.l.Error("error decoding weather api response", "error", err, "city", city)
		return nil, &Failure{Kind: KindParse, Cause: err}
	}

	s := result.summary()
	c.l.Debug("weather fetched", "city", city, "summary", s)

	return &s, nil
}
