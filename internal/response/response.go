package response

import (
	"errors"
	"log/slog"
	"sync"

	dg "github.com/bwmarrin/discordgo"
	"github.com/graxinc/errutil"
)

var ErrFinalized = errors.New("interaction already finalized")

// Session is the subset of *discordgo.Session used to answer interactions.
type Session interface {
	InteractionRespond(interaction *dg.Interaction, resp *dg.InteractionResponse, options ...dg.RequestOption) error
	InteractionResponseEdit(interaction *dg.Interaction, newresp *dg.WebhookEdit, options ...dg.RequestOption) (*dg.Message, error)
}

type Responder struct {
	s Session
	l *slog.Logger
}

func NewSessionResponder(s Session, l *slog.Logger) *Responder {
	return &Responder{s: s, l: l}
}

// Pending is a deferred interaction waiting for its single edit.
type Pending struct {
	r *Responder
	i *dg.Interaction

	once     sync.Once
	deferred bool
}

// Defer acknowledges i as "deferred channel message with source". A failed
// acknowledgement is logged and the returned Pending can still be finalized.
func (r *Responder) Defer(i *dg.Interaction) *Pending {
	p := &Pending{r: r, i: i}

	if err := r.s.InteractionRespond(i, &dg.InteractionResponse{
		Type: dg.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		r.l.Error("error deferring interaction", "error", err, "interaction", i.ID)
		return p
	}

	p.deferred = true
	return p
}

func (p *Pending) Deferred() bool {
	return p.deferred
}

// Finalize edits the original response with content. Only the first call
// reaches the platform; later calls return ErrFinalized.
func (p *Pending) Finalize(content string) error {
	err := ErrFinalized
	p.once.Do(func() {
		err = nil
		if _, editErr := p.r.s.InteractionResponseEdit(p.i, &dg.WebhookEdit{
			Content: &content,
		}); editErr != nil {
			p.r.l.Error("error editing interaction response", "error", editErr, "interaction", p.i.ID, "deferred", p.deferred)
			err = errutil.With(editErr)
		}
	})

	return err
}
