package bot

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	dg "github.com/bwmarrin/discordgo"
	"github.com/glotchimo/weathercast/internal/utils"
)

// register creates every known command as a global application command.
// Discord upserts by name, so repeating it is harmless; the stored hash only
// saves the calls.
func (b *Bot) register() {
	start := time.Now()

	names := make([]string, 0, len(b.handlers))
	for name := range b.handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	commands := make([]*dg.ApplicationCommand, 0, len(names))
	for _, name := range names {
		cmd := b.handlers[name].Metadata()
		if result := utils.ValidateCommand(&cmd); result.WasModified {
			b.l.Warn("command was modified during validation", "command", name, "errors", result.Errors)
		}
		commands = append(commands, &cmd)
	}

	var newHash string
	if bytes, err := json.Marshal(commands); err == nil {
		newHash = fmt.Sprintf("%x", sha256.Sum256(bytes))
	}

	if b.c != nil && newHash != "" {
		oldHash, err := b.c.CommandSetHash(b.ctx, b.appID)
		if err != nil {
			b.l.Warn("error reading command set hash", "error", err)
		} else if oldHash == newHash {
			b.l.Info("command set unchanged", "hash", newHash)
			return
		}
	}

	failed := 0
	for _, cmd := range commands {
		if _, err := b.s.ApplicationCommandCreate(b.appID, "", cmd); err != nil {
			b.l.Error("error registering command", "error", err, "command", cmd.Name)
			failed++
			continue
		}
		b.l.Info("successfully registered command", "command", cmd.Name)
	}

	if failed > 0 {
		return
	}

	if b.c != nil && newHash != "" {
		if err := b.c.SetCommandSetHash(b.ctx, b.appID, newHash); err != nil {
			b.l.Warn("error updating command set hash", "error", err, "hash", newHash)
		}
	}

	b.l.Info("command set loaded", "loaded", len(commands), "duration", time.Since(start))
}
