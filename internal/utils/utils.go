package utils

import (
	"bytes"
	"os/exec"
	"strings"

	dg "github.com/bwmarrin/discordgo"
	"github.com/rs/xid"
)

func GenerateID() string {
	return xid.New().String()
}

func MapOptions(i *dg.Interaction) map[string]*dg.ApplicationCommandInteractionDataOption {
	os := i.ApplicationCommandData().Options
	om := make(map[string]*dg.ApplicationCommandInteractionDataOption, len(os))
	for _, opt := range os {
		om[opt.Name] = opt
	}
	return om
}

// StringOption returns the value of the named option when it is a
// non-empty string option.
func StringOption(opts map[string]*dg.ApplicationCommandInteractionDataOption, name string) (string, bool) {
	opt, ok := opts[name]
	if !ok || opt == nil || opt.Type != dg.ApplicationCommandOptionString {
		return "", false
	}

	s, ok := opt.Value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}

	return s, true
}

func GetCommit() string {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return ""
	}

	return strings.TrimSpace(out.String())
}
