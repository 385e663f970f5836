package utils

import (
	"fmt"
	"strings"

	dg "github.com/bwmarrin/discordgo"
)

// FormatInteraction renders an application command the way a user typed it,
// e.g. "/test city:London".
func FormatInteraction(i *dg.Interaction) string {
	if i.Type != dg.InteractionApplicationCommand {
		return ""
	}

	data := i.ApplicationCommandData()
	parts := []string{"/" + data.Name}

	for _, opt := range data.Options {
		parts = append(parts, formatCommandOption(opt))
	}

	return strings.Join(parts, " ")
}

func formatCommandValue(opt *dg.ApplicationCommandInteractionDataOption) string {
	switch v := opt.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if opt.Type == dg.ApplicationCommandOptionInteger {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatCommandOption(opt *dg.ApplicationCommandInteractionDataOption) string {
	switch opt.Type {
	case dg.ApplicationCommandOptionSubCommand, dg.ApplicationCommandOptionSubCommandGroup:
		subParts := []string{opt.Name}
		for _, subOpt := range opt.Options {
			subParts = append(subParts, formatCommandOption(subOpt))
		}
		return strings.Join(subParts, " ")
	default:
		return fmt.Sprintf("%s:%s", opt.Name, formatCommandValue(opt))
	}
}
