package utils

import (
	dg "github.com/bwmarrin/discordgo"
)

// Discord limits for application command definitions.
const (
	maxCommandNameLength        = 32
	maxCommandDescriptionLength = 100
	maxOptionsPerCommand        = 25
	maxChoicesPerOption         = 25
	maxOptionNameLength         = 32
	maxOptionDescLength         = 100
	maxChoiceNameLength         = 100
	maxChoiceValueLength        = 100
)

type ValidationResult struct {
	Command     *dg.ApplicationCommand
	WasModified bool
	Errors      []string
}

func (r *ValidationResult) truncate(s *string, max int, msg string) {
	if len(*s) > max {
		*s = (*s)[:max]
		r.WasModified = true
		r.Errors = append(r.Errors, msg)
	}
}

// ValidateCommand truncates cmd in place so Discord accepts it.
func ValidateCommand(cmd *dg.ApplicationCommand) ValidationResult {
	result := ValidationResult{Command: cmd}

	result.truncate(&cmd.Name, maxCommandNameLength, "Command name was truncated")
	result.truncate(&cmd.Description, maxCommandDescriptionLength, "Command description was truncated")

	if len(cmd.Options) > maxOptionsPerCommand {
		cmd.Options = cmd.Options[:maxOptionsPerCommand]
		result.WasModified = true
		result.Errors = append(result.Errors, "Excess options were removed")
	}

	for _, opt := range cmd.Options {
		result.truncate(&opt.Name, maxOptionNameLength, "Option name was truncated")
		result.truncate(&opt.Description, maxOptionDescLength, "Option description was truncated")

		if len(opt.Choices) > maxChoicesPerOption {
			opt.Choices = opt.Choices[:maxChoicesPerOption]
			result.WasModified = true
			result.Errors = append(result.Errors, "Excess choices were removed")
		}

		for _, choice := range opt.Choices {
			result.truncate(&choice.Name, maxChoiceNameLength, "Choice name was truncated")

			if s, ok := choice.Value.(string); ok {
				result.truncate(&s, maxChoiceValueLength, "Choice value was truncated")
				choice.Value = s
			}
		}
	}

	return result
}
