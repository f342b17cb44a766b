// Package ui holds the interactive terminal prompts.
package ui

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// ErrNothingToPick is returned when there are no recent searches to choose from.
var ErrNothingToPick = errors.New("no recent searches")

// PickRecent lets the user choose one of the recent usernames, newest first.
func PickRecent(recent []string) (string, error) {
	if len(recent) == 0 {
		return "", ErrNothingToPick
	}

	opts := make([]huh.Option[string], 0, len(recent))
	for _, name := range recent {
		opts = append(opts, huh.NewOption(name, name))
	}

	selected := recent[0]
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Recent Searches").
				Options(opts...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return "", err
	}
	return selected, nil
}
