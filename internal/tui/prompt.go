package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when the user cancels a prompt with Ctrl-C or Esc.
var ErrAborted = errors.New("prompt aborted")

// Confirm shows a yes/no prompt. The default answer is no.
func Confirm(title, description string) (bool, error) {
	var confirmed bool
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)
	if description != "" {
		field = field.Description(description)
	}

	err := huh.NewForm(huh.NewGroup(field)).
		WithTheme(currentThemeOrDefault()).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, ErrAborted
	}
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return confirmed, nil
}
