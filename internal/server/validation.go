package server

import (
	"errors"
	"fmt"
	"strings"
)

const (
	maxNameLength    = 20
	maxMessageLength = 120
	maxPlayerID      = 64
	maxRoundsPerGame = 10
	maxRoomPlayers   = 12
)

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("name is required")
	}
	if len(name) > maxNameLength {
		return "", fmt.Errorf("name must be at most %d characters", maxNameLength)
	}
	return name, nil
}

func validatePlayerID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.New("player id is required")
	}
	if len(id) > maxPlayerID {
		return "", fmt.Errorf("player id must be at most %d characters", maxPlayerID)
	}
	return id, nil
}

func validateMessageText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New("message text is required")
	}
	if len(text) > maxMessageLength {
		return "", fmt.Errorf("message must be at most %d characters", maxMessageLength)
	}
	return text, nil
}

// validateSettings clamps requested settings against the server's limits,
// falling back to defaults for anything unset.
func validateSettings(requested *Settings, defaults Settings) Settings {
	settings := defaults
	if requested == nil {
		return settings
	}
	if requested.MaxPlayers >= 2 && requested.MaxPlayers <= maxRoomPlayers {
		settings.MaxPlayers = requested.MaxPlayers
	}
	if requested.RoundSeconds >= 10 && requested.RoundSeconds <= 300 {
		settings.RoundSeconds = requested.RoundSeconds
	}
	if requested.Rounds >= 1 && requested.Rounds <= maxRoundsPerGame {
		settings.Rounds = requested.Rounds
	}
	if requested.WordChoices >= 1 && requested.WordChoices <= 5 {
		settings.WordChoices = requested.WordChoices
	}
	if requested.Hints >= 1 && requested.Hints <= 5 {
		settings.Hints = requested.Hints
	}
	return settings
}
