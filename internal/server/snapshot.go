package server

import (
	"sort"
	"strings"
)

// snapshot renders a room for clients. The secret word never appears: while
// a round is live only its masked shape is included, and the reveal happens
// solely through the roundEnded event.
func snapshot(room *Room) map[string]any {
	players := make([]map[string]any, 0, len(room.Players))
	for _, player := range room.Players {
		players = append(players, map[string]any{
			"id":          player.ID,
			"name":        player.Name,
			"avatar":      player.Avatar,
			"score":       player.Score,
			"isDrawing":   player.IsDrawing,
			"isConnected": player.IsConnected,
		})
	}
	messages := make([]map[string]any, 0, len(room.Messages))
	for _, msg := range room.Messages {
		messages = append(messages, map[string]any{
			"id":        msg.ID,
			"user":      map[string]any{"id": msg.User.ID, "name": msg.User.Name, "avatar": msg.User.Avatar},
			"text":      msg.Text,
			"isCorrect": msg.IsCorrect,
			"timestamp": msg.Timestamp,
		})
	}
	guessers := make([]string, 0, len(room.CorrectGuessers))
	for id := range room.CorrectGuessers {
		guessers = append(guessers, id)
	}
	sort.Strings(guessers)

	return map[string]any{
		"id":              room.ID,
		"hostId":          room.HostID,
		"settings":        room.Settings,
		"players":         players,
		"messages":        messages,
		"currentRound":    room.CurrentRound,
		"wordMask":        maskWord(room),
		"drawingPlayerId": room.DrawingPlayerID,
		"gameStatus":      room.Status,
		"roundTimeLeft":   room.RoundTimeLeft,
		"correctGuessers": guessers,
		"createdAt":       room.CreatedAt,
	}
}

// maskWord exposes only the shape of the secret word: one underscore per
// letter, spaces preserved.
func maskWord(room *Room) string {
	if room.Status != statusPlaying || room.CurrentWord == "" {
		return ""
	}
	var mask strings.Builder
	for _, r := range room.CurrentWord {
		if r == ' ' {
			mask.WriteRune(' ')
		} else {
			mask.WriteRune('_')
		}
	}
	return mask.String()
}
