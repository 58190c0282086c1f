package server

import "strings"

// matchesWord compares a guess against the secret word, ignoring case and
// surrounding whitespace.
func matchesWord(text, word string) bool {
	if word == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(text), strings.TrimSpace(word))
}

// applyGuess decides whether msg is a scoring correct guess and applies the
// resulting mutation to the room. A correct guess awards the author a fixed
// number of points and replaces the visible text with a marker so the word
// never reaches other clients through the chat log. A repeat correct guess
// is redacted too but scores nothing. Everything else passes through
// unmodified. Returns true when a score was awarded.
func applyGuess(room *Room, msg *ChatMessage) bool {
	if room.Status != statusPlaying {
		return false
	}
	if msg.User.ID == room.DrawingPlayerID {
		return false
	}
	if !matchesWord(msg.Text, room.CurrentWord) {
		return false
	}
	if _, done := room.CorrectGuessers[msg.User.ID]; done {
		msg.Text = alreadyGuessedMarker
		return false
	}
	room.CorrectGuessers[msg.User.ID] = struct{}{}
	for i := range room.Players {
		if room.Players[i].ID == msg.User.ID {
			room.Players[i].Score += guessAward
			break
		}
	}
	msg.Text = correctGuessMarker
	msg.IsCorrect = true
	return true
}

// allGuessed reports whether every connected non-drawing player has scored
// this round, which ends the round early.
func allGuessed(room *Room) bool {
	guessers := 0
	for _, player := range room.Players {
		if !player.IsConnected || player.ID == room.DrawingPlayerID {
			continue
		}
		if _, ok := room.CorrectGuessers[player.ID]; !ok {
			return false
		}
		guessers++
	}
	return guessers > 0
}
