package server

import (
	"log"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

func (s *Server) defaultSettings() Settings {
	return Settings{
		MaxPlayers:   s.cfg.MaxPlayers,
		RoundSeconds: s.cfg.RoundSeconds,
		Rounds:       s.cfg.Rounds,
		WordChoices:  s.cfg.WordChoices,
		Hints:        s.cfg.Hints,
	}
}

func (s *Server) createRoom(hostID string, settings Settings) *Room {
	room := s.store.CreateRoom(hostID, settings)
	log.Printf("room created room_id=%s host_id=%s", room.ID, hostID)
	s.mirrorRoom(room)
	return room
}

// joinRoom appends a new player, or merges and reconnects an existing one
// so a rejoining player keeps their score.
func (s *Server) joinRoom(roomID string, incoming Player) (*Room, error) {
	var joined Player
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		if existing, ok := s.store.FindPlayer(room, incoming.ID); ok {
			if incoming.Name != "" {
				existing.Name = incoming.Name
			}
			if incoming.Avatar != "" {
				existing.Avatar = incoming.Avatar
			}
			existing.IsConnected = true
			joined = *existing
			return nil
		}
		if room.Settings.MaxPlayers > 0 && len(room.Players) >= room.Settings.MaxPlayers {
			return errRoomFull
		}
		player := Player{
			ID:          incoming.ID,
			Name:        incoming.Name,
			Avatar:      incoming.Avatar,
			IsConnected: true,
		}
		room.Players = append(room.Players, player)
		if room.HostID == "" {
			room.HostID = player.ID
		}
		joined = player
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("player joined room_id=%s player_id=%s", roomID, joined.ID)
	s.mirrorRoom(room)
	s.broadcastEvent(roomID, eventPlayerJoined, joined)
	s.broadcastRoomUpdate(room)
	return room, nil
}

// leaveRoom marks the player disconnected rather than removing them, so a
// rejoin can restore their score. The room itself is deleted once nobody
// is left connected.
func (s *Server) leaveRoom(roomID, playerID string) error {
	empty := false
	drawerLeft := false
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		player, ok := s.store.FindPlayer(room, playerID)
		if !ok {
			return errPlayerNotFound
		}
		player.IsConnected = false
		if player.IsDrawing {
			player.IsDrawing = false
			room.DrawingPlayerID = ""
			drawerLeft = room.Status == statusPlaying
		}
		if room.HostID == playerID {
			for _, candidate := range room.Players {
				if candidate.IsConnected {
					room.HostID = candidate.ID
					break
				}
			}
		}
		empty = len(connectedPlayers(room)) == 0
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("player left room_id=%s player_id=%s", roomID, playerID)
	if empty {
		s.removeRoom(roomID, "last player left")
		return nil
	}
	s.broadcastEvent(roomID, eventPlayerLeft, map[string]string{"playerId": playerID})
	s.broadcastRoomUpdate(room)
	s.mirrorRoom(room)
	if drawerLeft {
		s.endRound(roomID)
	}
	return nil
}

// startGame begins a fresh play-through. Allowed from waiting and from
// gameEnd, so a finished room can host a rematch.
func (s *Server) startGame(roomID, playerID string) (*Room, error) {
	word := s.words.RandomWord()
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		if playerID != "" && playerID != room.HostID {
			return errNotHost
		}
		if room.Status == statusPlaying || room.Status == statusRoundEnd {
			return errGameInProgress
		}
		connected := connectedPlayers(room)
		if len(connected) < 2 {
			return errInsufficientPlayers
		}
		drawer := connected[rand.IntN(len(connected))].ID
		for i := range room.Players {
			room.Players[i].Score = 0
			room.Players[i].IsDrawing = room.Players[i].ID == drawer
		}
		room.DrawingPlayerID = drawer
		room.CurrentWord = word
		room.CurrentRound = 1
		room.RoundTimeLeft = room.Settings.RoundSeconds
		room.CorrectGuessers = make(map[string]struct{})
		room.Status = statusPlaying
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("game started room_id=%s drawer_id=%s rounds=%d", roomID, room.DrawingPlayerID, room.Settings.Rounds)
	s.mirrorRoom(room)
	s.broadcastEvent(roomID, eventGameStarted, snapshot(room))
	s.broadcastRoomUpdate(room)
	s.sendDrawerWord(roomID, room.DrawingPlayerID, word, room.CurrentRound)
	s.scheduleRoundTimer(roomID)
	return room, nil
}

// endRound moves a playing room to roundEnd, reveals the word, and after a
// short grace period advances to the next round. A room that already left
// the playing state is untouched.
func (s *Server) endRound(roomID string) {
	ended := false
	var round int
	var word string
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		if room.Status != statusPlaying {
			return nil
		}
		room.Status = statusRoundEnd
		round = room.CurrentRound
		word = room.CurrentWord
		ended = true
		return nil
	})
	if err != nil || !ended {
		return
	}
	s.cancelRoundTimer(roomID)
	log.Printf("round ended room_id=%s round=%d", roomID, round)
	s.mirrorRoom(room)
	s.broadcastEvent(roomID, eventRoundEnded, map[string]any{
		"round": round,
		"word":  word,
	})
	s.broadcastRoomUpdate(room)
	grace := time.Duration(s.cfg.RoundEndGraceSeconds) * time.Second
	time.AfterFunc(grace, func() {
		s.advanceRound(roomID)
	})
}

// advanceRound runs after the roundEnd grace period: finish the game when
// the configured rounds are exhausted, fall back to waiting when too few
// players remain, otherwise rotate the drawer and start the next round.
func (s *Server) advanceRound(roomID string) {
	word := s.words.RandomWord()
	started := false
	finished := false
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		if room.Status != statusRoundEnd {
			return nil
		}
		if room.CurrentRound >= room.Settings.Rounds {
			room.Status = statusGameEnd
			room.CurrentWord = ""
			room.DrawingPlayerID = ""
			for i := range room.Players {
				room.Players[i].IsDrawing = false
			}
			finished = true
			return nil
		}
		if len(connectedPlayers(room)) < 2 {
			room.Status = statusWaiting
			room.CurrentRound = 0
			room.CurrentWord = ""
			room.DrawingPlayerID = ""
			for i := range room.Players {
				room.Players[i].IsDrawing = false
			}
			return nil
		}
		drawer := nextDrawer(room)
		for i := range room.Players {
			room.Players[i].IsDrawing = room.Players[i].ID == drawer
		}
		room.DrawingPlayerID = drawer
		room.CurrentWord = word
		room.CurrentRound++
		room.RoundTimeLeft = room.Settings.RoundSeconds
		room.CorrectGuessers = make(map[string]struct{})
		room.Status = statusPlaying
		started = true
		return nil
	})
	if err != nil {
		return
	}
	s.mirrorRoom(room)
	s.broadcastRoomUpdate(room)
	if finished {
		log.Printf("game ended room_id=%s", roomID)
	}
	if started {
		s.sendDrawerWord(roomID, room.DrawingPlayerID, word, room.CurrentRound)
		s.scheduleRoundTimer(roomID)
	}
}

// nextDrawer rotates cyclically through players in join order, starting
// just past the previous drawer, skipping disconnected players.
func nextDrawer(room *Room) string {
	if len(room.Players) == 0 {
		return ""
	}
	start := 0
	for i := range room.Players {
		if room.Players[i].ID == room.DrawingPlayerID {
			start = i + 1
			break
		}
	}
	for offset := 0; offset < len(room.Players); offset++ {
		candidate := &room.Players[(start+offset)%len(room.Players)]
		if candidate.IsConnected {
			return candidate.ID
		}
	}
	return ""
}

// recordMessage appends a chat message, scoring it as a guess when it
// matches the current word. Evaluation, redaction, and the score change
// land in a single store update.
func (s *Server) recordMessage(roomID string, msg ChatMessage) (ChatMessage, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.Timestamp = timeNowUTC()
	scored := false
	roundOver := false
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		player, ok := s.store.FindPlayer(room, msg.User.ID)
		if !ok {
			return errPlayerNotFound
		}
		msg.User = *player
		scored = applyGuess(room, &msg)
		room.Messages = append(room.Messages, msg)
		if scored {
			msg.User.Score = playerScore(room, msg.User.ID)
			roundOver = allGuessed(room)
		}
		return nil
	})
	if err != nil {
		return ChatMessage{}, err
	}
	s.mirrorMessage(room, msg)
	s.broadcastEvent(roomID, eventNewMessage, msg)
	if scored {
		s.mirrorRoom(room)
		s.broadcastRoomUpdate(room)
	}
	if roundOver {
		s.endRound(roomID)
	}
	return msg, nil
}

func playerScore(room *Room, playerID string) int {
	for _, player := range room.Players {
		if player.ID == playerID {
			return player.Score
		}
	}
	return 0
}

func (s *Server) removeRoom(roomID, reason string) {
	room, ok := s.store.RemoveRoom(roomID)
	if !ok {
		return
	}
	s.cancelRoundTimer(roomID)
	log.Printf("room removed room_id=%s reason=%s", roomID, reason)
	s.mirrorRoomClosed(room)
}
