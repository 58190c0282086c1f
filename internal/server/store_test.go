package server

import (
	"errors"
	"testing"
	"time"
)

func TestCreateRoomDefaults(t *testing.T) {
	store := NewStore()
	room := store.CreateRoom("host-1", Settings{MaxPlayers: 4, RoundSeconds: 60, Rounds: 3})

	if len(room.ID) != 6 {
		t.Fatalf("expected 6-digit room code, got %q", room.ID)
	}
	for _, c := range room.ID {
		if c < '0' || c > '9' {
			t.Fatalf("expected numeric room code, got %q", room.ID)
		}
	}
	if room.Status != statusWaiting {
		t.Fatalf("expected status %q, got %q", statusWaiting, room.Status)
	}
	if room.CurrentRound != 0 {
		t.Fatalf("expected round 0, got %d", room.CurrentRound)
	}
	if len(room.Players) != 0 {
		t.Fatalf("expected no players, got %d", len(room.Players))
	}
	if room.CreatedAt.IsZero() {
		t.Fatal("expected createdAt to be set")
	}
}

func TestGetRoomMissing(t *testing.T) {
	store := NewStore()
	if _, ok := store.GetRoom("000000"); ok {
		t.Fatal("expected missing room")
	}
}

func TestUpdateRoom(t *testing.T) {
	store := NewStore()
	room := store.CreateRoom("host-1", Settings{})

	updated, err := store.UpdateRoom(room.ID, func(room *Room) error {
		room.CurrentRound = 2
		return nil
	})
	if err != nil {
		t.Fatalf("update room: %v", err)
	}
	if updated.CurrentRound != 2 {
		t.Fatalf("expected round 2, got %d", updated.CurrentRound)
	}

	if _, err := store.UpdateRoom("missing", func(room *Room) error { return nil }); !errors.Is(err, errRoomNotFound) {
		t.Fatalf("expected errRoomNotFound, got %v", err)
	}
}

func TestUpdateRoomErrorLeavesRoomVisible(t *testing.T) {
	store := NewStore()
	room := store.CreateRoom("host-1", Settings{})

	wantErr := errors.New("boom")
	if _, err := store.UpdateRoom(room.ID, func(room *Room) error { return wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("expected update error, got %v", err)
	}
	if _, ok := store.GetRoom(room.ID); !ok {
		t.Fatal("expected room to remain after failed update")
	}
}

func TestRemoveRoomIf(t *testing.T) {
	store := NewStore()
	room := store.CreateRoom("host-1", Settings{})

	if _, removed := store.RemoveRoomIf(room.ID, func(room *Room) bool { return false }); removed {
		t.Fatal("expected condition to prevent removal")
	}
	if _, ok := store.GetRoom(room.ID); !ok {
		t.Fatal("expected room to survive")
	}
	if _, removed := store.RemoveRoomIf(room.ID, func(room *Room) bool { return true }); !removed {
		t.Fatal("expected removal")
	}
	if _, ok := store.GetRoom(room.ID); ok {
		t.Fatal("expected room to be gone")
	}
}

func TestRestoreRoom(t *testing.T) {
	store := NewStore()
	room := &Room{ID: "123456", Status: statusWaiting, CreatedAt: time.Now().UTC()}
	if err := store.RestoreRoom(room); err != nil {
		t.Fatalf("restore room: %v", err)
	}
	if err := store.RestoreRoom(room); err == nil {
		t.Fatal("expected duplicate restore to fail")
	}
	restored, ok := store.GetRoom("123456")
	if !ok {
		t.Fatal("expected restored room")
	}
	if restored.CorrectGuessers == nil {
		t.Fatal("expected correct guessers map to be initialized")
	}
}

func TestUpdateRoomReturnsDetachedCopy(t *testing.T) {
	store := NewStore()
	room := store.CreateRoom("host-1", Settings{})

	updated, err := store.UpdateRoom(room.ID, func(room *Room) error {
		room.Players = append(room.Players, Player{ID: "p1", IsConnected: true})
		room.CorrectGuessers["p1"] = struct{}{}
		return nil
	})
	if err != nil {
		t.Fatalf("update room: %v", err)
	}

	updated.Players[0].Score = 999
	updated.Messages = append(updated.Messages, ChatMessage{ID: "m1"})
	updated.CorrectGuessers["intruder"] = struct{}{}
	updated.CurrentWord = "tampered"

	fresh, ok := store.GetRoom(room.ID)
	if !ok {
		t.Fatal("room gone")
	}
	if fresh.Players[0].Score != 0 {
		t.Fatalf("mutating the returned copy leaked into the store: score=%d", fresh.Players[0].Score)
	}
	if len(fresh.Messages) != 0 {
		t.Fatalf("expected no messages in store, got %d", len(fresh.Messages))
	}
	if _, ok := fresh.CorrectGuessers["intruder"]; ok {
		t.Fatal("guesser set shared with the returned copy")
	}
	if fresh.CurrentWord != "" {
		t.Fatalf("expected word unchanged, got %q", fresh.CurrentWord)
	}
}

func TestGetRoomReturnsDetachedCopy(t *testing.T) {
	store := NewStore()
	room := store.CreateRoom("host-1", Settings{})

	first, _ := store.GetRoom(room.ID)
	first.HostID = "hijacked"
	first.CorrectGuessers["x"] = struct{}{}

	second, _ := store.GetRoom(room.ID)
	if second.HostID != "host-1" {
		t.Fatalf("expected host-1, got %q", second.HostID)
	}
	if len(second.CorrectGuessers) != 0 {
		t.Fatal("guesser set shared between reads")
	}
}

func TestListRoomSummaries(t *testing.T) {
	store := NewStore()
	room := store.CreateRoom("host-1", Settings{})
	if _, err := store.UpdateRoom(room.ID, func(room *Room) error {
		room.Players = append(room.Players, Player{ID: "p1", IsConnected: true}, Player{ID: "p2", IsConnected: false})
		return nil
	}); err != nil {
		t.Fatalf("update room: %v", err)
	}

	summaries := store.ListRoomSummaries()
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	if summaries[0].Players != 1 {
		t.Fatalf("expected 1 connected player, got %d", summaries[0].Players)
	}
}
