package server

import "time"

const (
	statusWaiting  = "waiting"
	statusPlaying  = "playing"
	statusRoundEnd = "roundEnd"
	statusGameEnd  = "gameEnd"
)

const (
	guessAward           = 100
	correctGuessMarker   = "guessed the word!"
	alreadyGuessedMarker = "already guessed the word"
)

// Settings is fixed at room creation and never mutated afterwards.
type Settings struct {
	MaxPlayers   int `json:"maxPlayers"`
	RoundSeconds int `json:"roundSeconds"`
	Rounds       int `json:"rounds"`
	WordChoices  int `json:"wordChoices"`
	Hints        int `json:"hints"`
}

type Room struct {
	ID              string              `json:"id"`
	DBID            uint                `json:"-"`
	HostID          string              `json:"hostId"`
	Settings        Settings            `json:"settings"`
	Players         []Player            `json:"players"`
	Messages        []ChatMessage       `json:"messages"`
	CurrentRound    int                 `json:"currentRound"`
	CurrentWord     string              `json:"currentWord"`
	DrawingPlayerID string              `json:"drawingPlayerId"`
	Status          string              `json:"gameStatus"`
	RoundTimeLeft   int                 `json:"roundTimeLeft"`
	CorrectGuessers map[string]struct{} `json:"correctGuessers"`
	CreatedAt       time.Time           `json:"createdAt"`
}

type Player struct {
	ID          string `json:"id"`
	DBID        uint   `json:"-"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar,omitempty"`
	Score       int    `json:"score"`
	IsDrawing   bool   `json:"isDrawing"`
	IsConnected bool   `json:"isConnected"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	User      Player    `json:"user"`
	Text      string    `json:"text"`
	IsCorrect bool      `json:"isCorrect"`
	Timestamp time.Time `json:"timestamp"`
}

type RoomSummary struct {
	ID      string
	Status  string
	Players int
	Round   int
}

func connectedPlayers(room *Room) []Player {
	players := make([]Player, 0, len(room.Players))
	for _, player := range room.Players {
		if player.IsConnected {
			players = append(players, player)
		}
	}
	return players
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
