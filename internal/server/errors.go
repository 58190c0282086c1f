package server

import "errors"

var (
	errRoomNotFound        = errors.New("room not found")
	errRoomFull            = errors.New("room is full")
	errPlayerNotFound      = errors.New("player not found")
	errInsufficientPlayers = errors.New("not enough players to start")
	errGameInProgress      = errors.New("game already in progress")
	errNotHost             = errors.New("only the host can start the game")
)
