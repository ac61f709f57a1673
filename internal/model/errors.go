package model

import "errors"

var (
	// ErrUnknownPieceKind means a square holds a piece the rule table has no entry for.
	// The position is corrupt; it is never reported as an illegal move.
	ErrUnknownPieceKind = errors.New("unknown piece kind")
	ErrSquareOutOfRange = errors.New("square out of range")

	ErrIllegalMove  = errors.New("illegal move")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrNotInGame    = errors.New("player not in game")
	ErrGameFull     = errors.New("game is full")
	ErrGameNotFound = errors.New("game not found")
)
