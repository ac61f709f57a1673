package model

type Player struct {
	ID    string
	Color Color
}

type ClientPlayer struct {
	ID    string `json:"name"`
	Color Color  `json:"color"`
}

// MatchFoundEvent tells a queued player which game and seat matchmaking gave them.
type MatchFoundEvent struct {
	GameID string `json:"gameId"`
	Color  Color  `json:"color"`
}
