package service

import (
	"fmt"

	"github.com/benbeisheim/movecheck-backend/internal/fen"
	"github.com/benbeisheim/movecheck-backend/internal/model"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

// CreateGame opens a session from the standard layout, or from fenString when set.
func (gs *GameService) CreateGame(fenString string) (string, error) {
	engine := model.NewEngine()
	if fenString != "" {
		setup, err := fen.Parse(fenString)
		if err != nil {
			return "", err
		}
		engine = setup.Engine()
	}

	gameID := uuid.New().String()
	if err := gs.gameManager.CreateGame(gameID, engine); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) MatchStatus(playerID string) (*model.MatchFoundEvent, bool) {
	return gs.gameManager.MatchStatus(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.SimpleMove) (model.MoveResult, error) {
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

func (gs *GameService) LegalMoves(gameID string, from model.Square) ([]model.Square, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(from)
}

func (gs *GameService) PieceAt(gameID string, sq model.Square) (model.Piece, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.Empty, err
	}
	return game.PieceAt(sq)
}

func (gs *GameService) Game(gameID string) (*model.Game, error) {
	return gs.gameManager.GetGame(gameID)
}
