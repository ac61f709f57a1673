// service/game_manager.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/movecheck-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type GameManager struct {
	games   map[string]*model.Game
	queue   *model.Queue
	matches map[string]model.MatchFoundEvent // playerID -> match waiting to be collected
	mu      sync.RWMutex
}

func NewGameManager() *GameManager {
	return &GameManager{
		games:   make(map[string]*model.Game),
		queue:   model.NewQueue(),
		matches: make(map[string]model.MatchFoundEvent),
	}
}

// RunMatchmaking pairs queued players every interval until ctx is cancelled.
func (gm *GameManager) RunMatchmaking(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("matchmaking stopped")
			return
		case <-ticker.C:
			for gm.matchNextPair() {
			}
			if waiting := gm.queue.Size(); waiting > 0 {
				log.Debugf("matchmaking: %d player(s) waiting", waiting)
			}
		}
	}
}

// matchNextPair seats the two longest-waiting players in a fresh game.
func (gm *GameManager) matchNextPair() bool {
	first, second, ok := gm.queue.NextPair()
	if !ok {
		return false
	}

	gameID := uuid.New().String()
	game := model.NewGame(gameID)
	p1Color, err := game.AddPlayer(first.Player.ID)
	if err != nil {
		log.Errorf("matchmaking: seating %s: %v", first.Player.ID, err)
		return true
	}
	p2Color, err := game.AddPlayer(second.Player.ID)
	if err != nil {
		log.Errorf("matchmaking: seating %s: %v", second.Player.ID, err)
		return true
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.games[gameID] = game
	gm.matches[first.Player.ID] = model.MatchFoundEvent{GameID: gameID, Color: p1Color}
	gm.matches[second.Player.ID] = model.MatchFoundEvent{GameID: gameID, Color: p2Color}
	log.Infof("matchmaking: game %s for %s and %s", gameID, first.Player.ID, second.Player.ID)
	return true
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.RLock()
	_, matched := gm.matches[playerID]
	gm.mu.RUnlock()
	if matched {
		return errors.New("player already matched")
	}

	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

// MatchStatus returns the player's match once found and hands it over: the entry is
// dropped so the player may queue again. queued reports whether the player is still waiting.
func (gm *GameManager) MatchStatus(playerID string) (event *model.MatchFoundEvent, queued bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if ev, ok := gm.matches[playerID]; ok {
		delete(gm.matches, playerID)
		return &ev, false
	}
	return nil, gm.queue.Contains(playerID)
}

func (gm *GameManager) CreateGame(gameID string, engine *model.Engine) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return fmt.Errorf("game %s already exists", gameID)
	}

	gm.games[gameID] = model.NewGameWithEngine(gameID, engine)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", model.ErrGameNotFound, gameID)
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.SimpleMove) (model.MoveResult, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.MoveResult{}, err
	}
	return game.MakeMove(playerID, move)
}
