package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zermelo-games/noughts-backend/internal/apperror"
	"github.com/zermelo-games/noughts-backend/internal/board"
	"github.com/zermelo-games/noughts-backend/internal/entity"
)

const (
	gameStatusOpponentOut = "opponent_out"
	gameStatusLeave       = "leave"
)

func (that *Server) handleConnect(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		log.Error("player is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "player is required")
	}

	player, err := that.gameUseCase.GetOrCreatePlayer(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to create or get player", "error", err)

		return that.sendErrorResponse(bufrw, msg.Action, "failed to create a new player")
	}

	that.registerConnection(player.ID, bufrw)
	that.playerReconnected(player.ID)

	if player.GameID != "" {
		return that.handleExistingGame(ctx, bufrw, msg, player)
	}

	if err = that.sendMessage(bufrw, msg.Action, Payload{Player: player}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

// handleExistingGame reattaches a reconnecting player to their running
// game.
func (that *Server) handleExistingGame(ctx context.Context, bufrw *bufio.ReadWriter, msg *Message, player *entity.Player) error {
	log := that.logger.With("method", "handleExistingGame")

	game, err := that.gameUseCase.GetGameByPlayerID(ctx, player.ID)
	if err != nil {
		log.Error("failed to get game", "gameID", player.GameID, "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to get the game")
	}

	payload := Payload{
		Player: player,
		Game:   maskGameDetails(game),
	}

	return that.sendMessage(bufrw, msg.Action, payload)
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleNewGame")

	var payloadReq Payload

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		log.Error("player is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "player is required")
	}

	if payloadReq.Game == nil {
		log.Error("game is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "game is required")
	}

	that.registerConnection(payloadReq.Player.ID, bufrw)

	var (
		game *entity.Game
		err  error
	)

	if payloadReq.Game.IsPublic() {
		game, err = that.gameUseCase.CreateOrJoinToPublicGame(ctx, payloadReq.Player.ID)
		if err != nil {
			log.Error("failed to create or join to public game", "error", err)
			return that.sendErrorResponse(bufrw, msg.Action, "failed to create or join to public game")
		}
	} else {
		game, err = that.gameUseCase.GetOrCreateGame(ctx, payloadReq.Player.ID, payloadReq.Game.Type, payloadReq.Game.Difficulty)
		if err != nil {
			log.Error("failed to create or get game", "error", err)
			return that.sendErrorResponse(bufrw, msg.Action, "failed to create a new game")
		}
	}

	that.broadcastGame(msg.Action, game)

	log.Info("player is in game", "gameID", game.ID)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleJoinGame")

	var payloadReq Payload

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		log.Error("player is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "player is required")
	}

	if payloadReq.Game == nil {
		log.Error("game is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "game is required")
	}

	that.registerConnection(payloadReq.Player.ID, bufrw)

	log = log.With("playerID", payloadReq.Player.ID)

	game, err := that.gameUseCase.JoinGameByID(ctx, payloadReq.Game.ID, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to join game", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, fmt.Sprintf("game %s: %v", payloadReq.Game.ID, err))
	}

	that.broadcastGame(msg.Action, game)

	log.Info("player joined game", "gameID", game.ID)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleGameTurn")

	var payloadReq Payload

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		log.Error("player is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "player is required")
	}

	if payloadReq.Cell == nil {
		log.Error("cell is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "cell is required")
	}

	that.registerConnection(payloadReq.Player.ID, bufrw)

	log = log.With("playerID", payloadReq.Player.ID)

	game, err := that.gameUseCase.MakeTurn(ctx, payloadReq.Player.ID, *payloadReq.Cell)

	if errors.Is(err, apperror.ErrGameFinished) {
		that.broadcastGame(msg.Action, game)
		log.Info("game finished", "gameID", game.ID, "winner", game.Winner)

		return nil
	}

	// Rule violations go back to the offending player only.
	for _, rejection := range []error{
		apperror.ErrGameIsNotStarted,
		apperror.ErrNotYourTurn,
		board.ErrCellOccupied,
		board.ErrCellOutOfRange,
	} {
		if errors.Is(err, rejection) {
			return that.sendErrorResponse(bufrw, msg.Action, fmt.Sprintf("game %s: %v", game.ID, err))
		}
	}

	if err != nil {
		log.Error("failed to make turn", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, fmt.Sprintf("failed to make turn: %v", err))
	}

	that.broadcastGame(msg.Action, game)

	log.Info("player made a turn", "gameID", game.ID)

	return nil
}

func (that *Server) handleGameLeave(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleGameLeave")

	var payloadReq Payload

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		log.Error("player is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "player is required")
	}

	that.registerConnection(payloadReq.Player.ID, bufrw)

	game, err := that.gameUseCase.GetGameByPlayerID(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to find game", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "game doesn't exist")
	}

	if err = that.gameUseCase.EndGame(ctx, game); err != nil {
		log.Error("failed to end game", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to leave the game")
	}

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		conn, ok := that.lookupConnection(player.ID)
		if !ok {
			log.Info("connection not found for player", "playerID", player.ID)
			continue
		}

		payloadResp := Payload{
			Player: player,
			Game:   maskGameDetails(game),
		}
		payloadResp.Game.Status = gameStatusLeave

		if err = that.sendMessage(conn, actionGameLeave, payloadResp); err != nil {
			log.Error("failed to send game update", "error", err)
		}
	}

	log.Info("player left game", "gameID", game.ID)

	return nil
}

func (that *Server) handleDisconnect(bufrw *bufio.ReadWriter) {
	log := that.logger.With("method", "handleDisconnect")

	that.connectionsMutex.Lock()
	var disconnectedPlayerID string
	for playerID, connection := range that.connections {
		if connection == bufrw {
			disconnectedPlayerID = playerID
			break
		}
	}

	if disconnectedPlayerID == "" {
		that.connectionsMutex.Unlock()
		return
	}

	delete(that.connections, disconnectedPlayerID)
	that.connectionsMutex.Unlock()

	log.Info("player disconnected", "playerID", disconnectedPlayerID)

	that.disconnectedMutex.Lock()
	that.disconnectedPlayers[disconnectedPlayerID] = time.Now()
	that.disconnectedMutex.Unlock()
}

// handleOpponentOut ends the game of a player who never came back and
// tells the opponent.
func (that *Server) handleOpponentOut(ctx context.Context, playerID string) {
	log := that.logger.With("method", "handleOpponentOut", "playerID", playerID)

	game, err := that.gameUseCase.GetGameByPlayerID(ctx, playerID)
	if err != nil {
		if !errors.Is(err, apperror.ErrGameIsNotStarted) {
			log.Error("failed to get game by player id", "error", err)
		}
		return
	}

	if err = that.gameUseCase.EndGame(ctx, game); err != nil {
		log.Error("failed to end game", "gameID", game.ID, "error", err)
		return
	}

	for _, player := range game.Players {
		if player.ID == playerID || player.IsBot() {
			continue
		}

		opponentConn, ok := that.lookupConnection(player.ID)
		if !ok {
			log.Warn("opponent connection not found", "opponentID", player.ID)
			continue
		}

		payloadResp := Payload{
			Game: maskGameDetails(game),
		}
		payloadResp.Game.Status = gameStatusOpponentOut

		if err = that.sendMessage(opponentConn, actionGameLeave, payloadResp); err != nil {
			log.Error("failed to send game:leave message", "opponentID", player.ID, "error", err)
		}
	}

	log.Info("handled opponent out", "gameID", game.ID)
}

// broadcastGame sends the masked game state to every seated human, each
// message carrying that player's own view.
func (that *Server) broadcastGame(action string, game *entity.Game) {
	log := that.logger.With("method", "broadcastGame", "gameID", game.ID)

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		conn, ok := that.lookupConnection(player.ID)
		if !ok {
			log.Warn("connection not found for player", "playerID", player.ID)
			continue
		}

		payloadResp := Payload{
			Player: player,
			Game:   maskGameDetails(game),
		}

		if err := that.sendMessage(conn, action, payloadResp); err != nil {
			log.Error("failed to send game update", "playerID", player.ID, "error", err)
		}
	}
}

func (that *Server) registerConnection(playerID string, bufrw *bufio.ReadWriter) {
	that.connectionsMutex.Lock()
	that.connections[playerID] = bufrw
	that.connectionsMutex.Unlock()
}

func (that *Server) lookupConnection(playerID string) (*bufio.ReadWriter, bool) {
	that.connectionsMutex.RLock()
	conn, ok := that.connections[playerID]
	that.connectionsMutex.RUnlock()

	return conn, ok
}

func (that *Server) playerReconnected(playerID string) {
	that.disconnectedMutex.Lock()
	defer that.disconnectedMutex.Unlock()
	delete(that.disconnectedPlayers, playerID)
}

// maskGameDetails strips the seat list and game type from an outgoing
// game so a client only ever learns its own identity.
func maskGameDetails(game *entity.Game) *entity.Game {
	masked := *game
	masked.Players = nil
	masked.Type = ""

	return &masked
}

func (that *Server) sendErrorResponse(bufrw *bufio.ReadWriter, action, errorMsg string) error {
	if err := that.sendMessage(bufrw, action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
