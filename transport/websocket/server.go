package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/zermelo-games/noughts-backend/internal/entity"
	"github.com/zermelo-games/noughts-backend/internal/pkg"
)

const (
	actionConnect   = "connect"
	actionNewGame   = "game:new"
	actionJoinGame  = "game:join"
	actionGameTurn  = "game:turn"
	actionGameLeave = "game:leave"
)

const (
	sessionCookieName = "user_session"
	sessionCookieTTL  = 24 * time.Hour

	// A dropped player gets this long to reconnect before the game is
	// ended for the opponent.
	disconnectGrace      = 30 * time.Second
	disconnectSweepEvery = 10 * time.Second
)

type gameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error)

	GetOrCreateGame(ctx context.Context, playerID, gameType, difficulty string) (*entity.Game, error)
	GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error)
	CreateOrJoinToPublicGame(ctx context.Context, playerID string) (*entity.Game, error)
	JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)
	EndGame(ctx context.Context, game *entity.Game) error
}

type connectionCounter interface {
	ConnectionOpened()
	ConnectionClosed()
}

type noopCounter struct{}

func (noopCounter) ConnectionOpened() {}
func (noopCounter) ConnectionClosed() {}

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	counter     connectionCounter

	handlers map[string]func(ctx context.Context, message *Message, bufrw *bufio.ReadWriter) error

	connectionsMutex sync.RWMutex
	connections      map[string]*bufio.ReadWriter

	disconnectedMutex   sync.Mutex
	disconnectedPlayers map[string]time.Time
}

func New(logger *slog.Logger, gameUseCase gameUseCase, counter connectionCounter) *Server {
	if counter == nil {
		counter = noopCounter{}
	}

	server := &Server{
		logger:      logger,
		gameUseCase: gameUseCase,
		counter:     counter,

		connections:         make(map[string]*bufio.ReadWriter),
		disconnectedPlayers: make(map[string]time.Time),
	}

	server.handlers = map[string]func(context.Context, *Message, *bufio.ReadWriter) error{
		actionConnect:   server.handleConnect,
		actionNewGame:   server.handleNewGame,
		actionJoinGame:  server.handleJoinGame,
		actionGameTurn:  server.handleGameTurn,
		actionGameLeave: server.handleGameLeave,
	}

	return server
}

// Start runs the WebSocket server until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go that.watchDisconnected(ctx)

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			that.logger.Error("failed to shut down websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket performs the RFC 6455 opening handshake and takes
// over the TCP connection.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	if req.Header.Get("Upgrade") != "websocket" {
		http.Error(writer, "not a websocket upgrade", http.StatusBadRequest)
		return
	}

	that.setSessionCookie(writer, req)

	key := req.Header.Get("Sec-WebSocket-Key")
	if key == "" {
		http.Error(writer, "missing Sec-WebSocket-Key", http.StatusBadRequest)
		return
	}

	writer.Header().Set("Upgrade", "websocket")
	writer.Header().Set("Connection", "Upgrade")
	writer.Header().Set("Sec-WebSocket-Accept", pkg.GenerateAcceptKey(key))
	writer.WriteHeader(http.StatusSwitchingProtocols)

	hijacker, ok := writer.(http.Hijacker)
	if !ok {
		log.Error("web server does not support hijacking")
		return
	}

	conn, bufrw, err := hijacker.Hijack()
	if err != nil {
		log.Error("failed to hijack connection", "error", err)
		return
	}

	defer conn.Close()

	that.counter.ConnectionOpened()
	defer that.counter.ConnectionClosed()

	log.Info("websocket connection established", "remote", conn.RemoteAddr().String())

	that.handleMessages(ctx, bufrw)
}

// handleMessages pumps client messages into the action handlers until
// the peer goes away.
func (that *Server) handleMessages(ctx context.Context, bufrw *bufio.ReadWriter) {
	log := that.logger.With("method", "handleMessages")

	for {
		reqBody, err := that.readRequest(bufrw)
		if err != nil {
			if !errors.Is(err, errConnectionClosed) {
				log.Error("error reading message", "error", err)
			}
			that.handleDisconnect(bufrw)

			return
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, &message, bufrw); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// setSessionCookie hands first-time visitors a session id; the client
// echoes it back as its player id.
func (that *Server) setSessionCookie(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "setSessionCookie")

	if _, err := req.Cookie(sessionCookieName); err == nil {
		return
	}

	sessionID, err := pkg.GenerateSessionID()
	if err != nil {
		log.Error("failed to generate session id", "error", err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:    sessionCookieName,
		Value:   sessionID,
		Expires: time.Now().Add(sessionCookieTTL),
		Path:    "/ws",
	})
	log.Info("session cookie created")
}

// watchDisconnected periodically ends the games of players whose
// reconnect grace ran out.
func (that *Server) watchDisconnected(ctx context.Context) {
	ticker := time.NewTicker(disconnectSweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			that.sweepDisconnected(ctx)
		}
	}
}

func (that *Server) sweepDisconnected(ctx context.Context) {
	that.disconnectedMutex.Lock()
	var expired []string
	for playerID, since := range that.disconnectedPlayers {
		if time.Since(since) >= disconnectGrace {
			expired = append(expired, playerID)
			delete(that.disconnectedPlayers, playerID)
		}
	}
	that.disconnectedMutex.Unlock()

	for _, playerID := range expired {
		that.handleOpponentOut(ctx, playerID)
	}
}
