// Package server exposes a running game to browser clients over a
// websocket. Clients send JSON commands and receive command results, every
// engine event, and periodic state snapshots.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/idlerpg/internal/config"
	"github.com/lawnchairsociety/idlerpg/internal/engine"
	"github.com/lawnchairsociety/idlerpg/internal/formula"
	"github.com/lawnchairsociety/idlerpg/internal/items"
	"github.com/lawnchairsociety/idlerpg/internal/logger"
	"github.com/lawnchairsociety/idlerpg/internal/objective"
	"github.com/lawnchairsociety/idlerpg/internal/player"
	"github.com/lawnchairsociety/idlerpg/internal/save"
	"github.com/lawnchairsociety/idlerpg/internal/skills"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrNoPersistence = errors.New("saving is not configured")
)

// eventBuffer is how many engine events a slow client may fall behind by
// before it starts missing them.
const eventBuffer = 64

// Persister stores the game. *save.Gateway satisfies it.
type Persister interface {
	Save(*save.Snapshot) error
	Reset() error
}

// Server bridges websocket clients to one game engine.
type Server struct {
	cfg      config.ServerConfig
	eng      *engine.Engine
	store    Persister
	limiter  *ConnLimiter
	commands *CommandLimiter
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*WebSocketClient]struct{}
	http    *http.Server

	shutdown     chan struct{}
	shutdownOnce sync.Once
	StartTime    time.Time
}

// New creates a server for eng. store may be nil, which disables the save
// action.
func New(cfg config.ServerConfig, eng *engine.Engine, store Persister) *Server {
	s := &Server{
		cfg:       cfg,
		eng:       eng,
		store:     store,
		limiter:   NewConnLimiter(cfg.Connections),
		commands:  NewCommandLimiter(cfg.RateLimit),
		clients:   make(map[*WebSocketClient]struct{}),
		shutdown:  make(chan struct{}),
		StartTime: time.Now(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// ListenAndServe serves until Shutdown is called.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.http = srv
	s.mu.Unlock()

	logger.Info("WebSocket server listening", "address", s.cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and disconnects every client. Only
// the first call does anything.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.shutdown)
		s.commands.Stop()

		s.mu.Lock()
		srv := s.http
		for c := range s.clients {
			c.Close()
		}
		s.mu.Unlock()

		if srv != nil {
			err = srv.Shutdown(ctx)
		}
		logger.Info("WebSocket server stopped")
	})
	return err
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	p := s.eng.Player()
	body := struct {
		Status      string    `json:"status"`
		Uptime      string    `json:"uptime"`
		Connections ConnStats `json:"connections"`
		Level       int       `json:"level"`
		Prestige    int       `json:"prestige"`
	}{
		Status:      "ok",
		Uptime:      time.Since(s.StartTime).Round(time.Second).String(),
		Connections: s.limiter.Stats(),
		Level:       p.Level,
		Prestige:    p.PrestigeLevel,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Debug("Health response failed", "error", err)
	}
}

func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	if !s.limiter.TryAcquire(ip) {
		logger.Warning("WebSocket connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", ip)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		s.limiter.Release(ip)
		return
	}
	if s.cfg.WebSocket.MaxMessageSize > 0 {
		conn.SetReadLimit(s.cfg.WebSocket.MaxMessageSize)
	}

	go s.serve(NewWebSocketClient(conn), ip)
}

// serve runs one client session until the connection drops.
func (s *Server) serve(client *WebSocketClient, ip string) {
	s.mu.Lock()
	s.clients[client] = struct{}{}
	s.mu.Unlock()

	events, unsubscribe := s.eng.Bus().Subscribe(eventBuffer)
	done := make(chan struct{})

	defer func() {
		close(done)
		unsubscribe()
		s.mu.Lock()
		delete(s.clients, client)
		s.mu.Unlock()
		client.Close()
		s.limiter.Release(ip)
		logger.Info("Client disconnected", "client_ip", ip)
	}()

	logger.Info("Client connected", "client_ip", ip)
	go s.push(client, events, done)

	if err := s.sendState(client); err != nil {
		return
	}
	for {
		cmd, err := client.ReadCommand()
		if errors.Is(err, ErrMalformedCommand) {
			if client.Send(resultMessage(Result{Error: err.Error()})) != nil {
				return
			}
			continue
		}
		if err != nil {
			logger.Debug("Client read ended", "client_ip", ip, "error", err)
			return
		}

		if ok, wait := s.commands.Allow(ip); !ok {
			res := Result{Action: cmd.Action, Error: fmt.Sprintf("too many commands, wait %s", wait.Round(time.Second))}
			if client.Send(resultMessage(res)) != nil {
				return
			}
			continue
		}

		if client.Send(resultMessage(s.dispatch(cmd))) != nil {
			return
		}
		if s.sendState(client) != nil {
			return
		}
	}
}

// push forwards engine events and periodic state to client until done.
func (s *Server) push(client *WebSocketClient, events <-chan engine.Event, done <-chan struct{}) {
	interval := s.cfg.StateInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.shutdown:
			return
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if client.Send(Message{Type: TypeEvent, Event: &ev}) != nil {
				return
			}
		case <-ticker.C:
			if s.sendState(client) != nil {
				return
			}
		}
	}
}

func (s *Server) sendState(client *WebSocketClient) error {
	v := s.eng.View()
	return client.Send(Message{Type: TypeState, State: &v})
}

func resultMessage(r Result) Message {
	return Message{Type: TypeResult, Result: &r}
}

// dispatch runs one command against the engine.
func (s *Server) dispatch(cmd Command) Result {
	data, err := s.execute(cmd)
	res := Result{Action: cmd.Action, OK: err == nil, Data: data}
	if err != nil {
		res.Error = err.Error()
		res.Data = nil
	}
	return res
}

func (s *Server) execute(cmd Command) (any, error) {
	switch cmd.Action {
	case "state":
		return nil, nil

	case "attack":
		t := formula.AttackNormal
		if cmd.AttackType != "" {
			parsed, err := formula.ParseAttackType(cmd.AttackType)
			if err != nil {
				return nil, err
			}
			t = parsed
		}
		return s.eng.Attack(t), nil

	case "use":
		c, err := items.ParseConsumableType(cmd.Consumable)
		if err != nil {
			return nil, err
		}
		return nil, s.eng.UseConsumable(c)

	case "buy_skill":
		id, err := skills.ParseID(cmd.Skill)
		if err != nil {
			return nil, err
		}
		if err := s.eng.PurchaseSkill(id); err != nil {
			return nil, err
		}
		return map[string]int{"level": s.eng.SkillLevel(id)}, nil

	case "buy_item":
		item, err := s.eng.PurchaseItem(cmd.Item)
		if err != nil {
			return nil, err
		}
		return item, nil

	case "equip":
		id := cmd.ItemID
		if id == "" && cmd.Item != "" {
			item, ok := items.FindByName(s.eng.Inventory(), cmd.Item)
			if !ok {
				return nil, fmt.Errorf("%w: %q", engine.ErrUnknownItem, cmd.Item)
			}
			id = item.ID
		}
		return nil, s.eng.EquipFromInventory(id)

	case "navigate":
		loc, err := player.ParseLocation(cmd.Location)
		if err != nil {
			return nil, err
		}
		return nil, s.eng.Navigate(loc)

	case "start_raid":
		id, err := objective.ParseRaidID(cmd.Raid)
		if err != nil {
			return nil, err
		}
		return nil, s.eng.StartRaid(id)

	case "prestige":
		return nil, s.eng.Prestige()

	case "tutorial":
		switch cmd.Step {
		case "next":
			return s.eng.TutorialNext(), nil
		case "skip":
			return s.eng.TutorialSkip(), nil
		case "restart":
			return s.eng.TutorialRestart(), nil
		}
		return nil, fmt.Errorf("unknown tutorial step %q", cmd.Step)

	case "save":
		if s.store == nil {
			return nil, ErrNoPersistence
		}
		return nil, s.store.Save(s.eng.Export())

	case "reset":
		s.eng.Reset()
		if s.store == nil {
			return nil, nil
		}
		return nil, s.store.Reset()
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
}
