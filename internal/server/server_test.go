package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/idlerpg/internal/config"
	"github.com/lawnchairsociety/idlerpg/internal/engine"
	"github.com/lawnchairsociety/idlerpg/internal/formula"
	"github.com/lawnchairsociety/idlerpg/internal/gametime"
	"github.com/lawnchairsociety/idlerpg/internal/save"
)

// frame is what tests decode server messages into; state stays raw.
type frame struct {
	Type   MessageType     `json:"type"`
	Result *Result         `json:"result"`
	Event  *engine.Event   `json:"event"`
	State  json.RawMessage `json:"state"`
}

type stateSummary struct {
	Player struct {
		Level int `json:"level"`
		HP    int `json:"hp"`
		Gold  int `json:"gold"`
	} `json:"player"`
	Monster *struct {
		Name string `json:"name"`
		HP   int    `json:"hp"`
	} `json:"monster"`
	Location string `json:"location"`
}

type testGame struct {
	srv *Server
	ts  *httptest.Server
	eng *engine.Engine
	gw  *save.Gateway
}

func newTestGame(t *testing.T, mutate func(*config.ServerConfig)) *testGame {
	t.Helper()
	cfg := config.DefaultConfig().Server
	cfg.StateInterval = time.Hour
	if mutate != nil {
		mutate(&cfg)
	}
	eng := engine.New(engine.Options{
		Roller: formula.FixedRoller{F: 0.99, I: 1},
		Clock:  gametime.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)),
	})
	gw := save.NewGateway(save.NewMemoryStore(), "test")
	srv := New(cfg, eng, gw)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return &testGame{srv: srv, ts: ts, eng: eng, gw: gw}
}

func (g *testGame) wsURL() string {
	return "ws" + strings.TrimPrefix(g.ts.URL, "http") + "/ws"
}

func (g *testGame) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(g.wsURL(), nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	next(t, conn, TypeState)
	return conn
}

// next reads frames until one of type typ arrives.
func next(t *testing.T, conn *websocket.Conn, typ MessageType) frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("waiting for %s frame: %v", typ, err)
		}
		if f.Type == typ {
			return f
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, cmd string) *Result {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(cmd)); err != nil {
		t.Fatalf("write %s: %v", cmd, err)
	}
	return next(t, conn, TypeResult).Result
}

func readState(t *testing.T, conn *websocket.Conn) stateSummary {
	t.Helper()
	var s stateSummary
	if err := json.Unmarshal(next(t, conn, TypeState).State, &s); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return s
}

func TestAttackOverWebSocket(t *testing.T) {
	g := newTestGame(t, nil)
	conn := g.dial(t)

	res := send(t, conn, `{"action":"attack"}`)
	if !res.OK {
		t.Fatalf("attack failed: %s", res.Error)
	}
	data, _ := res.Data.(map[string]any)
	if data["damage"] != float64(15) {
		t.Errorf("damage = %v, want 15", data["damage"])
	}
	st := readState(t, conn)
	if st.Monster == nil || st.Monster.Name != "Goblin" || st.Monster.HP != 15 {
		t.Errorf("monster after one hit = %+v, want Goblin at 15 HP", st.Monster)
	}

	res = send(t, conn, `{"action":"attack","attack_type":"normal"}`)
	if data, _ := res.Data.(map[string]any); data["defeated"] != true {
		t.Errorf("second attack result = %+v, want defeated", res)
	}
	if st := readState(t, conn); st.Player.Gold != 15 {
		t.Errorf("gold = %d, want 15", st.Player.Gold)
	}
}

func TestCommandResults(t *testing.T) {
	g := newTestGame(t, nil)
	conn := g.dial(t)

	tests := []struct {
		cmd     string
		ok      bool
		errPart string
	}{
		{`{"action":"state"}`, true, ""},
		{`{"action":"attack","attack_type":"sideways"}`, false, "unknown attack type"},
		{`{"action":"buy_skill","skill":"vitality"}`, false, "insufficient funds"},
		{`{"action":"buy_skill","skill":"fireball"}`, false, "unknown skill"},
		{`{"action":"buy_item","item":"wooden_spoon"}`, false, "unknown item"},
		{`{"action":"equip","item_id":"missing"}`, false, "unknown item"},
		{`{"action":"use","consumable":"strengthPotion"}`, false, "cannot be used"},
		{`{"action":"use","consumable":"elixir"}`, false, "unknown consumable"},
		{`{"action":"navigate","location":"battle"}`, true, ""},
		{`{"action":"navigate","location":"moon"}`, false, "unknown location"},
		{`{"action":"start_raid","raid":"goblin_king"}`, false, "raid not available"},
		{`{"action":"start_raid","raid":"tea_party"}`, false, "unknown raid"},
		{`{"action":"prestige"}`, false, "prestige requirements not met"},
		{`{"action":"tutorial","step":"next"}`, true, ""},
		{`{"action":"tutorial","step":"sideways"}`, false, "unknown tutorial step"},
		{`{"action":"dance"}`, false, "unknown action"},
	}
	for _, tt := range tests {
		res := send(t, conn, tt.cmd)
		if res.OK != tt.ok {
			t.Errorf("%s: ok = %v, want %v (error %q)", tt.cmd, res.OK, tt.ok, res.Error)
		}
		if tt.errPart != "" && !strings.Contains(res.Error, tt.errPart) {
			t.Errorf("%s: error = %q, want it to contain %q", tt.cmd, res.Error, tt.errPart)
		}
	}
}

func TestEquipByName(t *testing.T) {
	g := newTestGame(t, nil)
	conn := g.dial(t)
	for g.eng.Player().Gold < 50 {
		g.eng.Attack(formula.AttackNormal)
		g.eng.Drain()
	}

	if res := send(t, conn, `{"action":"buy_item","item":"rusty_dagger"}`); !res.OK {
		t.Fatalf("buy_item failed: %s", res.Error)
	}
	if res := send(t, conn, `{"action":"equip","item":"axe"}`); res.OK || !strings.Contains(res.Error, "unknown item") {
		t.Errorf("equip axe = %+v, want unknown item", res)
	}
	if res := send(t, conn, `{"action":"equip","item":"dagger"}`); !res.OK {
		t.Fatalf("equip dagger failed: %s", res.Error)
	}
	if w := g.eng.Equipment().Weapon; w == nil || w.Name != "Rusty Dagger" {
		t.Errorf("weapon = %+v, want Rusty Dagger", w)
	}
	if n := len(g.eng.Inventory()); n != 0 {
		t.Errorf("inventory size = %d, want 0", n)
	}
}

func TestMalformedFrameKeepsSession(t *testing.T) {
	g := newTestGame(t, nil)
	conn := g.dial(t)

	res := send(t, conn, `not json`)
	if res.OK || !strings.Contains(res.Error, "malformed command") {
		t.Errorf("result = %+v, want malformed command error", res)
	}
	if res := send(t, conn, `{"action":"state"}`); !res.OK {
		t.Errorf("session unusable after a bad frame: %+v", res)
	}
}

func TestEventsForwarded(t *testing.T) {
	g := newTestGame(t, nil)
	conn := g.dial(t)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"attack"}`)); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("no damage log event: %v", err)
		}
		if f.Type == TypeEvent && f.Event.Kind == engine.KindLog && f.Event.Message == "You deal 15 damage!" {
			return
		}
	}
}

func TestPeriodicState(t *testing.T) {
	g := newTestGame(t, func(cfg *config.ServerConfig) { cfg.StateInterval = 20 * time.Millisecond })
	conn := g.dial(t)

	for i := 0; i < 3; i++ {
		readState(t, conn)
	}
}

func TestSaveAndReset(t *testing.T) {
	g := newTestGame(t, nil)
	conn := g.dial(t)

	send(t, conn, `{"action":"attack"}`)
	send(t, conn, `{"action":"attack"}`)
	if res := send(t, conn, `{"action":"save"}`); !res.OK {
		t.Fatalf("save failed: %s", res.Error)
	}
	snap, err := g.gw.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if snap.Player.Gold != 15 {
		t.Errorf("saved gold = %d, want 15", snap.Player.Gold)
	}

	if res := send(t, conn, `{"action":"reset"}`); !res.OK {
		t.Fatalf("reset failed: %s", res.Error)
	}
	if st := readState(t, conn); st.Player.Gold != 0 || st.Player.Level != 1 {
		t.Errorf("player after reset = %+v", st.Player)
	}
	if _, err := g.gw.Load(); !errors.Is(err, save.ErrNoSaveData) {
		t.Errorf("Load() after reset error = %v, want ErrNoSaveData", err)
	}
}

func TestSaveWithoutPersistence(t *testing.T) {
	srv := New(config.DefaultConfig().Server, engine.New(engine.Options{}), nil)
	defer srv.Shutdown(context.Background())

	res := srv.dispatch(Command{Action: "save"})
	if res.OK || res.Error != ErrNoPersistence.Error() {
		t.Errorf("save result = %+v, want %v", res, ErrNoPersistence)
	}
	if res := srv.dispatch(Command{Action: "reset"}); !res.OK {
		t.Errorf("reset result = %+v, want ok", res)
	}
}

func TestConnectionLimit(t *testing.T) {
	g := newTestGame(t, func(cfg *config.ServerConfig) {
		cfg.Connections = config.ConnectionsConfig{MaxPerIP: 1, MaxTotal: 10}
	})
	g.dial(t)

	_, resp, err := websocket.DefaultDialer.Dial(g.wsURL(), nil)
	if err == nil {
		t.Fatal("second connection from the same IP should be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("response = %v, want 429", resp)
	}
}

func TestOriginCheck(t *testing.T) {
	g := newTestGame(t, func(cfg *config.ServerConfig) {
		cfg.WebSocket.AllowedOrigins = []string{"https://game.example"}
	})

	tests := []struct {
		origin string
		ok     bool
	}{
		{"https://game.example", true},
		{"https://evil.example", false},
	}
	for _, tt := range tests {
		header := http.Header{"Origin": []string{tt.origin}}
		conn, resp, err := websocket.DefaultDialer.Dial(g.wsURL(), header)
		if tt.ok {
			if err != nil {
				t.Errorf("origin %s rejected: %v", tt.origin, err)
				continue
			}
			conn.Close()
			continue
		}
		if err == nil {
			conn.Close()
			t.Errorf("origin %s accepted, want rejection", tt.origin)
			continue
		}
		if resp == nil || resp.StatusCode != http.StatusForbidden {
			t.Errorf("origin %s response = %v, want 403", tt.origin, resp)
		}
	}
}

func TestCommandFlood(t *testing.T) {
	g := newTestGame(t, func(cfg *config.ServerConfig) {
		cfg.RateLimit = config.RateLimitConfig{MaxCommands: 2, Window: time.Hour, LockoutSeconds: 30, MaxLockoutSeconds: 60}
	})
	conn := g.dial(t)

	for i := 0; i < 2; i++ {
		if res := send(t, conn, `{"action":"state"}`); !res.OK {
			t.Fatalf("command %d refused: %s", i+1, res.Error)
		}
	}
	res := send(t, conn, `{"action":"attack"}`)
	if res.OK || !strings.Contains(res.Error, "too many commands") {
		t.Errorf("flood result = %+v, want too many commands", res)
	}
	if m := g.eng.Monster(); m.HP != m.MaxHP {
		t.Errorf("refused attack still hit: monster HP %d/%d", m.HP, m.MaxHP)
	}
}

func TestHealthz(t *testing.T) {
	g := newTestGame(t, nil)
	g.dial(t)

	resp, err := http.Get(g.ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Status      string    `json:"status"`
		Connections ConnStats `json:"connections"`
		Level       int       `json:"level"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Level != 1 || body.Connections.Total != 1 {
		t.Errorf("healthz = %+v", body)
	}
}

func TestDisconnectReleasesSlot(t *testing.T) {
	g := newTestGame(t, nil)
	conn := g.dial(t)
	if n := g.srv.ClientCount(); n != 1 {
		t.Fatalf("ClientCount() = %d, want 1", n)
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for g.srv.ClientCount() != 0 || g.srv.limiter.Stats().Total != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("session not released: clients %d, stats %+v", g.srv.ClientCount(), g.srv.limiter.Stats())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServer_Shutdown_Concurrent(t *testing.T) {
	g := newTestGame(t, nil)
	conn := g.dial(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.srv.Shutdown(context.Background())
		}()
	}
	wg.Wait()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
