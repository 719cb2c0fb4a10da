package server

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"cribbage/internal/bots"
	"cribbage/internal/engine"
)

// Session owns one engine instance for one room. All mutations run under one
// lock, so the engine sees at most one in-flight action at a time.
type Session struct {
	mu        sync.Mutex
	id        string
	room      string
	log       *zap.Logger
	state     engine.GameState
	conns     map[string]*websocket.Conn
	bots      map[string]bots.Bot
	actionIds map[string]bool
}

func NewSession(room string, logger *zap.Logger) *Session {
	return &Session{
		id:        uuid.NewString(),
		room:      room,
		log:       logger.With(zap.String("room", room)),
		state:     engine.NewGame(engine.StandardRules(), time.Now().UnixNano()),
		conns:     map[string]*websocket.Conn{},
		bots:      map[string]bots.Bot{},
		actionIds: map[string]bool{},
	}
}

func (s *Session) HandleConnection(name string, conn *websocket.Conn) {
	s.mu.Lock()
	if s.state.PlayerIndex(name) < 0 {
		if err := s.state.AddPlayer(name); err != nil {
			s.mu.Unlock()
			_ = conn.WriteJSON(ServerMessage{
				Type:  "error",
				Error: &ErrorView{Code: "join_failed", Message: err.Error()},
			})
			return
		}
		s.log.Info("player joined", zap.String("player", name))
	}
	s.conns[name] = conn
	s.broadcastLocked(len(s.state.Log))
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.conns, name)
		s.mu.Unlock()
		s.log.Info("player disconnected", zap.String("player", name))
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError(name, "bad_request", "invalid json")
			continue
		}
		s.handleMessage(name, msg)
	}
}

func (s *Session) handleMessage(name string, msg ClientMessage) {
	switch msg.Type {
	case "request_state":
		s.mu.Lock()
		s.sendStateLocked(name, nil)
		s.mu.Unlock()
	case "add_bot":
		s.addBot()
	case "start_game":
		s.applyAction(name, msg.ActionId, &ActionDTO{Type: "start"})
	case "player_action":
		s.applyAction(name, msg.ActionId, msg.Action)
	default:
		s.sendError(name, "unknown_type", "unknown message type")
	}
}

// addBot seats a greedy bot while the table is short.
func (s *Session) addBot() {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := fmt.Sprintf("bot-%d", len(s.bots)+1)
	if err := s.state.AddPlayer(name); err != nil {
		s.log.Warn("add bot", zap.Error(err))
		return
	}
	s.bots[name] = bots.NewGreedy(s.state.Seed + int64(len(s.bots)+1))
	s.log.Info("bot seated", zap.String("bot", name))
	s.broadcastLocked(len(s.state.Log))
}

func (s *Session) applyAction(name string, actionId string, dto *ActionDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if actionId != "" {
		if s.actionIds[actionId] {
			s.sendStateLocked(name, nil)
			return
		}
		s.actionIds[actionId] = true
	}

	action, err := dto.ToEngine()
	if err != nil {
		s.sendErrorLocked(name, "bad_action", err.Error())
		return
	}
	logStart := len(s.state.Log)
	if err := engine.Apply(&s.state, name, action); err != nil {
		s.sendErrorLocked(name, "rejected", err.Error())
		return
	}
	s.broadcastLocked(logStart)
	s.botAutoPlayLocked()
}

// botAutoPlayLocked lets seated bots act until a human holds the turn or the
// game needs outside input.
func (s *Session) botAutoPlayLocked() {
	for {
		name, action, ok := s.nextBotAction()
		if !ok {
			return
		}
		logStart := len(s.state.Log)
		if err := engine.Apply(&s.state, name, action); err != nil {
			s.log.Error("bot action rejected", zap.String("bot", name), zap.Error(err))
			return
		}
		s.broadcastLocked(logStart)
	}
}

func (s *Session) nextBotAction() (string, engine.Action, bool) {
	switch s.state.Mode {
	case engine.ModeStart, engine.ModeEndGame:
		// Starting over is a human's call.
		return "", engine.Action{}, false
	case engine.ModeDiscard:
		for name, bot := range s.bots {
			player := s.state.PlayerIndex(name)
			if player < 0 || len(s.state.Players[player].Hand) <= s.state.Rules.KeepSize {
				continue
			}
			if action, ok := bot.ChooseAction(s.state, player); ok {
				return name, action, true
			}
		}
		return "", engine.Action{}, false
	case engine.ModeEndRound:
		// Any bot may wave the next round on, but only at a full-bot table;
		// otherwise humans control the pace.
		if len(s.bots) == len(s.state.Players) {
			for name, bot := range s.bots {
				player := s.state.PlayerIndex(name)
				if action, ok := bot.ChooseAction(s.state, player); ok {
					return name, action, true
				}
			}
		}
		return "", engine.Action{}, false
	default:
		cur, ok := engine.CurrentPlayer(s.state)
		if !ok {
			return "", engine.Action{}, false
		}
		name := s.state.Players[cur].Name
		bot, isBot := s.bots[name]
		if !isBot {
			return "", engine.Action{}, false
		}
		action, ok := bot.ChooseAction(s.state, cur)
		if !ok {
			return "", engine.Action{}, false
		}
		return name, action, true
	}
}

// broadcastLocked sends each connected player their own projection plus the
// events appended since logStart.
func (s *Session) broadcastLocked(logStart int) {
	entries := s.state.Log[logStart:]
	for name, conn := range s.conns {
		msg := ServerMessage{
			Type:   "state",
			State:  BuildGameView(s.state, s.room, name),
			Events: buildEvents(s.state, entries, name),
		}
		if err := conn.WriteJSON(msg); err != nil {
			s.log.Warn("send state", zap.String("player", name), zap.Error(err))
		}
	}
}

func (s *Session) sendStateLocked(name string, events []EventView) {
	conn, ok := s.conns[name]
	if !ok {
		return
	}
	msg := ServerMessage{
		Type:   "state",
		State:  BuildGameView(s.state, s.room, name),
		Events: events,
	}
	_ = conn.WriteJSON(msg)
}

func (s *Session) sendError(name, code, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendErrorLocked(name, code, message)
}

func (s *Session) sendErrorLocked(name, code, message string) {
	conn, ok := s.conns[name]
	if !ok {
		return
	}
	_ = conn.WriteJSON(ServerMessage{
		Type:  "error",
		Error: &ErrorView{Code: code, Message: message},
	})
}
