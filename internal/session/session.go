package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cambio/internal/engine"
)

type Msg interface{ isSessionMsg() }

// FromClient carries one game command. Reply, if non-nil, receives exactly
// one Result and should be buffered so the session loop never blocks on it.
type FromClient struct {
	Cmd   engine.Command
	Reply chan Result
}

func (FromClient) isSessionMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isSessionMsg() {}

type Leave struct {
	ClientID string
	// PlayerID, if set, produces a departure notice broadcast.
	PlayerID string
}

func (Leave) isSessionMsg() {}

// Peek asks for the two cards a player may look at once; the reply goes to
// the requesting client only and is never broadcast.
type Peek struct {
	PlayerID string
	Reply    chan []engine.Card
}

func (Peek) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

// Result reports the outcome of a single command. State is set on success
// and holds the snapshot broadcast to all subscribers.
type Result struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	State   *engine.GameState `json:"state,omitempty"`
}

type Snapshot struct {
	Version int
	State   engine.GameState
}

type View struct {
	Version    int
	NumClients int
	State      engine.GameState
}

// Session owns the state of one game and applies commands one at a time from
// its inbox, so draw/resolve/end-turn sequences are never interleaved.
type Session struct {
	inbox   chan Msg
	state   engine.GameState
	version int
	clients map[string]chan Snapshot
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, initial engine.GameState, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)

	s := &Session{
		inbox:   make(chan Msg, 64),
		state:   initial,
		version: 0,
		clients: make(map[string]chan Snapshot),
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}

	go s.loop()
	return s
}

func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately.
				s.clients[msg.ClientID] = msg.Outbox
				s.deliver(msg.ClientID, msg.Outbox, Snapshot{Version: s.version, State: s.state})

			case Leave:
				// The slow-client drop path already closed the outbox for
				// clients it evicted; close it here only if still present,
				// so the client's writer loop terminates.
				if ch, ok := s.clients[msg.ClientID]; ok {
					close(ch)
					delete(s.clients, msg.ClientID)
				}
				if msg.PlayerID != "" {
					s.state.Status = fmt.Sprintf("Player %s left the game.", msg.PlayerID)
					s.version++
					s.broadcast(Snapshot{Version: s.version, State: s.state})
				}

			case FromClient:
				s.apply(msg)

			case Peek:
				msg.Reply <- s.state.PeekCards(msg.PlayerID)

			case GetState:
				msg.Reply <- View{
					Version:    s.version,
					NumClients: len(s.clients),
					State:      s.state,
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) apply(msg FromClient) {
	events, newState, err := engine.Apply(s.state, msg.Cmd)

	// Failed commands may still carry a status-text update worth showing,
	// so the new state is adopted and broadcast either way.
	s.state = newState
	s.version++
	s.broadcast(Snapshot{Version: s.version, State: s.state})

	if err != nil {
		s.log.Info("command rejected",
			zap.String("command", string(msg.Cmd.Type)),
			zap.String("player", msg.Cmd.PlayerID),
			zap.Error(err))
	}
	for _, ev := range events {
		s.log.Debug("game event",
			zap.String("event", string(ev.Type)),
			zap.String("player", ev.PlayerID))
	}

	if msg.Reply != nil {
		msg.Reply <- newResult(msg.Cmd, err, s.state)
	}
}

func newResult(cmd engine.Command, err error, state engine.GameState) Result {
	if err != nil {
		return Result{Success: false, Message: failureMessage(err)}
	}
	snap := state
	return Result{Success: true, Message: successMessage(cmd), State: &snap}
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, engine.ErrNotYourTurn):
		return "It's not your turn."
	case errors.Is(err, engine.ErrActionInProgress):
		return "An action is already in progress."
	case errors.Is(err, engine.ErrNoActionPending):
		return "No action is pending."
	case errors.Is(err, engine.ErrDeckEmpty):
		return "Deck is empty"
	case errors.Is(err, engine.ErrInvalidIndex):
		return "Invalid card index"
	case errors.Is(err, engine.ErrPlayerNotFound):
		return "Player not found"
	case errors.Is(err, engine.ErrInvalidGameState):
		return "Game has already started"
	default:
		return err.Error()
	}
}

func successMessage(cmd engine.Command) string {
	switch cmd.Type {
	case engine.CmdStartGame:
		return "Game started"
	case engine.CmdDrawCard:
		return "Card drawn successfully"
	case engine.CmdResolveAction:
		switch cmd.Choice {
		case engine.ChoiceActivateEffect:
			return "Effect activated"
		case engine.ChoiceBlindSwap:
			return "Blind swap successful"
		default:
			return "Card discarded"
		}
	case engine.CmdEndTurn:
		return "Turn ended successfully"
	default:
		return "OK"
	}
}

func (s *Session) shutdown() {
	for id, ch := range s.clients {
		close(ch) // Tell client no more snapshots
		delete(s.clients, id)
	}
	s.cancel()
}

func (s *Session) broadcast(snap Snapshot) {
	for id, ch := range s.clients {
		s.deliver(id, ch, snap)
	}
}

func (s *Session) deliver(id string, ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
	default:
		// Client is slow/full - drop them.
		close(ch)
		delete(s.clients, id)
		s.log.Warn("dropped slow client", zap.String("client", id))
	}
}
