package hub

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cambio/internal/engine"
	"cambio/internal/session"
)

type HubMsg interface{ isHubMsg() }

// CreateSession deals a fresh game and registers it under a new id.
type CreateSession struct {
	NumPlayers int
	Reply      chan CreateReply
}

type CreateReply struct {
	ID   string
	Sess *session.Session
	Err  error
}

type GetSession struct {
	ID    string
	Reply chan *session.Session
}

// RemoveSession shuts the session actor down and forgets it. Reply reports
// whether the id was known.
type RemoveSession struct {
	ID    string
	Reply chan bool
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

// Hub owns the id -> session mapping. All access goes through its inbox, so
// commands for different sessions stay fully independent while the registry
// itself is race-free.
type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	rng      *rand.Rand
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				state, err := engine.NewGame(msg.NumPlayers, h.rng)
				if err != nil {
					msg.Reply <- CreateReply{Err: err}
					break
				}
				id := uuid.NewString()
				sess := session.New(h.ctx, state, h.log.With(zap.String("game_id", id)))
				h.sessions[id] = sess
				h.log.Info("session created",
					zap.String("game_id", id),
					zap.Int("num_players", msg.NumPlayers))
				msg.Reply <- CreateReply{ID: id, Sess: sess}

			case GetSession:
				msg.Reply <- h.sessions[msg.ID] // May be nil

			case RemoveSession:
				sess, ok := h.sessions[msg.ID]
				if ok {
					sess.Inbox() <- session.Shutdown{}
					delete(h.sessions, msg.ID)
					h.log.Info("session removed", zap.String("game_id", msg.ID))
				}
				if msg.Reply != nil {
					msg.Reply <- ok
				}

			case ShutdownHub:
				for _, sess := range h.sessions {
					sess.Inbox() <- session.Shutdown{}
				}
				clear(h.sessions)
				h.cancel()
			}
		}
	}
}
