package bot

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/ZoozFX/Telegram-1-sub000/internal/bot/handlers"
	"github.com/ZoozFX/Telegram-1-sub000/internal/state"
)

// Dispatcher routes text messages to the handler for the sender's
// conversation state.
type Dispatcher struct {
	fsm           state.StateMachine
	stateHandlers map[state.State]handlers.Handler
	log           *slog.Logger
	mu            sync.RWMutex
}

// NewDispatcher creates a Dispatcher with an empty handlers registry.
func NewDispatcher(fsm state.StateMachine, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		fsm:           fsm,
		stateHandlers: make(map[state.State]handlers.Handler),
		log:           log,
	}
}

// RegisterStateHandler registers a handler for the provided state.
func (d *Dispatcher) RegisterStateHandler(s state.State, h handlers.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stateHandlers[s] = h
}

// Dispatch routes the update based on the user's current state. The
// loaded state is stashed on the context so the handler does not fetch
// it again. Returns false when no state handler claimed the update.
func (d *Dispatcher) Dispatch(c telebot.Context) (bool, error) {
	if c == nil || c.Sender() == nil {
		d.log.Warn("cannot dispatch without sender information")
		return false, nil
	}

	if d.fsm == nil {
		return false, nil
	}

	currentState := state.StateIdle

	userState, err := d.fsm.GetState(context.Background(), c.Sender().ID)
	switch {
	case err == nil:
		if userState != nil {
			currentState = userState.CurrentState
			handlers.SetConversationState(c, userState)
		}
	case errors.Is(err, state.ErrStateNotFound):
		// No record means idle.
	default:
		return false, err
	}

	handler := d.getHandler(currentState)
	if handler == nil {
		return false, nil
	}

	return true, handler(c)
}

func (d *Dispatcher) getHandler(s state.State) handlers.Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stateHandlers[s]
}
