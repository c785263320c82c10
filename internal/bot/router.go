package bot

import (
	"log/slog"
	"strings"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/ZoozFX/Telegram-1-sub000/internal/bot/handlers"
	"github.com/ZoozFX/Telegram-1-sub000/internal/bot/keyboard"
)

// Router dispatches commands, callbacks, and state-aware updates.
// Callbacks are matched on their decoded action, never by prefix, so
// actions cannot shadow each other.
type Router struct {
	mu             sync.RWMutex
	commands       map[string]handlers.Handler
	callbacks      map[string]handlers.CallbackHandler
	dispatcher     *Dispatcher
	defaultHandler handlers.Handler
	middlewares    []handlers.Middleware
	log            *slog.Logger
}

// NewRouter builds a Router with empty registries.
func NewRouter(dispatcher *Dispatcher, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}

	return &Router{
		commands:    make(map[string]handlers.Handler),
		callbacks:   make(map[string]handlers.CallbackHandler),
		dispatcher:  dispatcher,
		middlewares: make([]handlers.Middleware, 0),
		log:         log,
	}
}

// RegisterCommand registers a handler for a bot command.
func (r *Router) RegisterCommand(cmd string, h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd] = h
}

// RegisterCallback registers a handler for a callback action.
func (r *Router) RegisterCallback(action string, h handlers.CallbackHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks[action] = h
}

// Use appends a middleware to the chain.
func (r *Router) Use(mw handlers.Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, mw)
}

// SetDefault sets the fallback handler for unmatched text updates.
func (r *Router) SetDefault(h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultHandler = h
}

// Route directs the incoming update to the appropriate handler. The
// middleware chain wraps the whole routing step, so every kind of
// update passes through it exactly once.
func (r *Router) Route(c telebot.Context) error {
	if c == nil {
		return nil
	}

	wrapped := r.applyMiddlewares(r.dispatch)
	if wrapped == nil {
		return nil
	}

	return wrapped(c)
}

func (r *Router) dispatch(c telebot.Context) error {
	if callback := c.Callback(); callback != nil {
		return r.handleCallback(c, callback.Data)
	}

	return r.handleMessage(c)
}

func (r *Router) handleCallback(c telebot.Context, data string) error {
	parsed, err := keyboard.ParseCallback(data)
	if err != nil {
		r.log.Warn("undecodable callback payload", slog.Any("error", err))
		return c.Respond(&telebot.CallbackResponse{})
	}

	handler := r.getCallbackHandler(parsed.Action)
	if handler == nil {
		r.log.Info("no callback handler found", slog.String("action", parsed.Action))
		return c.Respond(&telebot.CallbackResponse{})
	}

	return handler(c)
}

func (r *Router) handleMessage(c telebot.Context) error {
	if cmd, ok := commandToken(c.Text()); ok {
		if handler := r.getCommandHandler(cmd); handler != nil {
			return handler(c)
		}
	}

	if r.dispatcher != nil {
		handled, err := r.dispatcher.Dispatch(c)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}

	if handler := r.getDefaultHandler(); handler != nil {
		return handler(c)
	}

	return nil
}

// commandToken extracts the command from a message, tolerating
// arguments and the @botname suffix used in group chats.
func commandToken(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}

	token := text
	if idx := strings.IndexByte(token, ' '); idx > 0 {
		token = token[:idx]
	}
	if idx := strings.IndexByte(token, '@'); idx > 0 {
		token = token[:idx]
	}

	return token, true
}

func (r *Router) getCallbackHandler(action string) handlers.CallbackHandler {
	r.mu.RLock()
	handler := r.callbacks[action]
	r.mu.RUnlock()
	return handler
}

func (r *Router) getCommandHandler(cmd string) handlers.Handler {
	r.mu.RLock()
	handler := r.commands[cmd]
	r.mu.RUnlock()
	return handler
}

func (r *Router) getDefaultHandler() handlers.Handler {
	r.mu.RLock()
	handler := r.defaultHandler
	r.mu.RUnlock()
	return handler
}

// applyMiddlewares wraps the handler with all registered middlewares.
func (r *Router) applyMiddlewares(h handlers.Handler) handlers.Handler {
	if h == nil {
		return nil
	}

	middlewares := r.middlewaresSnapshot()
	wrapped := h
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}

	return wrapped
}

func (r *Router) middlewaresSnapshot() []handlers.Middleware {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.middlewares) == 0 {
		return nil
	}

	snapshot := make([]handlers.Middleware, len(r.middlewares))
	copy(snapshot, r.middlewares)
	return snapshot
}
