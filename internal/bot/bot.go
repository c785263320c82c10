package bot

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/ZoozFX/Telegram-1-sub000/internal/bot/handlers"
	"github.com/ZoozFX/Telegram-1-sub000/internal/bot/keyboard"
	"github.com/ZoozFX/Telegram-1-sub000/internal/copytrading"
	errors "github.com/ZoozFX/Telegram-1-sub000/internal/errors"
	"github.com/ZoozFX/Telegram-1-sub000/internal/i18n"
	"github.com/ZoozFX/Telegram-1-sub000/internal/idempotency"
	"github.com/ZoozFX/Telegram-1-sub000/internal/jobs"
	"github.com/ZoozFX/Telegram-1-sub000/internal/middleware"
	"github.com/ZoozFX/Telegram-1-sub000/internal/ratelimit"
	"github.com/ZoozFX/Telegram-1-sub000/internal/state"
	"github.com/ZoozFX/Telegram-1-sub000/internal/submission"
	"github.com/ZoozFX/Telegram-1-sub000/internal/user"
	"github.com/ZoozFX/Telegram-1-sub000/pkg/config"
)

// Dependencies carries everything the bot needs to serve updates.
// Idempotency, Limiter and Enqueuer may be nil; the matching features
// degrade gracefully instead of blocking startup.
type Dependencies struct {
	Config        config.Config
	Log           *slog.Logger
	Users         *user.Service
	Submissions   *submission.Service
	Subscriptions *copytrading.Service
	FSM           state.StateMachine
	Catalog       *i18n.Catalog
	Idempotency   idempotency.Manager
	Limiter       ratelimit.Limiter
	Enqueuer      jobs.Enqueuer
}

// Bot wraps telebot.Bot with application dependencies required for handling updates.
type Bot struct {
	telebot    *telebot.Bot
	log        *slog.Logger
	cfg        config.Config
	fsm        state.StateMachine
	router     *Router
	dispatcher *Dispatcher
	keyboard   *keyboard.Builder
	errHandler *errors.Handler
}

// New builds a telegram bot instance configured according to the application settings.
func New(deps Dependencies) (*Bot, error) {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}

	settings := telebot.Settings{
		Token: deps.Config.Bot.Token,
	}

	if deps.Config.Bot.Mode == "webhook" {
		settings.Poller = &telebot.Webhook{
			Listen:      deps.Config.Bot.Webhook.Listen,
			SecretToken: deps.Config.Bot.Webhook.SecretToken,
			Endpoint: &telebot.WebhookEndpoint{
				PublicURL: deps.Config.Bot.Webhook.PublicURL(),
			},
		}
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: deps.Config.Bot.PollTimeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	kb := keyboard.NewBuilder(keyboard.HeaderStyle{
		MinWidth: deps.Config.Menu.HeaderMinWidth,
		MaxWidth: deps.Config.Menu.HeaderMaxWidth,
	})
	dispatcher := NewDispatcher(deps.FSM, log)
	router := NewRouter(dispatcher, log)
	errHandler := errors.NewHandler(log, deps.Config.Sentry.DSN != "")

	b := &Bot{
		telebot:    tb,
		log:        log,
		cfg:        deps.Config,
		fsm:        deps.FSM,
		router:     router,
		dispatcher: dispatcher,
		keyboard:   kb,
		errHandler: errHandler,
	}

	b.setupRouter(deps)
	b.registerTelebotHandlers()

	return b, nil
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	if b.log != nil {
		b.log.Info("stopping telegram bot...")
	}

	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

// SendMessage delivers a plain text message to a Telegram user outside
// any update context. Background jobs use it to notify subscribers.
func (b *Bot) SendMessage(ctx context.Context, telegramID int64, text string) error {
	if b.telebot == nil {
		return stdErrors.New("telebot is not initialized")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := b.telebot.Send(&telebot.User{ID: telegramID}, text); err != nil {
		return errors.NewTelegramError("send_message", err)
	}

	return nil
}

func (b *Bot) setupRouter(deps Dependencies) {
	if b.router == nil {
		return
	}

	log := b.log
	rules := ratelimit.NewRules(deps.Config.RateLimit, deps.Config.Bot.AdminIDs)

	// Recovery is outermost so a panic anywhere below still turns into a
	// localized reply. Idempotency sits above ErrorReply so a failed
	// update is consumed once, not retried into the same failure.
	b.router.Use(RecoveryMiddleware(log, b.errHandler, deps.Catalog))
	b.router.Use(middleware.Idempotency(deps.Idempotency, log))
	b.router.Use(ErrorReplyMiddleware(b.errHandler, deps.Catalog))
	b.router.Use(LoggingMiddleware(log))
	b.router.Use(middleware.RateLimit(deps.Limiter, rules, deps.Catalog, log))
	b.router.Use(UserContextMiddleware(deps.Users, log))
	b.router.Use(middleware.Metrics)

	b.router.RegisterCommand(CommandStart, handlers.NewStartHandler(b.keyboard, deps.Catalog, log))
	b.router.RegisterCommand(CommandLanguage, handlers.NewLanguageHandler(b.keyboard, deps.Catalog, log))
	b.router.RegisterCommand(CommandSubscribe, handlers.NewSubscribeHandler(deps.Subscriptions, deps.FSM, deps.Catalog, log))
	b.router.RegisterCommand(CommandCancel, handlers.NewCancelHandler(deps.Subscriptions, deps.FSM, b.keyboard, deps.Catalog, log))
	b.router.RegisterCommand(CommandHelp, handlers.NewHelpHandler(deps.Catalog, log))
	b.router.RegisterCommand(CommandSubscribers, handlers.NewSubscribersHandler(deps.Subscriptions, b.keyboard, deps.Catalog, deps.Config.Bot.AdminIDs, log))

	b.router.RegisterCallback(keyboard.ActionSetLanguage, handlers.NewLanguageCallbackHandler(deps.Users, b.keyboard, deps.Catalog, log))
	b.router.RegisterCallback(keyboard.ActionSignup, handlers.NewSignupCallbackHandler(deps.Subscriptions, deps.FSM, deps.Enqueuer, deps.Catalog, log))
	b.router.RegisterCallback(keyboard.ActionHelp, handlers.NewHelpCallbackHandler(deps.Catalog, log))
	b.router.RegisterCallback(keyboard.ActionSubscribers, handlers.NewSubscribersCallbackHandler(deps.Subscriptions, b.keyboard, deps.Catalog, deps.Config.Bot.AdminIDs, log))

	b.dispatcher.RegisterStateHandler(state.StateSignupName, handlers.NewSignupNameHandler(deps.Subscriptions, deps.FSM, deps.Catalog, log))
	b.dispatcher.RegisterStateHandler(state.StateSignupEmail, handlers.NewSignupEmailHandler(deps.Subscriptions, deps.FSM, deps.Catalog, log))
	b.dispatcher.RegisterStateHandler(state.StateSignupPhone, handlers.NewSignupPhoneHandler(deps.Subscriptions, deps.FSM, b.keyboard, deps.Catalog, log))
	b.dispatcher.RegisterStateHandler(state.StateSignupConfirm, handlers.NewSignupConfirmPromptHandler(b.keyboard, deps.Catalog, log))

	b.router.SetDefault(handlers.NewTextHandler(deps.Submissions, deps.Catalog, log))
}

func (b *Bot) registerTelebotHandlers() {
	if b.telebot == nil || b.router == nil {
		return
	}

	b.telebot.Handle(telebot.OnText, b.router.Route)
	b.telebot.Handle(telebot.OnCallback, b.router.Route)
}
