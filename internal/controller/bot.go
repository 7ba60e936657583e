package controller

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/availability_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/availability_bot/internal/controller/handlers"
	"github.com/Freeeeeet/availability_bot/internal/controller/state"
	"github.com/Freeeeeet/availability_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	router   *callbacks.Router
	logger   *zap.Logger
}

// NewBotController creates the Telegram client with all handlers attached.
func NewBotController(
	token string,
	userService *service.UserService,
	scheduleService *service.ScheduleService,
	eventService *service.EventService,
	calendarService *service.CalendarService,
	availabilityService *service.AvailabilityService,
	logger *zap.Logger,
) (*BotController, error) {
	cmdHandlers := handlers.NewHandlers(
		userService,
		scheduleService,
		eventService,
		calendarService,
		availabilityService,
		state.NewManager(),
		logger,
	)

	router := callbacks.NewRouter(logger)
	router.Handle(callbacks.ShowSlots, cmdHandlers.OnShowSlots)
	router.Handle(callbacks.ToggleEvent, cmdHandlers.OnToggleEvent)
	router.Handle(callbacks.DeleteEvent, cmdHandlers.OnDeleteEvent)
	router.Handle(callbacks.ConfirmDelete, cmdHandlers.OnConfirmDelete)
	router.Handle(callbacks.BookEvent, cmdHandlers.OnBook)
	router.Handle(callbacks.WeekImage, cmdHandlers.OnWeekImage)

	// Dialog replies and commands with arguments match no exact pattern.
	botInstance, err := bot.New(token, bot.WithDefaultHandler(cmdHandlers.HandleTextMessage))
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		router:   router,
		logger:   logger,
	}, nil
}

// RegisterHandlers wires commands, dialogs and callbacks and sets the menu.
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	exact := map[string]bot.HandlerFunc{
		"/start":       c.handlers.HandleStart,
		"/help":        c.handlers.HandleHelp,
		"/cancel":      c.handlers.HandleCancel,
		"/timezone":    c.handlers.HandleTimezone,
		"/schedule":    c.handlers.HandleSchedule,
		"/setschedule": c.handlers.HandleSetScheduleStart,
		"/newevent":    c.handlers.HandleNewEventStart,
		"/events":      c.handlers.HandleEvents,
		"/addcalendar": c.handlers.HandleAddCalendar,
		"/calendars":   c.handlers.HandleCalendars,
		"/book":        c.handlers.HandleBook,
	}
	for cmd, h := range exact {
		c.bot.RegisterHandler(bot.HandlerTypeMessageText, cmd, bot.MatchTypeExact, h)
	}

	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.router.HandleCallbackQuery)

	return c.setCommands(ctx)
}

func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Start"},
		{Command: "help", Description: "❓ Commands"},
		{Command: "setschedule", Description: "🗓 Set working hours"},
		{Command: "schedule", Description: "🗓 Show working hours"},
		{Command: "timezone", Description: "🌍 Timezone"},
		{Command: "newevent", Description: "➕ New event type"},
		{Command: "events", Description: "📋 My event types"},
		{Command: "calendars", Description: "📎 Connected calendars"},
		{Command: "book", Description: "📅 See someone's free time"},
		{Command: "cancel", Description: "✖️ Cancel dialog"},
	}

	if _, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	}); err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start blocks until ctx is cancelled.
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot")
	c.bot.Start(ctx)
}
