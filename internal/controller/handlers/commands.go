package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/availability_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Commands\n\n" +
	"For owners:\n" +
	"/timezone <IANA name> - Set your timezone\n" +
	"/setschedule - Set weekly working hours\n" +
	"/schedule - Show working hours\n" +
	"/newevent - Create an event type\n" +
	"/events - Manage event types\n" +
	"/addcalendar <url> - Subscribe to an ICS calendar\n" +
	"/calendars - List connected calendars\n\n" +
	"For guests:\n" +
	"/book <owner id> - See an owner's free time\n\n" +
	"/cancel - Abort the current dialog"

// HandleStart greets the user. A "book_<id>" payload opens that owner's events.
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	user, ok := h.ensureUser(ctx, b, chatID, update.Message.From)
	if !ok {
		return
	}

	if _, payload := commandArgs(update.Message.Text); strings.HasPrefix(payload, bookPayloadPrefix) {
		if ownerID, ok := parseOwnerID(payload); ok {
			h.showOwnerEvents(ctx, b, chatID, ownerID)
			return
		}
	}

	h.sendText(ctx, b, chatID, fmt.Sprintf(
		"👋 Hi, %s!\n\n"+
			"I share your free time with others. Set your working hours, create an event type "+
			"and send people your booking link.\n\n%s",
		user.DisplayName(), helpText))
}

func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendText(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleCancel aborts the active dialog.
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendText(ctx, b, update.Message.Chat.ID, "Nothing to cancel.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendText(ctx, b, update.Message.Chat.ID, "✅ Cancelled.")
}

// HandleTextMessage is the bot's default handler. It routes commands that
// carry arguments and dialog replies; bare commands have exact handlers.
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" || update.Message.From == nil {
		return
	}

	if strings.HasPrefix(update.Message.Text, "/") {
		h.handleCommandWithArgs(ctx, b, update)
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)
	if currentState == state.StateNone {
		return
	}

	h.logger.Debug("Dialog step",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	switch currentState {
	case state.StateSetScheduleWindows:
		h.handleScheduleWindowsStep(ctx, b, update)
	case state.StateNewEventName:
		h.handleNewEventNameStep(ctx, b, update)
	case state.StateNewEventDuration:
		h.handleNewEventDurationStep(ctx, b, update)
	case state.StateNewEventDescription:
		h.handleNewEventDescriptionStep(ctx, b, update)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
	}
}

func (h *Handlers) handleCommandWithArgs(ctx context.Context, b *bot.Bot, update *models.Update) {
	cmd, args := commandArgs(update.Message.Text)
	if args == "" {
		return
	}

	switch cmd {
	case "start":
		h.HandleStart(ctx, b, update)
	case "timezone":
		h.setTimezone(ctx, b, update, args)
	case "addcalendar":
		h.addCalendar(ctx, b, update, args)
	case "book":
		ownerID, ok := parseOwnerID(args)
		if !ok {
			h.sendText(ctx, b, update.Message.Chat.ID, "Usage: /book <owner id>")
			return
		}
		h.showOwnerEvents(ctx, b, update.Message.Chat.ID, ownerID)
	}
}
