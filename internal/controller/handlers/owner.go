package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/availability_bot/internal/controller/formatting"
	"github.com/Freeeeeet/availability_bot/internal/controller/state"
	"github.com/Freeeeeet/availability_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const defaultTimezone = "UTC"

// HandleTimezone shows the current zone; "/timezone <name>" goes through setTimezone.
func (h *Handlers) HandleTimezone(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	user, ok := h.ensureUser(ctx, b, chatID, update.Message.From)
	if !ok {
		return
	}

	tz := defaultTimezone
	schedule, err := h.scheduleService.GetSchedule(ctx, user.ID)
	switch {
	case err == nil:
		tz = schedule.Timezone
	case !errors.Is(err, service.ErrScheduleNotFound):
		h.logger.Error("Failed to get schedule", zap.Int64("owner_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}

	h.sendText(ctx, b, chatID, fmt.Sprintf(
		"🌍 Your timezone: %s\n\nChange it with /timezone <IANA name>, e.g. /timezone Europe/Berlin", tz))
}

func (h *Handlers) setTimezone(ctx context.Context, b *bot.Bot, update *models.Update, tz string) {
	chatID := update.Message.Chat.ID
	user, ok := h.ensureUser(ctx, b, chatID, update.Message.From)
	if !ok {
		return
	}

	if err := h.scheduleService.SetTimezone(ctx, user.ID, tz); err != nil {
		h.logger.Warn("Failed to set timezone", zap.Int64("owner_id", user.ID), zap.String("timezone", tz), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}
	h.sendText(ctx, b, chatID, "✅ Timezone set to "+tz)
}

// HandleSchedule shows the owner's weekly working hours.
func (h *Handlers) HandleSchedule(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	user, ok := h.ensureUser(ctx, b, chatID, update.Message.From)
	if !ok {
		return
	}

	schedule, err := h.scheduleService.GetSchedule(ctx, user.ID)
	if err != nil && !errors.Is(err, service.ErrScheduleNotFound) {
		h.logger.Error("Failed to get schedule", zap.Int64("owner_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}
	h.sendText(ctx, b, chatID, "🗓 Working hours\n\n"+formatting.Schedule(schedule))
}

// HandleSetScheduleStart asks for the weekly windows, one per line.
func (h *Handlers) HandleSetScheduleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	if _, ok := h.ensureUser(ctx, b, update.Message.Chat.ID, update.Message.From); !ok {
		return
	}

	h.stateManager.SetState(update.Message.From.ID, state.StateSetScheduleWindows)
	h.sendText(ctx, b, update.Message.Chat.ID,
		"🗓 Send your working hours, one window per line:\n\n"+
			"monday 09:00-12:00\n"+
			"monday 13:00-17:00\n"+
			"friday 10:00-14:00\n\n"+
			"Times are in your timezone (see /timezone). The new list replaces the old one.\n"+
			"/cancel to abort")
}

func (h *Handlers) handleScheduleWindowsStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID
	user, ok := h.ensureUser(ctx, b, chatID, update.Message.From)
	if !ok {
		return
	}

	inputs := service.ParseAvailabilityLines(update.Message.Text)
	if len(inputs) == 0 {
		h.sendText(ctx, b, chatID, "❌ No windows found. Try again or /cancel.")
		return
	}

	tz := defaultTimezone
	if current, err := h.scheduleService.GetSchedule(ctx, user.ID); err == nil {
		tz = current.Timezone
	}

	schedule, err := h.scheduleService.SaveSchedule(ctx, user.ID, tz, inputs)
	if err != nil {
		h.logger.Info("Rejected schedule", zap.Int64("owner_id", user.ID), zap.Error(err))
		// Stay in the dialog so the owner can resend a corrected list.
		h.sendText(ctx, b, chatID, formatting.ErrorMessage(err)+"\n\nSend the corrected list or /cancel.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendText(ctx, b, chatID, "✅ Working hours saved\n\n"+formatting.Schedule(schedule))
}

// HandleAddCalendar explains usage; "/addcalendar <url>" goes through addCalendar.
func (h *Handlers) HandleAddCalendar(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendText(ctx, b, update.Message.Chat.ID,
		"📎 Send /addcalendar <url> with the secret ICS address of your calendar.\n"+
			"Busy time from it is hidden from your free slots.")
}

func (h *Handlers) addCalendar(ctx context.Context, b *bot.Bot, update *models.Update, rawURL string) {
	chatID := update.Message.Chat.ID
	user, ok := h.ensureUser(ctx, b, chatID, update.Message.From)
	if !ok {
		return
	}

	if _, err := h.calendarService.AddICS(ctx, user.ID, rawURL); err != nil {
		if !errors.Is(err, service.ErrInvalidCalendarURL) {
			h.logger.Error("Failed to add calendar", zap.Int64("owner_id", user.ID), zap.Error(err))
		}
		h.sendError(ctx, b, chatID, err)
		return
	}
	h.sendText(ctx, b, chatID, "✅ Calendar connected.")
}

// HandleCalendars lists connected calendars.
func (h *Handlers) HandleCalendars(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	user, ok := h.ensureUser(ctx, b, chatID, update.Message.From)
	if !ok {
		return
	}

	sources, err := h.calendarService.ListSources(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to list calendars", zap.Int64("owner_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}
	if len(sources) == 0 {
		h.sendText(ctx, b, chatID, "No calendars connected. Use /addcalendar <url>.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📎 Connected calendars\n")
	for i, src := range sources {
		label := src.URL
		if label == "" {
			label = "primary"
		}
		fmt.Fprintf(&sb, "\n%d. %s %s", i+1, src.Kind, label)
	}
	h.sendText(ctx, b, chatID, sb.String())
}
