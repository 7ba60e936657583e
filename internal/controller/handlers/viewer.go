package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"github.com/Freeeeeet/availability_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/availability_bot/internal/controller/formatting"
	"github.com/Freeeeeet/availability_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/availability_bot/internal/controller/render"
	"github.com/Freeeeeet/availability_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleBook explains usage; "/book <id>" goes through showOwnerEvents.
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendText(ctx, b, update.Message.Chat.ID, "Usage: /book <owner id>\nAsk the owner for their id, it is shown in their /events.")
}

// showOwnerEvents lists an owner's active event types as buttons.
func (h *Handlers) showOwnerEvents(ctx context.Context, b *bot.Bot, chatID, ownerID int64) {
	owner, err := h.userService.GetByID(ctx, ownerID)
	if err != nil {
		if !service.IsNotFound(err) {
			h.logger.Error("Failed to get owner", zap.Int64("owner_id", ownerID), zap.Error(err))
		}
		h.sendError(ctx, b, chatID, err)
		return
	}

	events, err := h.eventService.ListPublicEvents(ctx, ownerID)
	if err != nil {
		h.logger.Error("Failed to list public events", zap.Int64("owner_id", ownerID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}
	if len(events) == 0 {
		h.sendText(ctx, b, chatID, fmt.Sprintf("%s has nothing open for booking right now.", owner.DisplayName()))
		return
	}

	kb := keyboard.NewBuilder()
	owner64 := strconv.FormatInt(ownerID, 10)
	for _, e := range events {
		kb.Row(keyboard.Button(
			fmt.Sprintf("%s · %s", e.Name, formatting.Duration(e.DurationMinutes)),
			callbacks.BookEvent+owner64+":"+e.ID.String()))
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        fmt.Sprintf("📅 %s\n\nPick a meeting type to see free times:", owner.DisplayName()),
		ReplyMarkup: kb.Build(),
	}); err != nil {
		h.logger.Error("Failed to send events", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// OnBook shows a viewer the next week of free slots for book:<owner>:<event>.
func (h *Handlers) OnBook(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, arg string) {
	ownerID, eventID, ok := parseOwnerEventArg(arg)
	if !ok {
		callbacks.AnswerAlert(ctx, b, callback.ID, "❌ Invalid request")
		return
	}
	h.sendSlots(ctx, b, callback, ownerID, eventID)
}

// OnShowSlots lets an owner preview what viewers see for slots:<event>.
func (h *Handlers) OnShowSlots(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, arg string) {
	user, eventID, ok := h.ownerCallback(ctx, b, callback, arg)
	if !ok {
		return
	}
	h.sendSlots(ctx, b, callback, user.ID, eventID)
}

func (h *Handlers) sendSlots(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, ownerID int64, eventID uuid.UUID) {
	msg := callbacks.Message(callback)
	if msg == nil {
		callbacks.Answer(ctx, b, callback.ID, "")
		return
	}

	now := time.Now()
	res, err := h.availabilityService.GetSlots(ctx, ownerID, eventID, now, h.listingEnd(now))
	if err != nil {
		h.logger.Warn("Failed to get slots",
			zap.Int64("owner_id", ownerID),
			zap.String("event_id", eventID.String()),
			zap.Error(err))
		callbacks.AnswerAlert(ctx, b, callback.ID, formatting.ErrorMessage(err))
		return
	}

	text := fmt.Sprintf("🕒 %s (%s)\nTimes in %s\n\n%s",
		res.Event.Name, formatting.Duration(res.Event.DurationMinutes), res.Location,
		formatting.Slots(res.Slots, res.Location, slotsPerDay))
	if advisory := formatting.Warnings(res.Degraded, res.Warnings); advisory != "" {
		text += "\n\n⚠️ " + advisory
	}

	arg := strconv.FormatInt(ownerID, 10) + ":" + eventID.String()
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        text,
		ReplyMarkup: keyboard.NewBuilder().Row(keyboard.Button("🖼 Week view", callbacks.WeekImage+arg)).Build(),
	}); err != nil {
		h.logger.Error("Failed to send slots", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
	callbacks.Answer(ctx, b, callback.ID, "")
}

// OnWeekImage sends a picture of this week's working hours and free slots.
func (h *Handlers) OnWeekImage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, arg string) {
	msg := callbacks.Message(callback)
	ownerID, eventID, ok := parseOwnerEventArg(arg)
	if !ok || msg == nil {
		callbacks.AnswerAlert(ctx, b, callback.ID, "❌ Invalid request")
		return
	}

	now := time.Now()
	res, err := h.availabilityService.GetSlots(ctx, ownerID, eventID, now, h.listingEnd(now))
	if err != nil {
		callbacks.AnswerAlert(ctx, b, callback.ID, formatting.ErrorMessage(err))
		return
	}
	schedule, err := h.scheduleService.GetSchedule(ctx, ownerID)
	if err != nil {
		callbacks.AnswerAlert(ctx, b, callback.ID, formatting.ErrorMessage(err))
		return
	}

	week := render.NewWeek(res.Event.Name, service.CoreSchedule(schedule), res.Location,
		availability.DateOf(now, res.Location), res.Slots, now)
	img, err := render.Render(week)
	if err != nil {
		h.logger.Error("Failed to render week", zap.Int64("owner_id", ownerID), zap.Error(err))
		callbacks.AnswerAlert(ctx, b, callback.ID, formatting.ErrorMessage(err))
		return
	}

	if _, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: msg.Chat.ID,
		Photo: &models.InputFileUpload{
			Filename: "week.png",
			Data:     bytes.NewReader(img),
		},
		Caption: fmt.Sprintf("%s · %d free slots this week", res.Event.Name, len(res.Slots)),
	}); err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
	callbacks.Answer(ctx, b, callback.ID, "")
}

func parseOwnerEventArg(arg string) (int64, uuid.UUID, bool) {
	ownerPart, eventPart, ok := callbacks.SplitArg(arg)
	if !ok {
		return 0, uuid.Nil, false
	}
	ownerID, ok := parseOwnerID(ownerPart)
	if !ok {
		return 0, uuid.Nil, false
	}
	eventID, err := uuid.Parse(eventPart)
	if err != nil {
		return 0, uuid.Nil, false
	}
	return ownerID, eventID, true
}

// listingEnd is the end of the chat listing, never past the booking horizon.
func (h *Handlers) listingEnd(now time.Time) time.Time {
	return now.Add(min(listingDays*24*time.Hour, h.availabilityService.Horizon()))
}
