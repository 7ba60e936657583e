package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/availability_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/availability_bot/internal/controller/formatting"
	"github.com/Freeeeeet/availability_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/availability_bot/internal/controller/state"
	"github.com/Freeeeeet/availability_bot/internal/model"
	"github.com/Freeeeeet/availability_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleNewEventStart opens the event type dialog.
func (h *Handlers) HandleNewEventStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	if _, ok := h.ensureUser(ctx, b, update.Message.Chat.ID, update.Message.From); !ok {
		return
	}

	h.stateManager.SetState(update.Message.From.ID, state.StateNewEventName)
	h.sendText(ctx, b, update.Message.Chat.ID,
		"📝 New event type\n\nStep 1 of 3: What is it called?\n\nFor example: Intro call, Consultation\n/cancel to abort")
}

func (h *Handlers) handleNewEventNameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	name := strings.TrimSpace(update.Message.Text)
	if name == "" {
		h.sendText(ctx, b, update.Message.Chat.ID, "❌ The name cannot be empty. Try again:")
		return
	}

	telegramID := update.Message.From.ID
	h.stateManager.SetData(telegramID, state.KeyEventName, name)
	h.stateManager.SetState(telegramID, state.StateNewEventDuration)

	h.sendText(ctx, b, update.Message.Chat.ID,
		"⏱ Step 2 of 3: How long is it?\n\nSend minutes (30) or hours and minutes (1h30m).")
}

func (h *Handlers) handleNewEventDurationStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	minutes, err := parseDuration(update.Message.Text)
	if err != nil {
		h.sendText(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ %v. Try again:", err))
		return
	}

	telegramID := update.Message.From.ID
	h.stateManager.SetData(telegramID, state.KeyEventDuration, minutes)
	h.stateManager.SetState(telegramID, state.StateNewEventDescription)

	h.sendText(ctx, b, update.Message.Chat.ID,
		"📄 Step 3 of 3: Add a short description, or send - to skip.")
}

func (h *Handlers) handleNewEventDescriptionStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID
	user, ok := h.ensureUser(ctx, b, chatID, update.Message.From)
	if !ok {
		return
	}

	description := strings.TrimSpace(update.Message.Text)
	if description == "-" {
		description = ""
	}

	name := h.stateManager.GetString(telegramID, state.KeyEventName)
	duration := h.stateManager.GetInt(telegramID, state.KeyEventDuration)
	h.stateManager.ClearState(telegramID)

	event, err := h.eventService.CreateEvent(ctx, user.ID, service.EventInput{
		Name:            name,
		Description:     description,
		DurationMinutes: duration,
		IsActive:        true,
	})
	if err != nil {
		h.logger.Warn("Failed to create event", zap.Int64("owner_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}

	h.sendText(ctx, b, chatID, fmt.Sprintf(
		"✅ Created %s\n\nShare it with: /book %d\nManage it with /events",
		formatting.Event(event), user.ID))
}

// HandleEvents lists the owner's event types with management buttons.
func (h *Handlers) HandleEvents(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	user, ok := h.ensureUser(ctx, b, chatID, update.Message.From)
	if !ok {
		return
	}

	events, err := h.eventService.ListEvents(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to list events", zap.Int64("owner_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}
	if len(events) == 0 {
		h.sendText(ctx, b, chatID, "You have no event types yet. Create one with /newevent.")
		return
	}

	for _, e := range events {
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        formatting.Event(e),
			ReplyMarkup: eventKeyboard(e),
		}); err != nil {
			h.logger.Error("Failed to send event", zap.String("event_id", e.ID.String()), zap.Error(err))
		}
	}

	h.sendText(ctx, b, chatID, fmt.Sprintf(
		"🔗 Guests can book with /book %d\nAPI: /api/v1/owners/%d/events", user.ID, user.ID))
}

func eventKeyboard(e *model.Event) *models.InlineKeyboardMarkup {
	toggle := "⏸ Pause"
	if !e.IsActive {
		toggle = "▶️ Activate"
	}
	id := e.ID.String()
	return keyboard.NewBuilder().
		Row(keyboard.Button("📅 Free slots", callbacks.ShowSlots+id)).
		Row(
			keyboard.Button(toggle, callbacks.ToggleEvent+id),
			keyboard.Button("🗑 Delete", callbacks.DeleteEvent+id),
		).
		Build()
}

// OnToggleEvent pauses or activates an event type.
func (h *Handlers) OnToggleEvent(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, arg string) {
	user, eventID, ok := h.ownerCallback(ctx, b, callback, arg)
	if !ok {
		return
	}

	event, err := h.eventService.ToggleEvent(ctx, user.ID, eventID)
	if err != nil {
		callbacks.AnswerAlert(ctx, b, callback.ID, formatting.ErrorMessage(err))
		return
	}

	if msg := callbacks.Message(callback); msg != nil {
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      msg.Chat.ID,
			MessageID:   msg.ID,
			Text:        formatting.Event(event),
			ReplyMarkup: eventKeyboard(event),
		})
	}
	callbacks.Answer(ctx, b, callback.ID, "✅ Updated")
}

// OnDeleteEvent asks for confirmation.
func (h *Handlers) OnDeleteEvent(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, arg string) {
	user, eventID, ok := h.ownerCallback(ctx, b, callback, arg)
	if !ok {
		return
	}

	event, err := h.eventService.GetOwnedEvent(ctx, user.ID, eventID)
	if err != nil {
		callbacks.AnswerAlert(ctx, b, callback.ID, formatting.ErrorMessage(err))
		return
	}

	if msg := callbacks.Message(callback); msg != nil {
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    msg.Chat.ID,
			MessageID: msg.ID,
			Text:      fmt.Sprintf("Delete %q? This cannot be undone.", event.Name),
			ReplyMarkup: keyboard.NewBuilder().
				Row(
					keyboard.Button("🗑 Delete", callbacks.ConfirmDelete+arg),
					keyboard.Button("Keep", callbacks.Noop),
				).
				Build(),
		})
	}
	callbacks.Answer(ctx, b, callback.ID, "")
}

func (h *Handlers) OnConfirmDelete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, arg string) {
	user, eventID, ok := h.ownerCallback(ctx, b, callback, arg)
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(ctx, user.ID, eventID); err != nil {
		callbacks.AnswerAlert(ctx, b, callback.ID, formatting.ErrorMessage(err))
		return
	}

	if msg := callbacks.Message(callback); msg != nil {
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    msg.Chat.ID,
			MessageID: msg.ID,
			Text:      "🗑 Deleted.",
		})
	}
	callbacks.Answer(ctx, b, callback.ID, "")
}

// ownerCallback resolves the pressing user and the event id argument.
func (h *Handlers) ownerCallback(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, arg string) (*model.User, uuid.UUID, bool) {
	eventID, err := uuid.Parse(arg)
	if err != nil {
		callbacks.AnswerAlert(ctx, b, callback.ID, "❌ Invalid request")
		return nil, uuid.Nil, false
	}

	user, err := h.userService.GetByTelegramID(ctx, callback.From.ID)
	if err != nil || user == nil {
		h.logger.Warn("Callback from unknown user", zap.Int64("telegram_id", callback.From.ID), zap.Error(err))
		callbacks.AnswerAlert(ctx, b, callback.ID, formatting.ErrorMessage(service.ErrUserNotFound))
		return nil, uuid.Nil, false
	}
	return user, eventID, true
}
