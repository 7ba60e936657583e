package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/availability_bot/internal/controller/formatting"
	"github.com/Freeeeeet/availability_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	minEventDuration = 5
	maxEventDuration = 8 * 60

	// How many days of slots a chat listing covers.
	listingDays = 7
	// Start times listed per day before collapsing into "+N more".
	slotsPerDay = 8

	bookPayloadPrefix = "book_"
)

// ensureUser registers the sender on first contact and returns the stored user.
func (h *Handlers) ensureUser(ctx context.Context, b *bot.Bot, chatID int64, from *models.User) (*model.User, bool) {
	if from == nil {
		return nil, false
	}
	user, err := h.userService.RegisterUser(ctx, from.ID, from.Username, from.FirstName, from.LastName, from.LanguageCode)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Int64("telegram_id", from.ID), zap.Error(err))
		h.sendText(ctx, b, chatID, "❌ Could not load your profile. Try again later.")
		return nil, false
	}
	return user, true
}

func (h *Handlers) sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		h.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	h.sendText(ctx, b, chatID, formatting.ErrorMessage(err))
}

// commandArgs splits "/cmd@bot a b" into "cmd" and "a b".
func commandArgs(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	cmd, args, _ := strings.Cut(text[1:], " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd), strings.TrimSpace(args)
}

// parseDuration accepts plain minutes ("45") or hours and minutes ("1h30m", "2h").
func parseDuration(text string) (int, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if n, err := strconv.Atoi(text); err == nil {
		return checkDuration(n)
	}

	var total int
	rest := text
	if hours, after, ok := strings.Cut(rest, "h"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(hours))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid hours %q", hours)
		}
		total += n * 60
		rest = strings.TrimSpace(after)
	}
	if rest != "" {
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSuffix(rest, "min"), "m"))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid minutes %q", rest)
		}
		total += n
	}
	return checkDuration(total)
}

func checkDuration(n int) (int, error) {
	if n < minEventDuration || n > maxEventDuration {
		return 0, fmt.Errorf("duration must be between %d and %d minutes", minEventDuration, maxEventDuration)
	}
	return n, nil
}

// parseOwnerID reads an owner id from "/book 42" or a "book_42" start payload.
func parseOwnerID(arg string) (int64, bool) {
	arg = strings.TrimPrefix(strings.TrimSpace(arg), bookPayloadPrefix)
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
