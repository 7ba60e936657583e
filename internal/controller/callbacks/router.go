package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Callback data prefixes. The argument follows the colon.
const (
	ShowSlots     = "slots:"          // slots:<event uuid>
	ToggleEvent   = "toggle:"         // toggle:<event uuid>
	DeleteEvent   = "delete:"         // delete:<event uuid>
	ConfirmDelete = "confirm_delete:" // confirm_delete:<event uuid>
	BookEvent     = "book:"           // book:<owner id>:<event uuid>
	WeekImage     = "week:"           // week:<owner id>:<event uuid>
	Noop          = "noop"
)

// HandlerFunc handles a callback whose data matched a prefix; arg is the
// data with the prefix removed.
type HandlerFunc func(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, arg string)

type route struct {
	prefix  string
	handler HandlerFunc
}

// Router dispatches callback queries by data prefix. The longest matching
// prefix wins.
type Router struct {
	routes []route
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{logger: logger}
}

func (r *Router) Handle(prefix string, h HandlerFunc) {
	r.routes = append(r.routes, route{prefix: prefix, handler: h})
}

func (r *Router) match(data string) (HandlerFunc, string, bool) {
	best := -1
	for i, rt := range r.routes {
		if strings.HasPrefix(data, rt.prefix) && (best < 0 || len(rt.prefix) > len(r.routes[best].prefix)) {
			best = i
		}
	}
	if best < 0 {
		return nil, "", false
	}
	return r.routes[best].handler, strings.TrimPrefix(data, r.routes[best].prefix), true
}

// HandleCallbackQuery is registered with the bot for every callback.
func (r *Router) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	callback := update.CallbackQuery

	r.logger.Debug("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID))

	if callback.Data == Noop {
		Answer(ctx, b, callback.ID, "")
		return
	}

	h, arg, ok := r.match(callback.Data)
	if !ok {
		r.logger.Warn("Unknown callback",
			zap.String("data", callback.Data),
			zap.Int64("user_id", callback.From.ID))
		Answer(ctx, b, callback.ID, "❌ Unknown action")
		return
	}
	h(ctx, b, callback, arg)
}

// Answer acknowledges a callback with an optional toast.
func Answer(ctx context.Context, b *bot.Bot, callbackID, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
}

// AnswerAlert acknowledges a callback with a popup.
func AnswerAlert(ctx context.Context, b *bot.Bot, callbackID, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// Message returns the message the callback button belongs to, if accessible.
func Message(callback *models.CallbackQuery) *models.Message {
	return callback.Message.Message
}

// SplitArg splits "a:b" into its two parts.
func SplitArg(arg string) (string, string, bool) {
	return strings.Cut(arg, ":")
}
