package handler

import (
	"strconv"
	"time"

	"wordloop/internal/autostart"
	"wordloop/internal/domain"
	"wordloop/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot       *tele.Bot
	manager   *service.Manager
	autostart *autostart.Entry
	logger    *zap.Logger

	// shutdown requests a graceful stop of the whole process
	shutdown func()
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	manager *service.Manager,
	entry *autostart.Entry,
	shutdown func(),
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:       bot,
		manager:   manager,
		autostart: entry,
		shutdown:  shutdown,
		logger:    logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/word", h.handleWord)
	h.bot.Handle("/learned", h.handleLearned)
	h.bot.Handle("/undo", h.handleUndo)
	h.bot.Handle("/next", h.handleNext)
	h.bot.Handle("/loop", h.handleLoop)
	h.bot.Handle("/add", h.handleAdd)
	h.bot.Handle("/settings", h.handleSettings)
	h.bot.Handle("/stats", h.handleStats)
	h.bot.Handle("/sync", h.handleSync)
	h.bot.Handle("/reset", h.handleResetAsk)
	h.bot.Handle("/quit", h.handleQuit)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnLearned, h.handleLearned)
	h.bot.Handle(&btnUndo, h.handleUndo)
	h.bot.Handle(&btnNext, h.handleNext)
	h.bot.Handle(&btnLoop, h.handleLoop)
	h.bot.Handle(&btnAdd, h.handleAdd)
	h.bot.Handle(&btnSettings, h.handleSettings)
	h.bot.Handle(&btnStats, h.handleStats)
	h.bot.Handle(&btnSync, h.handleSync)
	h.bot.Handle(&btnBack, h.handleWord)
	h.bot.Handle(&btnAutoChange, h.handleToggleAutoChange)
	h.bot.Handle(&btnAutostart, h.handleToggleAutostart)
	h.bot.Handle(&btnReset, h.handleResetAsk)
	h.bot.Handle(&btnResetYes, h.handleResetConfirm)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// Inline keyboard buttons
var (
	btnLearned = tele.Btn{
		Unique: "learned",
		Text:   "✅ Learned",
	}
	btnUndo = tele.Btn{
		Unique: "undo",
		Text:   "↩️ Undo",
	}
	btnNext = tele.Btn{
		Unique: "next",
		Text:   "⏭ Next",
	}
	btnLoop = tele.Btn{
		Unique: "loop",
		Text:   "📋 Loop",
	}
	btnAdd = tele.Btn{
		Unique: "add_word",
		Text:   "➕ Add word",
	}
	btnSettings = tele.Btn{
		Unique: "settings",
		Text:   "⚙️ Settings",
	}
	btnStats = tele.Btn{
		Unique: "stats",
		Text:   "📊 Stats",
	}
	btnSync = tele.Btn{
		Unique: "sync",
		Text:   "🔄 Sync",
	}
	btnBack = tele.Btn{
		Unique: "back",
		Text:   "◀️ Back",
	}
	btnAutoChange = tele.Btn{
		Unique: "toggle_auto",
		Text:   "🔁 Auto-change",
	}
	btnAutostart = tele.Btn{
		Unique: "toggle_autostart",
		Text:   "🚀 Launch at login",
	}
	btnReset = tele.Btn{
		Unique: "reset_ask",
		Text:   "🗑 Reset all data",
	}
	btnResetYes = tele.Btn{
		Unique: "reset_confirm",
		Text:   "⚠️ Yes, wipe everything",
	}
)

// wordMarkup returns the keyboard shown under the current-word card
func wordMarkup(hasUndo bool) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	actions := markup.Row(btnLearned, btnNext)
	if hasUndo {
		actions = markup.Row(btnLearned, btnUndo, btnNext)
	}

	markup.Inline(
		actions,
		markup.Row(btnLoop, btnAdd, btnSync),
		markup.Row(btnStats, btnSettings),
	)
	return markup
}

// emptyLoopMarkup returns the keyboard for the empty-loop card
func emptyLoopMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(btnAdd, btnSync),
		markup.Row(btnStats, btnSettings),
	)
	return markup
}

// loopMarkup returns the loop view keyboard with one remove button per
// entry, addressed by loop index.
func loopMarkup(words []domain.Word) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	for i, w := range words {
		btn := markup.Data("✖ "+w.Text, "rm_"+strconv.Itoa(i))
		rows = append(rows, markup.Row(btn))
	}
	rows = append(rows, markup.Row(btnBack))

	markup.Inline(rows...)
	return markup
}

// settingsMarkup returns the settings keyboard: interval choices plus the
// toggles.
func settingsMarkup(current time.Duration) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	row := tele.Row{}
	for _, v := range domain.Intervals {
		label := domain.IntervalLabel(v)
		if v == current {
			label = "• " + label
		}
		row = append(row, markup.Data(label, "iv_"+strconv.Itoa(int(v.Seconds()))))
		if len(row) == 3 {
			rows = append(rows, row)
			row = tele.Row{}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows,
		markup.Row(btnAutoChange, btnAutostart),
		markup.Row(btnReset),
		markup.Row(btnBack),
	)

	markup.Inline(rows...)
	return markup
}

// resetMarkup returns the destructive-action confirmation keyboard
func resetMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(btnResetYes),
		markup.Row(btnBack),
	)
	return markup
}

// backMarkup returns a keyboard with just the back button
func backMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnBack))
	return markup
}
