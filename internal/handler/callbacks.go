package handler

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// parseRemoveIndex extracts the loop index from "rm_<n>" callback data
func parseRemoveIndex(data string) (int, error) {
	return strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(data), "rm_"))
}

// parseInterval extracts the duration from "iv_<seconds>" callback data
func parseInterval(data string) (time.Duration, error) {
	secs, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(data), "iv_"))
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}

// handleEditError handles errors from c.Edit() - if the message is not
// modified, just acknowledge the callback. Otherwise acknowledge and
// return the error so the caller can send a new message.
func (h *Handler) handleEditError(err error, c tele.Context) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	// The message already shows this content, nothing to do
	if strings.Contains(errStr, "message is not modified") {
		h.logger.Debug("Message already up to date",
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.String("callback_id", c.Callback().ID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// render edits the originating message when handling a callback, falling
// back to a fresh message; for commands it plain-sends.
func (h *Handler) render(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() == nil {
		return c.Send(text, markup)
	}

	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c); handleErr == nil {
			return nil
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// handleCallback handles ALL callback queries not routed to a static
// button handler
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Debug("Processing callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)

	// Handle specific button callbacks by Unique first
	if handler, ok := h.staticHandler(callback.Unique); ok {
		return handler(c)
	}

	// If Unique is empty, try to handle by Data (for buttons with Unique
	// that didn't come through)
	if callback.Unique == "" {
		if handler, ok := h.staticHandler(data); ok {
			return handler(c)
		}
	}

	// Handle by Data prefix (dynamic buttons)
	switch {
	case strings.HasPrefix(data, "rm_"):
		return h.handleRemove(c, data)
	case strings.HasPrefix(data, "iv_"):
		return h.handleInterval(c, data)
	}

	// If it's not handled, acknowledge it anyway
	h.logger.Warn("Unhandled callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// staticHandler maps a button unique to its handler
func (h *Handler) staticHandler(unique string) (tele.HandlerFunc, bool) {
	switch unique {
	case btnLearned.Unique:
		return h.handleLearned, true
	case btnUndo.Unique:
		return h.handleUndo, true
	case btnNext.Unique:
		return h.handleNext, true
	case btnLoop.Unique:
		return h.handleLoop, true
	case btnAdd.Unique:
		return h.handleAdd, true
	case btnSettings.Unique:
		return h.handleSettings, true
	case btnStats.Unique:
		return h.handleStats, true
	case btnSync.Unique:
		return h.handleSync, true
	case btnBack.Unique:
		return h.handleWord, true
	case btnAutoChange.Unique:
		return h.handleToggleAutoChange, true
	case btnAutostart.Unique:
		return h.handleToggleAutostart, true
	case btnReset.Unique:
		return h.handleResetAsk, true
	case btnResetYes.Unique:
		return h.handleResetConfirm, true
	}
	return nil, false
}

// handleRemove drops a loop entry picked in the loop view
func (h *Handler) handleRemove(c tele.Context, data string) error {
	index, err := parseRemoveIndex(data)
	if err != nil {
		h.logger.Warn("Bad remove callback", zap.String("data", data))
		return c.Respond(&tele.CallbackResponse{Text: "Stale button"})
	}

	if !h.manager.RemoveFromLoop(index) {
		// The loop changed since this view was rendered
		return c.Respond(&tele.CallbackResponse{Text: "That word is already gone"})
	}

	return h.renderLoop(c)
}

// handleInterval switches the auto-change interval
func (h *Handler) handleInterval(c tele.Context, data string) error {
	interval, err := parseInterval(data)
	if err != nil {
		h.logger.Warn("Bad interval callback", zap.String("data", data))
		return c.Respond(&tele.CallbackResponse{Text: "Stale button"})
	}

	if !h.manager.SetInterval(interval) {
		return c.Respond(&tele.CallbackResponse{Text: "That interval is not available"})
	}

	return h.renderSettings(c)
}
