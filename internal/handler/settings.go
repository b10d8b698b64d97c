package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func (h *Handler) handleSettings(c tele.Context) error {
	return h.renderSettings(c)
}

func (h *Handler) renderSettings(c tele.Context) error {
	settings := h.manager.Settings()
	text := settingsText(settings, h.autostart.Enabled())
	return h.render(c, text, settingsMarkup(settings.Interval))
}

func (h *Handler) handleStats(c tele.Context) error {
	return h.render(c, statsText(h.manager.Stats()), backMarkup())
}

// handleToggleAutoChange flips automatic word rotation on or off.
func (h *Handler) handleToggleAutoChange(c tele.Context) error {
	h.manager.SetAutoChange(!h.manager.Settings().AutoChange)
	return h.renderSettings(c)
}

// handleToggleAutostart flips the launch-at-login entry.
func (h *Handler) handleToggleAutostart(c tele.Context) error {
	var err error
	if h.autostart.Enabled() {
		err = h.autostart.Disable()
	} else {
		err = h.autostart.Enable()
	}
	if err != nil {
		h.logger.Error("Failed to toggle autostart", zap.Error(err))
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{Text: "Could not update the login entry"})
		}
		return c.Send("Could not update the login entry.")
	}

	return h.renderSettings(c)
}

// handleResetAsk asks for confirmation before wiping anything.
func (h *Handler) handleResetAsk(c tele.Context) error {
	return h.render(c, resetAskText, resetMarkup())
}

func (h *Handler) handleResetConfirm(c tele.Context) error {
	h.logger.Info("Owner confirmed full reset")
	h.manager.ResetAllData()
	return h.renderWord(c)
}

// handleQuit says goodbye and stops the process.
func (h *Handler) handleQuit(c tele.Context) error {
	h.logger.Info("Owner requested shutdown")

	if err := c.Send("👋 Shutting down. Start me again whenever you want to review."); err != nil {
		h.logger.Warn("Failed to send goodbye", zap.Error(err))
	}

	if h.shutdown != nil {
		h.shutdown()
	}
	return nil
}
