package handler

import (
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart greets the owner and shows the current word.
func (h *Handler) handleStart(c tele.Context) error {
	h.logger.Info("Owner started bot",
		zap.Int64("user_id", c.Sender().ID),
	)

	return h.renderWord(c)
}

func (h *Handler) handleWord(c tele.Context) error {
	return h.renderWord(c)
}

// renderWord shows the current-word card, or the empty-loop card when
// there is nothing left to review.
func (h *Handler) renderWord(c tele.Context) error {
	word, ok := h.manager.CurrentWord()
	if !ok {
		return h.render(c, emptyLoopText, emptyLoopMarkup())
	}

	text := wordText(word, h.manager.CurrentIndex(), len(h.manager.DailyWords()))
	return h.render(c, text, wordMarkup(h.manager.HasPendingUndo()))
}

// handleLearned removes the current word from the loop and opens the
// undo window.
func (h *Handler) handleLearned(c tele.Context) error {
	if !h.manager.MarkLearned() {
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{Text: "The loop is empty"})
		}
		return c.Send(emptyLoopText, emptyLoopMarkup())
	}

	return h.renderWord(c)
}

func (h *Handler) handleUndo(c tele.Context) error {
	if !h.manager.UndoLastLearned() {
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{Text: "Nothing to undo"})
		}
		return c.Send("Nothing to undo.")
	}

	return h.renderWord(c)
}

func (h *Handler) handleNext(c tele.Context) error {
	if !h.manager.Advance(false) {
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{Text: "The loop is empty"})
		}
		return c.Send(emptyLoopText, emptyLoopMarkup())
	}

	return h.renderWord(c)
}

func (h *Handler) handleLoop(c tele.Context) error {
	return h.renderLoop(c)
}

func (h *Handler) renderLoop(c tele.Context) error {
	words := h.manager.DailyWords()
	markup := loopMarkup(words)
	if len(words) == 0 {
		markup = emptyLoopMarkup()
	}

	return h.render(c, loopText(words, h.manager.CurrentIndex()), markup)
}

// handleAdd draws a random unlearned word into the loop.
func (h *Handler) handleAdd(c tele.Context) error {
	word, ok := h.manager.AddNewWord()
	if !ok {
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{
				Text:      "No unlearned words left to add",
				ShowAlert: true,
			})
		}
		return c.Send("No unlearned words left to add.")
	}

	h.logger.Debug("Loop extended via menu", zap.String("word", word.Text))
	return h.renderLoop(c)
}

func (h *Handler) handleSync(c tele.Context) error {
	h.manager.Sync()
	return h.renderWord(c)
}

// handleText catches free text; the bot runs on buttons and commands.
func (h *Handler) handleText(c tele.Context) error {
	if strings.HasPrefix(strings.TrimSpace(c.Text()), "/") {
		return nil
	}

	return c.Send(textHint)
}
