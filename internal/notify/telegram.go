package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// sender is the slice of the bot API the notifier needs.
type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// pendingTimer is an armed timer together with the generation it was
// armed under.
type pendingTimer struct {
	timer *time.Timer
	gen   uint64
}

// Telegram delivers scheduled notifications as messages to the owner
// chat.
type Telegram struct {
	mu      sync.Mutex
	gen     uint64
	pending map[string]pendingTimer
	handler func(Notification) Presentation

	bot    sender
	chatID int64

	logger *zap.Logger
}

// NewTelegram creates a notifier sending to the given chat
func NewTelegram(bot sender, chatID int64, logger *zap.Logger) *Telegram {
	return &Telegram{
		pending: make(map[string]pendingTimer),
		bot:     bot,
		chatID:  chatID,
		logger:  logger,
	}
}

// SetPresentationHandler registers the callback consulted when a
// notification fires. Without one, notifications are shown with sound.
func (t *Telegram) SetPresentationHandler(h func(Notification) Presentation) {
	t.mu.Lock()
	t.handler = h
	t.mu.Unlock()
}

// Schedule arms a one-shot timer for n, replacing any pending
// notification with the same id.
func (t *Telegram) Schedule(n Notification, after time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p, ok := t.pending[n.ID]; ok {
		p.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.pending[n.ID] = pendingTimer{
		gen: gen,
		timer: time.AfterFunc(after, func() {
			t.fire(n, gen)
		}),
	}

	t.logger.Debug("Notification scheduled",
		zap.String("id", n.ID),
		zap.Duration("after", after),
	)
	return nil
}

// Cancel disarms the pending notification with the given id, if any.
func (t *Telegram) Cancel(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p, ok := t.pending[id]; ok {
		p.timer.Stop()
		delete(t.pending, id)
	}
}

// CancelAll disarms every pending notification.
func (t *Telegram) CancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, p := range t.pending {
		p.timer.Stop()
		delete(t.pending, id)
	}
}

// HasPending reports whether a notification with the given id is armed.
func (t *Telegram) HasPending(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.pending[id]
	return ok
}

// fire delivers n. The generation guard makes a timer that expired
// just before being cancelled or replaced a no-op, so it can neither
// send nor unregister its successor.
func (t *Telegram) fire(n Notification, gen uint64) {
	t.mu.Lock()
	if cur, ok := t.pending[n.ID]; !ok || cur.gen != gen {
		t.mu.Unlock()
		return
	}
	delete(t.pending, n.ID)
	handler := t.handler
	t.mu.Unlock()

	p := Presentation{Banner: true, Sound: true}
	if handler != nil {
		p = handler(n)
	}
	if !p.Banner {
		return
	}

	text := n.Title
	if n.Body != "" {
		text = n.Title + "\n" + n.Body
	}

	var opts []interface{}
	if !p.Sound {
		opts = append(opts, &tele.SendOptions{DisableNotification: true})
	}

	if _, err := t.bot.Send(tele.ChatID(t.chatID), text, opts...); err != nil {
		t.logger.Warn("Failed to send notification",
			zap.String("id", n.ID),
			zap.Error(err),
		)
	}
}
