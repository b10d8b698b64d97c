package notify

import (
	"errors"
	"sync"
	"testing"
	"time"

	"wordloop/internal/testutil"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v3"
)

type sentMessage struct {
	to   tele.Recipient
	text string
	opts []interface{}
}

type fakeSender struct {
	mu       sync.Mutex
	err      error
	attempts int
	sent     []sentMessage
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.attempts++
	if f.err != nil {
		return nil, f.err
	}
	text, _ := what.(string)
	f.sent = append(f.sent, sentMessage{to: to, text: text, opts: opts})
	return &tele.Message{}, nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeSender) tried() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func (f *fakeSender) last() sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

func TestTelegram_ScheduleFires(t *testing.T) {
	bot := &fakeSender{}
	n := NewTelegram(bot, 42, testutil.NewTestLogger())

	err := n.Schedule(Notification{ID: "current", Title: "cat", Body: "/kæt/ - a feline"}, 10*time.Millisecond)
	assert.NoError(t, err)
	assert.True(t, n.HasPending("current"))

	assert.Eventually(t, func() bool {
		return bot.count() == 1
	}, 2*time.Second, 5*time.Millisecond)

	msg := bot.last()
	assert.Equal(t, tele.ChatID(42), msg.to)
	assert.Equal(t, "cat\n/kæt/ - a feline", msg.text)
	assert.Empty(t, msg.opts)
	assert.False(t, n.HasPending("current"))
}

func TestTelegram_EmptyBodySendsTitleOnly(t *testing.T) {
	bot := &fakeSender{}
	n := NewTelegram(bot, 42, testutil.NewTestLogger())

	assert.NoError(t, n.Schedule(Notification{ID: "current", Title: "cat"}, 10*time.Millisecond))

	assert.Eventually(t, func() bool {
		return bot.count() == 1
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, "cat", bot.last().text)
}

func TestTelegram_CancelPreventsSend(t *testing.T) {
	bot := &fakeSender{}
	n := NewTelegram(bot, 42, testutil.NewTestLogger())

	assert.NoError(t, n.Schedule(Notification{ID: "current", Title: "cat"}, 50*time.Millisecond))
	n.Cancel("current")

	assert.False(t, n.HasPending("current"))
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 0, bot.count())
}

func TestTelegram_CancelUnknownID(t *testing.T) {
	n := NewTelegram(&fakeSender{}, 42, testutil.NewTestLogger())

	n.Cancel("nothing-armed")
}

func TestTelegram_RescheduleReplacesPending(t *testing.T) {
	bot := &fakeSender{}
	n := NewTelegram(bot, 42, testutil.NewTestLogger())

	assert.NoError(t, n.Schedule(Notification{ID: "current", Title: "old"}, time.Minute))
	assert.NoError(t, n.Schedule(Notification{ID: "current", Title: "new"}, 10*time.Millisecond))

	assert.Eventually(t, func() bool {
		return bot.count() == 1
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, "new", bot.last().text)

	// The replaced notification never fires
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, bot.count())
}

func TestTelegram_StaleExpiryLeavesSuccessorArmed(t *testing.T) {
	bot := &fakeSender{}
	n := NewTelegram(bot, 42, testutil.NewTestLogger())

	// Generation 1 is replaced by generation 2 under the same id.
	assert.NoError(t, n.Schedule(Notification{ID: "current", Title: "stale"}, time.Hour))
	assert.NoError(t, n.Schedule(Notification{ID: "current", Title: "successor"}, time.Hour))

	// Deliver the expiry of generation 1 as if its timer had fired
	// right before the replacement took the lock.
	n.fire(Notification{ID: "current", Title: "stale"}, 1)

	assert.Equal(t, 0, bot.tried())
	assert.True(t, n.HasPending("current"))

	// Cancel still reaches the successor
	n.Cancel("current")
	assert.False(t, n.HasPending("current"))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, bot.tried())
}

func TestTelegram_StaleExpiryAfterCancel(t *testing.T) {
	bot := &fakeSender{}
	n := NewTelegram(bot, 42, testutil.NewTestLogger())

	assert.NoError(t, n.Schedule(Notification{ID: "current", Title: "cat"}, time.Hour))
	n.Cancel("current")

	n.fire(Notification{ID: "current", Title: "cat"}, 1)

	assert.Equal(t, 0, bot.tried())
	assert.False(t, n.HasPending("current"))
}

func TestTelegram_SilentPresentation(t *testing.T) {
	bot := &fakeSender{}
	n := NewTelegram(bot, 42, testutil.NewTestLogger())
	n.SetPresentationHandler(func(Notification) Presentation {
		return Presentation{Banner: true, Sound: false}
	})

	assert.NoError(t, n.Schedule(Notification{ID: "current", Title: "cat"}, 10*time.Millisecond))

	assert.Eventually(t, func() bool {
		return bot.count() == 1
	}, 2*time.Second, 5*time.Millisecond)

	opts := bot.last().opts
	assert.Len(t, opts, 1)
	sendOpts, ok := opts[0].(*tele.SendOptions)
	assert.True(t, ok)
	assert.True(t, sendOpts.DisableNotification)
}

func TestTelegram_SuppressedPresentation(t *testing.T) {
	bot := &fakeSender{}
	n := NewTelegram(bot, 42, testutil.NewTestLogger())
	n.SetPresentationHandler(func(Notification) Presentation {
		return Presentation{Banner: false}
	})

	assert.NoError(t, n.Schedule(Notification{ID: "current", Title: "cat"}, 10*time.Millisecond))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, bot.tried())
	assert.False(t, n.HasPending("current"))
}

func TestTelegram_CancelAll(t *testing.T) {
	bot := &fakeSender{}
	n := NewTelegram(bot, 42, testutil.NewTestLogger())

	assert.NoError(t, n.Schedule(Notification{ID: "a", Title: "a"}, 50*time.Millisecond))
	assert.NoError(t, n.Schedule(Notification{ID: "b", Title: "b"}, 50*time.Millisecond))

	n.CancelAll()

	assert.False(t, n.HasPending("a"))
	assert.False(t, n.HasPending("b"))
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 0, bot.count())
}

func TestTelegram_SendFailureIsSwallowed(t *testing.T) {
	bot := &fakeSender{err: errors.New("telegram unreachable")}
	n := NewTelegram(bot, 42, testutil.NewTestLogger())

	assert.NoError(t, n.Schedule(Notification{ID: "current", Title: "cat"}, 10*time.Millisecond))

	assert.Eventually(t, func() bool {
		return bot.tried() == 1
	}, 2*time.Second, 5*time.Millisecond)

	assert.False(t, n.HasPending("current"))
	assert.Equal(t, 0, bot.count())
}
