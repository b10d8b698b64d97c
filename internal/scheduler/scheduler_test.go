package scheduler

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"wordloop/internal/domain"
	"wordloop/internal/notify"
	"wordloop/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fakeNotifier struct {
	mu        sync.Mutex
	err       error
	scheduled []notify.Notification
	delays    []time.Duration
	cancels   []string
}

func (f *fakeNotifier) Schedule(n notify.Notification, after time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.scheduled = append(f.scheduled, n)
	f.delays = append(f.delays, after)
	return nil
}

func (f *fakeNotifier) Cancel(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels = append(f.cancels, id)
}

func (f *fakeNotifier) CancelAll() {}

func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, 3, 14, hour, 30, 0, 0, time.UTC)
	}
}

func enabledState(interval time.Duration, word domain.Word) *testutil.MockLoopState {
	state := new(testutil.MockLoopState)
	state.On("Settings").Return(domain.Settings{AutoChange: true, Interval: interval})
	state.On("CurrentWord").Return(word, true)
	return state
}

func TestScheduler_ScheduleNotification(t *testing.T) {
	word := domain.NewWord("cat", "a feline", "", "/kæt/")
	state := enabledState(30*time.Minute, word)
	notifier := &fakeNotifier{}

	s := New(state, notifier, 8, 23, testutil.NewTestLogger())
	s.now = fixedClock(12)

	s.ScheduleNotification(5 * time.Second)

	// The pending notification is cancelled before the new one is armed
	assert.Equal(t, []string{"wordloop.current"}, notifier.cancels)
	assert.Len(t, notifier.scheduled, 1)
	assert.Equal(t, "wordloop.current", notifier.scheduled[0].ID)
	assert.Equal(t, "cat", notifier.scheduled[0].Title)
	assert.Equal(t, "/kæt/ - a feline", notifier.scheduled[0].Body)
	assert.Equal(t, []time.Duration{5 * time.Second}, notifier.delays)

	state.AssertExpectations(t)
}

func TestScheduler_ScheduleNotificationDefaultsToInterval(t *testing.T) {
	state := enabledState(15*time.Minute, testutil.NewTestWord("cat", "a feline"))
	notifier := &fakeNotifier{}

	s := New(state, notifier, 8, 23, testutil.NewTestLogger())
	s.now = fixedClock(12)

	s.ScheduleNotification(0)

	assert.Equal(t, []time.Duration{15 * time.Minute}, notifier.delays)
}

func TestScheduler_ScheduleNotificationFloorsDelay(t *testing.T) {
	state := enabledState(30*time.Minute, testutil.NewTestWord("cat", "a feline"))
	notifier := &fakeNotifier{}

	s := New(state, notifier, 8, 23, testutil.NewTestLogger())
	s.now = fixedClock(12)

	s.ScheduleNotification(200 * time.Millisecond)

	assert.Equal(t, []time.Duration{time.Second}, notifier.delays)
}

func TestScheduler_ScheduleNotificationNoOps(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*testutil.MockLoopState)
		hour  int
	}{
		{
			name: "auto-change disabled",
			setup: func(state *testutil.MockLoopState) {
				state.On("Settings").Return(domain.Settings{AutoChange: false, Interval: time.Hour})
			},
			hour: 12,
		},
		{
			name: "empty loop",
			setup: func(state *testutil.MockLoopState) {
				state.On("Settings").Return(domain.Settings{AutoChange: true, Interval: time.Hour})
				state.On("CurrentWord").Return(domain.Word{}, false)
			},
			hour: 12,
		},
		{
			name: "before the window opens",
			setup: func(state *testutil.MockLoopState) {
				state.On("Settings").Return(domain.Settings{AutoChange: true, Interval: time.Hour})
				state.On("CurrentWord").Return(testutil.NewTestWord("cat", "a feline"), true)
			},
			hour: 7,
		},
		{
			name: "after the window closes",
			setup: func(state *testutil.MockLoopState) {
				state.On("Settings").Return(domain.Settings{AutoChange: true, Interval: time.Hour})
				state.On("CurrentWord").Return(testutil.NewTestWord("cat", "a feline"), true)
			},
			hour: 23,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := new(testutil.MockLoopState)
			tt.setup(state)
			notifier := &fakeNotifier{}

			s := New(state, notifier, 8, 23, testutil.NewTestLogger())
			s.now = fixedClock(tt.hour)

			s.ScheduleNotification(time.Second)

			// The pending notification is still cancelled
			assert.Equal(t, []string{"wordloop.current"}, notifier.cancels)
			assert.Empty(t, notifier.scheduled)
		})
	}
}

func TestScheduler_ScheduleNotificationWindowEdges(t *testing.T) {
	for _, tt := range []struct {
		hour     int
		expected bool
	}{
		{hour: 8, expected: true},
		{hour: 22, expected: true},
		{hour: 7, expected: false},
		{hour: 23, expected: false},
		{hour: 0, expected: false},
	} {
		state := enabledState(time.Hour, testutil.NewTestWord("cat", "a feline"))
		notifier := &fakeNotifier{}

		s := New(state, notifier, 8, 23, testutil.NewTestLogger())
		s.now = fixedClock(tt.hour)

		s.ScheduleNotification(time.Second)

		if tt.expected {
			assert.Len(t, notifier.scheduled, 1, "hour %d", tt.hour)
		} else {
			assert.Empty(t, notifier.scheduled, "hour %d", tt.hour)
		}
	}
}

func TestScheduler_ScheduleNotificationFailureIsSwallowed(t *testing.T) {
	state := enabledState(time.Hour, testutil.NewTestWord("cat", "a feline"))
	notifier := &fakeNotifier{err: errors.New("channel gone")}

	s := New(state, notifier, 8, 23, testutil.NewTestLogger())
	s.now = fixedClock(12)

	s.ScheduleNotification(time.Second)
}

func TestScheduler_RepeatTimerAdvances(t *testing.T) {
	var advances atomic.Int32

	state := new(testutil.MockLoopState)
	state.On("Settings").Return(domain.Settings{AutoChange: true, Interval: 15 * time.Millisecond})
	state.On("Advance", true).Run(func(mock.Arguments) {
		advances.Add(1)
	}).Return(true)

	s := New(state, &fakeNotifier{}, 8, 23, testutil.NewTestLogger())

	s.RestartTimer()
	defer s.StopTimer()

	assert.Eventually(t, func() bool {
		return advances.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	s.StopTimer()
	time.Sleep(50 * time.Millisecond)

	after := advances.Load()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, after, advances.Load())
}

func TestScheduler_RestartTimerWhileDisabled(t *testing.T) {
	var advances atomic.Int32

	state := new(testutil.MockLoopState)
	state.On("Settings").Return(domain.Settings{AutoChange: false, Interval: 10 * time.Millisecond})
	state.On("Advance", true).Run(func(mock.Arguments) {
		advances.Add(1)
	}).Return(false)

	s := New(state, &fakeNotifier{}, 8, 23, testutil.NewTestLogger())

	s.RestartTimer()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), advances.Load())
}

func TestScheduler_RestartTimerReplacesPrevious(t *testing.T) {
	var advances atomic.Int32

	state := new(testutil.MockLoopState)
	state.On("Settings").Return(domain.Settings{AutoChange: true, Interval: 15 * time.Millisecond})
	state.On("Advance", true).Run(func(mock.Arguments) {
		advances.Add(1)
	}).Return(true)

	s := New(state, &fakeNotifier{}, 8, 23, testutil.NewTestLogger())

	s.RestartTimer()
	s.RestartTimer()
	defer s.StopTimer()

	assert.Eventually(t, func() bool {
		return advances.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestScheduler_CancelNotification(t *testing.T) {
	notifier := &fakeNotifier{}
	s := New(new(testutil.MockLoopState), notifier, 8, 23, testutil.NewTestLogger())

	s.CancelNotification()

	assert.Equal(t, []string{"wordloop.current"}, notifier.cancels)
}

func TestScheduler_Stop(t *testing.T) {
	var advances atomic.Int32

	state := new(testutil.MockLoopState)
	state.On("Settings").Return(domain.Settings{AutoChange: true, Interval: 10 * time.Millisecond})
	state.On("Advance", true).Run(func(mock.Arguments) {
		advances.Add(1)
	}).Return(true)
	notifier := &fakeNotifier{}

	s := New(state, notifier, 8, 23, testutil.NewTestLogger())
	s.RestartTimer()

	s.Stop()

	assert.Contains(t, notifier.cancels, "wordloop.current")

	time.Sleep(50 * time.Millisecond)
	after := advances.Load()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, after, advances.Load())
}
