package handler

import (
	"fmt"
	"strings"

	"wordloop/internal/domain"
)

const emptyLoopText = "📭 The daily loop is empty.\n\nSync with the word list or add a word to get going."

const resetAskText = "⚠️ This wipes the persisted words and the daily loop. " +
	"Learned marks are lost for good.\n\nSettings stay as they are. Continue?"

const textHint = "I only speak buttons and commands. Try /word to see the current word."

// wordText renders the current-word card
func wordText(w domain.Word, index, total int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📖 %s\n", w.Text)
	if w.Pronunciation != "" {
		fmt.Fprintf(&b, "%s\n", w.Pronunciation)
	}
	fmt.Fprintf(&b, "\n%s\n", w.Meaning)
	if w.Example != "" {
		fmt.Fprintf(&b, "\n\"%s\"\n", w.Example)
	}
	fmt.Fprintf(&b, "\nWord %d of %d in today's loop", index+1, total)

	return b.String()
}

// loopText renders the loop view, marking the current position
func loopText(words []domain.Word, index int) string {
	if len(words) == 0 {
		return emptyLoopText
	}

	var b strings.Builder
	b.WriteString("📋 Today's loop:\n\n")
	for i, w := range words {
		marker := "      "
		if i == index {
			marker = "▶️ "
		}
		fmt.Fprintf(&b, "%s%d. %s — %s\n", marker, i+1, w.Text, w.Meaning)
	}
	b.WriteString("\nTap a word below to drop it from the loop.")

	return b.String()
}

// settingsText renders the settings card
func settingsText(s domain.Settings, autostartOn bool) string {
	var b strings.Builder

	b.WriteString("⚙️ Settings\n\n")
	fmt.Fprintf(&b, "Auto-change: %s\n", onOff(s.AutoChange))
	fmt.Fprintf(&b, "Interval: %s\n", domain.IntervalLabel(s.Interval))
	fmt.Fprintf(&b, "Launch at login: %s", onOff(autostartOn))

	return b.String()
}

// statsText renders the progress card
func statsText(stats domain.Stats) string {
	return "📊 Progress\n\n" + stats.ProgressString()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
