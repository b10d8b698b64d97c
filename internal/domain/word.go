package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Word is a single vocabulary entry. The id is opaque and may be reminted
// on every sync; identity for merge and loop membership is the Text field.
// Everything except Learned is immutable once created.
type Word struct {
	ID            uuid.UUID `json:"id"`
	Text          string    `json:"text"`
	Meaning       string    `json:"meaning"`
	Example       string    `json:"example,omitempty"`
	Pronunciation string    `json:"pronunciation,omitempty"`
	Learned       bool      `json:"isLearned"`
}

// NewWord creates an unlearned word with a fresh id.
func NewWord(text, meaning, example, pronunciation string) Word {
	return Word{
		ID:            uuid.New(),
		Text:          text,
		Meaning:       meaning,
		Example:       example,
		Pronunciation: pronunciation,
	}
}

// NotificationBody renders the "pronunciation - meaning" line shown under
// the word text in a notification. Words without pronunciation get the
// meaning alone.
func (w Word) NotificationBody() string {
	if w.Pronunciation == "" {
		return w.Meaning
	}
	return fmt.Sprintf("%s - %s", w.Pronunciation, w.Meaning)
}

// ContainsText reports whether words has an entry with the given text.
func ContainsText(words []Word, text string) bool {
	for _, w := range words {
		if w.Text == text {
			return true
		}
	}
	return false
}
