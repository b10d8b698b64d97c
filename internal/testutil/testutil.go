package testutil

import (
	"fmt"

	"wordloop/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestWord creates a test word
func NewTestWord(text, meaning string) domain.Word {
	return domain.NewWord(text, meaning, "", "")
}

// NewTestWords creates n distinct unlearned test words
func NewTestWords(n int) []domain.Word {
	words := make([]domain.Word, 0, n)
	for i := 1; i <= n; i++ {
		words = append(words, NewTestWord(
			fmt.Sprintf("word%d", i),
			fmt.Sprintf("meaning%d", i),
		))
	}
	return words
}
