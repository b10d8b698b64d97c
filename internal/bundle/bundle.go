// Package bundle provides the read-only reference word list: the asset
// embedded in the binary, or an external file overriding it. The bundle is
// the source of truth for word content, never for learned-state.
package bundle

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"wordloop/internal/domain"

	"github.com/google/uuid"
)

//go:embed words.json
var embeddedWords []byte

// Source yields the reference word list. Loaded words are always unlearned
// and carry freshly minted ids; merge logic matches them by text.
type Source interface {
	Load() ([]domain.Word, error)
}

type embeddedSource struct{}

// Embedded returns the source backed by the words.json asset shipped in
// the binary.
func Embedded() Source { return embeddedSource{} }

func (embeddedSource) Load() ([]domain.Word, error) {
	return decode(embeddedWords)
}

type fileSource struct {
	path string
}

// File returns a source reading the reference list from an external file.
func File(path string) Source { return fileSource{path: path} }

func (s fileSource) Load() ([]domain.Word, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read reference file: %w", err)
	}
	return decode(data)
}

func decode(data []byte) ([]domain.Word, error) {
	var words []domain.Word
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("decode reference list: %w", err)
	}

	out := words[:0]
	for _, w := range words {
		if w.Text == "" {
			continue
		}
		w.ID = uuid.New()
		w.Learned = false
		out = append(out, w)
	}
	return out, nil
}
