// Package wordlist provides an embedded adjective vocabulary implementing
// the pigeongen.WordSource interface.
package wordlist

import (
	_ "embed"
	"math/rand/v2"
	"strings"
	"sync"
)

//go:embed adjectives.txt
var adjectivesRaw string

// List draws adjectives uniformly at random from the embedded vocabulary.
// Draws are independent; the same word can come up twice.
type List struct {
	words []string

	mu   sync.Mutex
	rand *rand.Rand
}

// New creates a List seeded from the global random source.
func New() *List {
	return &List{words: parseWords(adjectivesRaw)}
}

// NewSeeded creates a List with a deterministic draw order, for tests.
func NewSeeded(seed uint64) *List {
	return &List{
		words: parseWords(adjectivesRaw),
		rand:  rand.New(rand.NewPCG(seed, seed)),
	}
}

// NextAdjective returns one adjective from the vocabulary.
func (l *List) NextAdjective() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.rand != nil {
		return l.words[l.rand.IntN(len(l.words))]
	}
	return l.words[rand.IntN(len(l.words))]
}

// Len reports the vocabulary size.
func (l *List) Len() int {
	return len(l.words)
}

// Words returns a copy of the vocabulary.
func (l *List) Words() []string {
	out := make([]string, len(l.words))
	copy(out, l.words)
	return out
}

func parseWords(raw string) []string {
	lines := strings.Split(raw, "\n")
	words := make([]string, 0, len(lines))
	for _, line := range lines {
		word := strings.TrimSpace(line)
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words = append(words, word)
	}
	return words
}
