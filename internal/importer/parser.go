// Package importer brings flashcards into a user's collection from
// markdown deck files, either on disk or in a git repository.
package importer

import (
	"bufio"
	"io"
	"os"
	"strings"
)

const (
	frontPrefix = "Q:"
	backPrefix  = "A:"
	separator   = "---"
)

// ParsedCard is one front/back pair extracted from a deck file.
type ParsedCard struct {
	Front string
	Back  string
}

// ParseFile reads a deck file from the given path and extracts all cards.
func ParseFile(path string) ([]ParsedCard, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a deck from an io.Reader. A card is a "Q:" line followed
// by an "A:" line; both sides may continue over following lines until
// the next marker or a "---" separator. Cards without both sides are
// skipped.
func Parse(r io.Reader) ([]ParsedCard, error) {
	scanner := bufio.NewScanner(r)

	var cards []ParsedCard
	var front, back []string
	readingBack := false
	inCard := false

	flush := func() {
		if inCard {
			f := strings.TrimSpace(strings.Join(front, "\n"))
			b := strings.TrimSpace(strings.Join(back, "\n"))
			if f != "" && b != "" {
				cards = append(cards, ParsedCard{Front: f, Back: b})
			}
		}
		front, back = nil, nil
		readingBack = false
		inCard = false
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == separator:
			flush()
		case strings.HasPrefix(line, frontPrefix):
			flush()
			inCard = true
			front = append(front, strings.TrimPrefix(strings.TrimPrefix(line, frontPrefix), " "))
		case strings.HasPrefix(line, backPrefix):
			if inCard {
				readingBack = true
				back = append(back, strings.TrimPrefix(strings.TrimPrefix(line, backPrefix), " "))
			}
		case inCard:
			if readingBack {
				back = append(back, line)
			} else {
				front = append(front, line)
			}
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}
