package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// gitaChapter matches chapter markers such as "bhg 2.1" at the start
	// of a block.
	gitaChapter = regexp.MustCompile(`(?i)^bhg\s+(\d+)\.\d+`)
	// gitaVerse matches the trailing verse number, e.g. "||47||".
	gitaVerse = regexp.MustCompile(`\|\|(\d+)\|\|`)
)

// ParseBhagavadGita reads the Bhagavad Gita transcription. Chapter markers
// set the running chapter; each following "||n||"-delimited block becomes a
// record positioned as "<chapter>.<verse>". Verses seen before any chapter
// marker are skipped.
func ParseBhagavadGita(content string) []Record {
	content = stripHeader(content)

	var records []Record
	currentChapter := ""

	for _, blk := range verseBlocks(content) {
		if m := gitaChapter.FindStringSubmatch(blk); m != nil {
			currentChapter = m[1]
			continue
		}
		if !strings.Contains(blk, "||") {
			continue
		}

		combined := joinLines(blk)
		m := gitaVerse.FindStringSubmatch(combined)
		if m == nil || currentChapter == "" {
			continue
		}
		verseID := m[1]

		quote := gitaVerse.ReplaceAllString(combined, "")
		quote = strings.TrimSpace(strings.ReplaceAll(quote, "|", ""))

		records = append(records, Record{
			Quote:    quote,
			Category: "Epic, Mahabharata",
			Book:     "Bhagavad Gita",
			Position: fmt.Sprintf("%s.%s", currentChapter, verseID),
		})
	}
	return records
}
