package parser

import (
	"fmt"
	"strings"
)

// ParseAgnipurana reads the Agni Purana transcription. Chapters are opened
// by ":ś atha" markers and closed by "'dhyāyaḥ"; verse lines accumulate
// until a "//" marker, where the "ap_" id names the verse. Footnote lines
// (leading ":") and verses without an id are skipped.
func ParseAgnipurana(content string) []Record {
	content = stripHeader(content)

	chapters := strings.Split(content, ":ś atha")
	if len(chapters) > 0 {
		chapters = chapters[1:]
	}

	var records []Record
	for _, chapter := range chapters {
		heading, _, _ := strings.Cut(chapter, "'dhyāyaḥ")
		fields := strings.Fields(strings.TrimSpace(heading))
		if len(fields) == 0 {
			continue
		}
		chapterNum := fields[0]

		var currentVerse []string
		for _, line := range strings.Split(chapter, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, ":") {
				continue
			}
			if !strings.Contains(line, "//") {
				currentVerse = append(currentVerse, line)
				continue
			}

			currentVerse = append(currentVerse, line)
			verseText := strings.Join(currentVerse, " ")

			if rec, ok := agnipuranaRecord(chapterNum, verseText, currentVerse); ok {
				records = append(records, rec)
			}
			currentVerse = nil
		}
	}
	return records
}

func agnipuranaRecord(chapterNum, verseText string, lines []string) (Record, bool) {
	_, after, ok := strings.Cut(verseText, "ap_")
	if !ok {
		return Record{}, false
	}
	idFields := strings.Fields(after)
	if len(idFields) == 0 {
		return Record{}, false
	}
	verseID := strings.TrimRight(idFields[0], "/")
	if verseID == "" {
		return Record{}, false
	}

	// Drop the trailing "//..." marker from every line, then the id tail.
	parts := make([]string, len(lines))
	for i, line := range lines {
		parts[i], _, _ = strings.Cut(line, "//")
	}
	cleanText := normalizeSpace(strings.Join(parts, " "))
	cleanText, _, _ = strings.Cut(cleanText, "/ap_")
	cleanText = strings.TrimSpace(cleanText)

	return Record{
		Quote:    cleanText,
		Category: "Purana",
		Book:     "Agnipurana",
		Position: fmt.Sprintf("Chapter %s, Verse %s", chapterNum, verseID),
	}, true
}
