package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// garudaRef matches references of the form garp_<kanda>,<sarga>.<verse>.
	garudaRef = regexp.MustCompile(`garp_(\d+),(\d+)\.(\d+)`)
	// garudaMarker matches inline "//...//" reference markers.
	garudaMarker = regexp.MustCompile(`//.*?//`)
)

// ParseGarudapurana reads the Garudapurana transcription and produces one
// record per referenced verse block.
func ParseGarudapurana(content string) []Record {
	content = stripHeader(content)

	var records []Record
	for _, blk := range verseBlocks(content) {
		combined := joinLines(blk)

		m := garudaRef.FindStringSubmatch(combined)
		if m == nil {
			continue
		}
		kanda, sarga, verse := m[1], m[2], m[3]

		quote := garudaMarker.ReplaceAllString(combined, "")
		quote = strings.TrimSpace(strings.ReplaceAll(quote, "/", ""))

		records = append(records, Record{
			Quote:    quote,
			Category: "Purana",
			Book:     "Garudapurana",
			Position: fmt.Sprintf("Kanda %s, Sarga %s, Verse %s", kanda, sarga, verse),
		})
	}
	return records
}
