package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// ramayanaRef matches verse references of the form R_<kanda>,<sarga>.<verse>.
var ramayanaRef = regexp.MustCompile(`R_(\d+),(\d+)\.(\d+)`)

// ParseRamayana reads the Ramayana transcription and produces one record per
// referenced verse block. Blocks without a reference marker are skipped.
func ParseRamayana(content string) []Record {
	content = stripHeader(content)

	var records []Record
	for _, blk := range verseBlocks(content) {
		combined := joinLines(blk)

		m := ramayanaRef.FindStringSubmatch(combined)
		if m == nil {
			continue
		}
		kanda, sarga, verse := m[1], m[2], m[3]

		quote := strings.TrimSpace(ramayanaRef.ReplaceAllString(combined, ""))

		records = append(records, Record{
			Quote:    quote,
			Category: "Epic, Ramayana",
			Book:     "Ramayana",
			Position: fmt.Sprintf("Kanda %s, Sarga %s, Verse %s", kanda, sarga, verse),
		})
	}
	return records
}
