package parser

import "strings"

// ParseRigveda reads Vedic verses separated by blank lines, each ending with
// "|| POSITION", and produces one record per verse. Pipe characters inside
// the verse body are removed.
func ParseRigveda(content string) []Record {
	content = strings.ReplaceAll(content, `"""`, "")

	var records []Record
	for _, blk := range verseBlocks(content) {
		if !strings.Contains(blk, "||") {
			continue
		}
		combined := joinLines(blk)

		// The final "||" separates verse text from its position.
		idx := strings.LastIndex(combined, "||")
		if idx < 0 {
			continue
		}
		quote := strings.TrimSpace(strings.ReplaceAll(combined[:idx], "|", ""))
		position := strings.TrimSpace(combined[idx+2:])

		records = append(records, Record{
			Quote:    quote,
			Category: "Veda, Samhita",
			Book:     "Rigveda",
			Position: position,
		})
	}
	return records
}
