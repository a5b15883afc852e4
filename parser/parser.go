package parser

import (
	"fmt"
	"strings"
)

// Record is one parsed verse in the dataset's JSONL schema.
type Record struct {
	Quote    string `json:"quote"`
	Category string `json:"category"`
	Book     string `json:"book"`
	Position string `json:"position"`
}

// Corpus identifies one of the supported source texts.
type Corpus string

const (
	CorpusRigveda      Corpus = "rigveda"
	CorpusRamayana     Corpus = "ramayana"
	CorpusBhagavadGita Corpus = "bhagavadgita"
	CorpusAgnipurana   Corpus = "agnipurana"
	CorpusGarudapurana Corpus = "garudapurana"
)

// Corpora lists every supported corpus in upload order.
func Corpora() []Corpus {
	return []Corpus{
		CorpusAgnipurana,
		CorpusRigveda,
		CorpusBhagavadGita,
		CorpusRamayana,
		CorpusGarudapurana,
	}
}

// Parse converts the raw text of a corpus into verse records. Malformed
// blocks are skipped silently; only an unknown corpus is an error.
func Parse(corpus Corpus, content string) ([]Record, error) {
	switch corpus {
	case CorpusRigveda:
		return ParseRigveda(content), nil
	case CorpusRamayana:
		return ParseRamayana(content), nil
	case CorpusBhagavadGita:
		return ParseBhagavadGita(content), nil
	case CorpusAgnipurana:
		return ParseAgnipurana(content), nil
	case CorpusGarudapurana:
		return ParseGarudapurana(content), nil
	default:
		return nil, fmt.Errorf("unknown corpus %q", corpus)
	}
}

// stripHeader drops the transcription header, keeping everything after the
// "# Text" marker.
func stripHeader(content string) string {
	if !strings.Contains(content, "# Header") {
		return content
	}
	if _, body, ok := strings.Cut(content, "# Text"); ok {
		return strings.TrimSpace(body)
	}
	return content
}

// verseBlocks splits the text into non-empty blocks separated by blank lines.
func verseBlocks(content string) []string {
	raw := strings.Split(content, "\n\n")
	blocks := make([]string, 0, len(raw))
	for _, blk := range raw {
		if blk = strings.TrimSpace(blk); blk != "" {
			blocks = append(blocks, blk)
		}
	}
	return blocks
}

// joinLines collapses a multi-line block into a single space-separated line.
func joinLines(block string) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, " ")
}

// normalizeSpace collapses runs of whitespace to single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
