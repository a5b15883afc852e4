package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rixhabh/sanskritparse/parser"
)

// WriteJSONL writes one JSON object per record. HTML escaping is disabled so
// Devanagari and punctuation survive byte-for-byte.
func WriteJSONL(w io.Writer, records []parser.Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
	}
	return nil
}

// ReadJSONL parses records back from JSONL input. Blank lines are ignored;
// a malformed line fails the whole read.
func ReadJSONL(r io.Reader) ([]parser.Record, error) {
	var records []parser.Record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec parser.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read jsonl: %w", err)
	}
	return records, nil
}

// WriteFile writes records to path in JSONL form.
func WriteFile(path string, records []parser.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSONL(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a JSONL file back into records.
func ReadFile(path string) ([]parser.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSONL(f)
}
