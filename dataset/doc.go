// Package dataset handles the JSONL corpus files produced by parsing and
// their publication to a Hugging Face dataset repository.
package dataset
