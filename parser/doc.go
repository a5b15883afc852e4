// Package parser converts Sanskrit source transcriptions into flat verse
// records ready for JSONL export and caching.
//
// Each supported corpus has its own block structure and reference scheme
// (Rigveda "|| POSITION" trailers, Ramayana "R_k,s.v" ids, Bhagavad Gita
// chapter markers, Agnipurana ":ś atha" chapter splits, Garudapurana
// "garp_k,s.v" ids), so each gets a dedicated parse function dispatched
// through Parse. Parsing is lenient: blocks that do not match the expected
// shape are dropped rather than failing the run.
package parser
