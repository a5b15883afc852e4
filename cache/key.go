package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// KeyPrefix namespaces every cache key so that entries never collide with
// unrelated data in a shared Redis instance.
const KeyPrefix = "sanskrit_parse:"

// keyHashLen is the number of hex characters kept from the content digest.
// 16 chars (64 bits) keeps keys short while leaving collisions negligible
// for corpus-sized keyspaces.
const keyHashLen = 16

// DeriveKey maps content to its cache key: KeyPrefix plus the first 16 hex
// characters of the SHA-256 digest of the UTF-8 encoded content.
//
// The mapping is byte-exact: content that differs only in whitespace yields
// a different key. A false miss costs one redundant parse; a false hit would
// return the wrong verse, so no normalization is applied.
func DeriveKey(content string) string {
	sum := sha256.Sum256([]byte(content))
	return KeyPrefix + hex.EncodeToString(sum[:])[:keyHashLen]
}
