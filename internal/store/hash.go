package store

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/avoronov/cryptomood/internal/util"
)

// ContentHash computes the stable identity of a document: sha256 over the
// normalized text (case-folded, diacritics stripped, whitespace collapsed)
// plus the source account. Reposts of the same text by the same account hash
// identically across cycles; the same text from a different account is a
// distinct document.
func ContentHash(text, account string) string {
	normalized := util.CollapseWhitespace(util.Fold(text))
	h := sha256.New()
	h.Write([]byte(normalized))
	h.Write([]byte{0})
	h.Write([]byte(util.Fold(account)))
	return hex.EncodeToString(h.Sum(nil))
}
