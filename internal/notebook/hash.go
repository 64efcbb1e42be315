package notebook

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// DomainNotebook is the domain prefix for SourceHash. The version suffix
// allows the hashed form to change without colliding with old journal rows.
const DomainNotebook = "cellpatch/notebook/v1"

// SourceHash computes a content-addressed identity for the document's cells.
//
// Only cell types and sources participate, NFC-normalized, so two files that
// differ in indentation, key order, source style, or Unicode composition hash
// the same. Format: SHA256(domain + 0x00 + cells), each cell written as
// type 0x1f source 0x1e.
func SourceHash(doc *Document) string {
	h := sha256.New()
	h.Write([]byte(DomainNotebook))
	h.Write([]byte{0x00})
	for _, c := range doc.Cells {
		h.Write([]byte(norm.NFC.String(c.Type)))
		h.Write([]byte{0x1f})
		h.Write([]byte(norm.NFC.String(c.Source)))
		h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil))
}
