// Package pagekey derives the document key of a page from its locale and path.
package pagekey

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// Key returns the hex SHA-1 of "locale|path|", the hash the page database stores for a
// public page. Leading and trailing slashes of path are ignored.
func Key(locale, path string) string {
	normalized := strings.Trim(path, "/")
	sum := sha1.Sum([]byte(locale + "|" + normalized + "|"))
	return hex.EncodeToString(sum[:])
}
