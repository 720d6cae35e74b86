// Package textnorm provides accent-insensitive string normalization for
// matching user input against Spanish vocabularies.
package textnorm

import "strings"

var accentFolder = strings.NewReplacer(
	"á", "a",
	"é", "e",
	"í", "i",
	"ó", "o",
	"ú", "u",
	"ñ", "n",
	"ü", "u",
)

// Normalize lowercases s and folds the Spanish diacritics (á é í ó ú ñ ü)
// to their base letters. It is pure and idempotent.
func Normalize(s string) string {
	return accentFolder.Replace(strings.ToLower(s))
}
