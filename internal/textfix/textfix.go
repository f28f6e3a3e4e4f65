// Package textfix repairs mis-decoded text from point-of-sale exports
// that were produced as UTF-8 but read as Windows-1252 somewhere
// upstream ("GASOLINERÃA" and friends). It is a best-effort,
// clearly-scoped cleanup over free-form string cells; it never touches
// numeric data.
package textfix

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Known double-decoded sequences. Two-rune victims are listed before
// anything that could match their first rune.
var replacer = strings.NewReplacer(
	"Ã¡", "á",
	"Ã©", "é",
	"Ã­", "í",
	"Ã³", "ó",
	"Ãº", "ú",
	"Ã¼", "ü",
	"Ã±", "ñ",
	"Ã", "Á",
	"Ã‰", "É",
	"Ã", "Í",
	"Ã“", "Ó",
	"Ãš", "Ú",
	"Ã‘", "Ñ",
	"Â°", "°",
	"Âº", "º",
	"Â¿", "¿",
)

// Repair returns s with known mojibake sequences substituted. If the
// result still looks double-decoded, it attempts a full Windows-1252
// round-trip and keeps it only when that yields valid UTF-8.
func Repair(s string) string {
	if s == "" {
		return s
	}
	fixed := replacer.Replace(s)
	if !strings.ContainsRune(fixed, 'Ã') {
		return fixed
	}
	if re, ok := reencode(fixed); ok {
		return re
	}
	return fixed
}

// reencode maps the string's runes back to their Windows-1252 bytes and
// reinterprets those bytes as UTF-8.
func reencode(s string) (string, bool) {
	b, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil {
		return s, false
	}
	if b != s && utf8.ValidString(b) {
		return b, true
	}
	return s, false
}
