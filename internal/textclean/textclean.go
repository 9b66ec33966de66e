// Package textclean normalizes the raw text fields returned by the news feed and the video platform.
package textclean

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Ellipsis marks a truncated description.
const Ellipsis = "..."

var nonASCII = regexp.MustCompile(`[^\x00-\x7F]+`)

// ASCII folds accented letters to their base form and replaces every remaining
// run of non-ASCII characters with a single space. Meaning carried only by
// non-Latin scripts or emoji is lost.
func ASCII(s string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, s)
	if err != nil {
		folded = s
	}
	return nonASCII.ReplaceAllString(folded, " ")
}

// Truncate cuts s to max runes and appends Ellipsis when anything was removed.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + Ellipsis
}

// StripHTML returns the visible text of an HTML fragment. Line breaks become spaces.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	doc.Find("br").ReplaceWithHtml(" ")
	return strings.Join(strings.Fields(doc.Text()), " ")
}
