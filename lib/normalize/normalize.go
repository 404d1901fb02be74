// Package normalize canonicalizes message text before classification. Normalization is pure and total:
// the same input always gives the same output, and text padded with lookalike letters from other
// scripts, fullwidth forms, zero-width characters or odd spacing maps to the same string as its plain form.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Options defines optional cleanup steps, both off by default
type Options struct {
	StripLinks   bool // remove http(s) links
	StripSymbols bool // replace everything except letters, digits and spaces with a space
}

// Normalizer applies normalization with the given options, safe for concurrent use.
type Normalizer struct {
	opts Options
}

var linkRe = regexp.MustCompile(`https?://\S+|www\.\S+`)

// New makes a Normalizer with options
func New(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

// Normalize applies the default normalization without optional steps
func Normalize(raw string) string {
	return (&Normalizer{}).Normalize(raw)
}

// Normalize returns canonical form of raw text. Steps are:
// NFKC compatibility composition, case folding, optional link and symbol removal,
// dropping format characters, collapsing whitespace and folding homoglyphs to cyrillic in
// words which have cyrillic letters or consist of lookalike letters only.
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	// caser is stateful and can't be shared between goroutines
	text := cases.Fold().String(norm.NFKC.String(raw))

	if n.opts.StripLinks {
		text = linkRe.ReplaceAllString(text, " ")
	}

	var sb strings.Builder
	sb.Grow(len(text))
	space := false // pending separator
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Cf, r):
			continue
		case unicode.IsSpace(r) || unicode.IsControl(r):
			space = true
			continue
		case n.opts.StripSymbols && !unicode.IsLetter(r) && !unicode.IsDigit(r):
			space = true
			continue
		}
		if space && sb.Len() > 0 {
			sb.WriteRune(' ')
		}
		space = false
		sb.WriteRune(r)
	}

	words := strings.Split(sb.String(), " ")
	for i, w := range words {
		if foldable(w) {
			words[i] = foldWord(w)
		}
	}
	return strings.Join(words, " ")
}

// foldable reports whether lookalike letters of the word should be folded to cyrillic.
// True for words with at least one cyrillic letter, and for words made of lookalike letters only.
func foldable(word string) bool {
	letters, lookalikes := 0, 0
	for _, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
		letters++
		if _, ok := homoglyphs[r]; ok {
			lookalikes++
		}
	}
	return letters > 0 && letters == lookalikes
}

func foldWord(word string) string {
	return strings.Map(func(r rune) rune {
		if c, ok := homoglyphs[r]; ok {
			return c
		}
		return r
	}, word)
}
