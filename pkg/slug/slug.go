package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Option configures slug generation.
type Option func(*config)

type config struct {
	maxLength     int
	separator     string
	customReplace map[string]string
}

func defaultConfig() *config {
	return &config{
		maxLength: 0, // no limit
		separator: "-",
	}
}

// MaxLength truncates the slug to at most n characters. Zero means no limit.
func MaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = n
	}
}

// Separator replaces the default "-" separator.
func Separator(s string) Option {
	return func(c *config) {
		c.separator = s
	}
}

// CustomReplace applies literal replacements before slugification,
// for example {"&": "and", "+": "plus"}.
func CustomReplace(replacements map[string]string) Option {
	return func(c *config) {
		c.customReplace = replacements
	}
}

// Fold strips combining marks so "é" becomes "e" and "ñ" becomes "n".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Make creates a slug from s.
func Make(s string, opts ...Option) string {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	for old, repl := range cfg.customReplace {
		s = strings.ReplaceAll(s, old, " "+repl+" ")
	}

	s = Fold(s)

	var b strings.Builder
	b.Grow(len(s))

	pendingSep := false
	for _, r := range s {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteString(cfg.separator)
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	out := b.String()
	if cfg.maxLength > 0 && len(out) > cfg.maxLength {
		out = strings.TrimRight(out[:cfg.maxLength], cfg.separator)
	}
	return out
}
