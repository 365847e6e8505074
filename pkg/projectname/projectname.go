package projectname

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
)

var adjectives = []string{
	"brave", "calm", "eager", "gentle", "happy", "jolly", "kind", "lively",
	"proud", "witty", "mighty", "swift", "sharp", "bold", "daring", "bright",
	"dynamic", "vibrant", "radiant", "steadfast", "graceful", "focused", "robust", "agile",
	"clever", "cosmic", "crisp", "curious", "elegant", "epic", "fearless", "golden",
	"humble", "lucid", "modern", "noble", "quick", "serene", "sleek", "stellar",
	"sunny", "tidy", "trusty", "vivid", "warm", "wise", "zesty", "zippy",
}

var nouns = []string{
	"otter", "falcon", "panda", "koala", "whale", "wolf", "fox", "owl",
	"lynx", "bison", "heron", "beaver", "badger", "gecko", "crane", "raven",
	"tapir", "quokka", "walrus", "wombat", "narwhal", "octopus", "ocelot", "orca",
	"osprey", "pelican", "penguin", "puma", "robin", "salmon", "sparrow", "toucan",
	"comet", "canyon", "harbor", "meadow", "summit", "river", "glacier", "forest",
	"lagoon", "prairie", "reef", "tundra", "delta", "mesa", "fjord", "atoll",
}

// maxAttempts bounds retries when a Validator keeps rejecting candidates.
const maxAttempts = 100

// Options configures Generate.
type Options struct {
	// Separator joins words. Default "-".
	Separator string
	// Suffix appends a 6 character hex suffix, e.g. "brave-otter-a3f21b".
	Suffix bool
	// Validator rejects candidates, e.g. names already taken.
	Validator func(name string) bool
}

// Generate returns an "adjective-noun" name that is a valid npm package name.
// With a Validator it retries up to 100 times and returns the last candidate
// with a suffix if every attempt was rejected.
func Generate(opts *Options) string {
	o := Options{Separator: "-"}
	if opts != nil {
		o = *opts
		if o.Separator == "" {
			o.Separator = "-"
		}
	}

	var name string
	for range maxAttempts {
		name = candidate(o.Separator, o.Suffix)
		if o.Validator == nil || o.Validator(name) {
			return name
		}
	}
	return candidate(o.Separator, true)
}

// Simple returns a name such as "brave-otter".
func Simple() string {
	return Generate(nil)
}

// WithSuffix returns a name such as "brave-otter-a3f21b".
func WithSuffix() string {
	return Generate(&Options{Suffix: true})
}

func candidate(sep string, suffix bool) string {
	parts := []string{pick(adjectives), pick(nouns)}
	if suffix {
		parts = append(parts, fmt.Sprintf("%06x", random()&0xffffff))
	}
	return strings.Join(parts, sep)
}

func pick(words []string) string {
	return words[random()%uint64(len(words))]
}

func random() uint64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}
