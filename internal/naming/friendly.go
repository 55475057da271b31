package naming

import (
	"strings"

	"github.com/backmassage/themis/internal/config"
)

var sepReplacer = strings.NewReplacer(".", " ", "_", " ")

// FriendlyName returns the prefix used for a job's status messages:
// the configured friendly name, the base name, or the cleaned input stem.
func FriendlyName(s *config.Settings, input string) string {
	if s.FriendlyName != "" {
		return s.FriendlyName
	}
	if s.BaseName != "" {
		return s.BaseName
	}
	if name := cleanName(Stem(input)); name != "" {
		return name
	}
	return input
}

// cleanName turns dots and underscores into spaces and trims trailing
// separators.
func cleanName(s string) string {
	s = sepReplacer.Replace(s)
	s = strings.TrimRight(s, " -")
	return strings.Join(strings.Fields(s), " ")
}
