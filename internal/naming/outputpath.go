package naming

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/backmassage/themis/internal/config"
	"github.com/backmassage/themis/internal/profile"
)

// ErrOutputPathUnresolved is returned when neither an explicit output path
// nor an output directory with a usable base name is configured.
var ErrOutputPathUnresolved = errors.New("output path unresolved")

// OutputPath returns the file a job writes for input.
//
//	explicit:  settings.OutputPath as given
//	derived:   <OutputDir>/<BaseName or input stem>.<container extension>
func OutputPath(s *config.Settings, input string) (string, error) {
	if s.OutputPath != "" {
		return filepath.Clean(s.OutputPath), nil
	}
	if s.OutputDir == "" {
		return "", ErrOutputPathUnresolved
	}
	base := s.BaseName
	if base == "" {
		base = Stem(input)
	}
	if base == "" || strings.ContainsRune(base, filepath.Separator) {
		return "", ErrOutputPathUnresolved
	}
	return filepath.Join(s.OutputDir, base+"."+profile.Extension(s.Container)), nil
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
