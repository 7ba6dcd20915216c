package manifest

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// IsUpgrade reports whether proposed has a strictly higher lower bound than
// existing. Ranges that cannot be parsed (git urls, tags, "*") are never
// replaced.
func IsUpgrade(existing, proposed string) bool {
	current, ok := lowerBound(existing)
	if !ok {
		return false
	}
	next, ok := lowerBound(proposed)
	if !ok {
		return false
	}
	return next.GreaterThan(current)
}

// lowerBound extracts the minimum version of an npm range ("^1.2.3",
// ">=1.0 <2") or a pip specifier ("==2.0", ">=1.4,<2").
func lowerBound(spec string) (*semver.Version, bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, false
	}

	first := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ' ' || r == ',' || r == '|'
	})
	if len(first) == 0 {
		return nil, false
	}

	raw := strings.TrimLeft(first[0], "^~=><!v")
	if raw == "" {
		return nil, false
	}

	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, false
	}
	return v, true
}
