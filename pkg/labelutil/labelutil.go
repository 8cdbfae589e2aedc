// Package labelutil validates retention labels and snapshot name prefixes.
package labelutil

import (
	"regexp"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/migmedia/zfs-snappers/pkg/errclass"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidateLabel checks a retention label such as "hourly" or "daily".
// Labels end up inside snapshot names and in property lookups, so the
// character set is restricted.
func ValidateLabel(label string) error {
	return validate("label", label)
}

// ValidatePrefix checks a snapshot name prefix.
func ValidatePrefix(prefix string) error {
	return validate("prefix", prefix)
}

func validate(kind, name string) error {
	if name == "" {
		return errclass.ErrLabelInvalid.WithMessagef("%s must not be empty", kind)
	}

	// NFC normalize
	name = norm.NFC.String(name)

	for _, r := range name {
		if unicode.IsControl(r) {
			return errclass.ErrLabelInvalid.WithMessagef("%s must not contain control characters: %q", kind, name)
		}
	}

	if !nameRegex.MatchString(name) {
		return errclass.ErrLabelInvalid.WithMessagef("%s must match [a-zA-Z0-9._-]+: %s", kind, name)
	}

	return nil
}
