// Package options provides shared utilities for option validation across packages.
package options

import "github.com/erraggy/bcdtools/bcderrors"

// ValidateSingleInputSource ensures exactly one input source is specified.
// sources lists whether each candidate source was set. The returned error is
// a *bcderrors.ConfigError carrying noSourceMsg or multiSourceMsg.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	count := 0
	for _, set := range sources {
		if set {
			count++
		}
	}

	switch {
	case count == 0:
		return &bcderrors.ConfigError{Option: "input", Message: noSourceMsg}
	case count > 1:
		return &bcderrors.ConfigError{Option: "input", Value: count, Message: multiSourceMsg}
	default:
		return nil
	}
}
