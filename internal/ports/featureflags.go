package ports

import (
	"context"
)

// Known feature flag names.
const (
	// FlagPublishNewQuotes enables posting newly added quotes to the remote source.
	FlagPublishNewQuotes = "publish-new-quotes"
)

// FeatureFlags defines the contract for feature flag evaluation.
// Callers always pass a default so a missing flag degrades gracefully.
//
//	if flags.IsEnabled(ctx, ports.FlagPublishNewQuotes, false) {
//	    go s.publish(ctx, quote)
//	}
type FeatureFlags interface {
	// IsEnabled checks if a boolean feature flag is enabled.
	// Returns defaultValue if the flag doesn't exist.
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool

	// Flags returns a snapshot of every known flag and its value.
	Flags(ctx context.Context) map[string]bool
}
