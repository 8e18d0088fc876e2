package reconciler

import (
	"github.com/agentstation/gamelib/pkg/errors"
	"github.com/agentstation/gamelib/pkg/library"
	"github.com/agentstation/gamelib/pkg/overrides"
)

// options configures a reconciler.
type options struct {
	resolver    *overrides.Resolver
	tracking    bool
	suggestions bool
	baseline    []library.CanonicalRecord // Previously synced library for comparison
}

func defaultOptions() *options {
	return &options{
		resolver:    overrides.NewResolver(overrides.Rules{}),
		tracking:    false,
		suggestions: true,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithOverrides sets the forced-merge and property-override rules.
func WithOverrides(resolver *overrides.Resolver) Option {
	return func(o *options) error {
		if resolver == nil {
			return &errors.ValidationError{
				Field:   "overrides",
				Message: "cannot be nil",
			}
		}
		o.resolver = resolver
		return nil
	}
}

// WithProvenance enables field-level tracking.
func WithProvenance(enabled bool) Option {
	return func(o *options) error {
		o.tracking = enabled
		return nil
	}
}

// WithSuggestions enables or disables the merge-suggestion report.
func WithSuggestions(enabled bool) Option {
	return func(o *options) error {
		o.suggestions = enabled
		return nil
	}
}

// WithBaseline sets the previously synced library to compare against for
// change detection.
func WithBaseline(baseline []library.CanonicalRecord) Option {
	return func(o *options) error {
		o.baseline = baseline
		return nil
	}
}
