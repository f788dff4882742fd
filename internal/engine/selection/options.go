package selection

import (
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// Option configures a Selection during creation.
type Option func(*Selection)

// WithLogger sets the logger used to report swallowed failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Selection) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNormalization normalizes inserted text to the given Unicode form
// before it is measured and stored.
func WithNormalization(form norm.Form) Option {
	return func(s *Selection) {
		s.normalize = form.String
	}
}
