package component

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SummaryExport is the export name holding the human-readable run summary.
const SummaryExport = "$summary"

// Runtime carries host settings shared by all steps.
type Runtime struct {
	// Redis enables response caching in app clients (optional).
	Redis *redis.Client

	// UserAgent sent by app clients.
	UserAgent string

	// MaxPages caps pagination sessions (0 = paginator default).
	MaxPages int

	// Timeout bounds each app API request (0 = client default).
	Timeout time.Duration
}

// Step is the context of one component run.
type Step struct {
	// Props are the configured property values.
	Props map[string]any

	// Auth holds the connected app account credentials.
	Auth map[string]any

	Runtime Runtime
	Logger  zerolog.Logger

	exports map[string]any
}

// NewStep creates a step for the given props and auth.
func NewStep(props, auth map[string]any) *Step {
	if props == nil {
		props = map[string]any{}
	}
	if auth == nil {
		auth = map[string]any{}
	}
	return &Step{
		Props:   props,
		Auth:    auth,
		Logger:  log.Logger,
		exports: map[string]any{},
	}
}

// Export records a named value on the step.
func (s *Step) Export(name string, value any) {
	if s.exports == nil {
		s.exports = map[string]any{}
	}
	s.exports[name] = value
}

// Exports returns a copy of the exported values.
func (s *Step) Exports() map[string]any {
	out := make(map[string]any, len(s.exports))
	for k, v := range s.exports {
		out[k] = v
	}
	return out
}

// Summary returns the exported summary, if any.
func (s *Step) Summary() string {
	summary, _ := s.exports[SummaryExport].(string)
	return summary
}

// BindProps decodes the props into dst and validates its `validate` tags.
func (s *Step) BindProps(dst any) error {
	return bind(s.Props, dst, "props")
}

// BindAuth decodes the auth into dst and validates its `validate` tags.
func (s *Step) BindAuth(dst any) error {
	return bind(s.Auth, dst, "auth")
}

func bind(src map[string]any, dst any, what string) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode %s: %w", what, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidProps, what, err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%s: %w", what, describe(err))
	}
	return nil
}
