package dashboard

import (
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ServiceEndpoint is one monitored service. The zero TimeoutSeconds means the
// configuration-wide timeout applies.
type ServiceEndpoint struct {
	Name           string `json:"name"`
	Environment    string `json:"environment"`
	HealthCheckURL string `json:"healthCheckUrl"`
	Description    string `json:"description,omitempty"`
	Enabled        bool   `json:"enabled"`
	TimeoutSeconds int    `json:"timeoutSeconds,omitempty"`
}

// EndpointOption customizes a ServiceEndpoint built by NewServiceEndpoint.
type EndpointOption func(*ServiceEndpoint)

// WithDescription sets the free-text description.
func WithDescription(description string) EndpointOption {
	return func(s *ServiceEndpoint) {
		s.Description = description
	}
}

// WithEnabled overrides the default enabled state.
func WithEnabled(enabled bool) EndpointOption {
	return func(s *ServiceEndpoint) {
		s.Enabled = enabled
	}
}

// WithServiceTimeout overrides the configuration-wide timeout for this service.
func WithServiceTimeout(seconds int) EndpointOption {
	return func(s *ServiceEndpoint) {
		s.TimeoutSeconds = seconds
	}
}

// NewServiceEndpoint returns an enabled endpoint with no timeout override.
func NewServiceEndpoint(name, environment, healthCheckURL string, opts ...EndpointOption) ServiceEndpoint {
	s := ServiceEndpoint{
		Name:           name,
		Environment:    environment,
		HealthCheckURL: healthCheckURL,
		Enabled:        true,
	}

	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// HasTimeout reports whether the service overrides the default timeout.
func (s ServiceEndpoint) HasTimeout() bool {
	return s.TimeoutSeconds > 0
}

// EffectiveTimeout returns the service's own timeout, or defaultSeconds when
// the service does not set one.
func (s ServiceEndpoint) EffectiveTimeout(defaultSeconds int) time.Duration {
	if s.HasTimeout() {
		return time.Duration(s.TimeoutSeconds) * time.Second
	}

	return time.Duration(defaultSeconds) * time.Second
}

// Validate requires name, environment and health check URL. The URL is not parsed.
func (s ServiceEndpoint) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Environment, validation.Required),
		validation.Field(&s.HealthCheckURL, validation.Required),
		validation.Field(&s.TimeoutSeconds, validation.Min(0)),
	)
}

// UnmarshalJSON decodes an endpoint, treating a missing "enabled" as true.
func (s *ServiceEndpoint) UnmarshalJSON(data []byte) error {
	type plain ServiceEndpoint

	decoded := plain{Enabled: true}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	*s = ServiceEndpoint(decoded)
	return nil
}
