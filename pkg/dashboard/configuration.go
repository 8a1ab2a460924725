package dashboard

import (
	"encoding/json"
	"slices"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultRefreshIntervalSeconds = 30
	DefaultTimeoutSeconds         = 5
)

// Configuration describes the services shown on the dashboard. Values are
// never mutated after construction; a reload produces a new Configuration.
type Configuration struct {
	Services               []ServiceEndpoint `json:"services"`
	RefreshIntervalSeconds int               `json:"refreshIntervalSeconds"`
	TimeoutSeconds         int               `json:"timeoutSeconds"`
	// EnvironmentOrder is nil when no display order is configured.
	EnvironmentOrder []string `json:"environmentOrder,omitempty"`
}

// Option customizes a Configuration built by New.
type Option func(*Configuration)

// WithRefreshInterval sets how often the dashboard refreshes, in seconds.
func WithRefreshInterval(seconds int) Option {
	return func(c *Configuration) {
		c.RefreshIntervalSeconds = seconds
	}
}

// WithTimeout sets the default health check timeout, in seconds.
func WithTimeout(seconds int) Option {
	return func(c *Configuration) {
		c.TimeoutSeconds = seconds
	}
}

// WithEnvironmentOrder sets the display order. Environments that are not
// listed are shown after the listed ones, alphabetically.
func WithEnvironmentOrder(order ...string) Option {
	return func(c *Configuration) {
		c.EnvironmentOrder = slices.Clone(order)
	}
}

// New builds a Configuration from a copy of services with default refresh
// interval and timeout.
func New(services []ServiceEndpoint, opts ...Option) Configuration {
	c := Configuration{
		Services:               slices.Clone(services),
		RefreshIntervalSeconds: DefaultRefreshIntervalSeconds,
		TimeoutSeconds:         DefaultTimeoutSeconds,
	}
	if c.Services == nil {
		c.Services = []ServiceEndpoint{}
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// DefaultConfiguration is the configuration used when no dashboard section
// exists: no services, 30s refresh, 5s timeout, no environment order.
func DefaultConfiguration() Configuration {
	return Configuration{
		Services:               []ServiceEndpoint{},
		RefreshIntervalSeconds: DefaultRefreshIntervalSeconds,
		TimeoutSeconds:         DefaultTimeoutSeconds,
	}
}

// Clone returns a deep copy of c.
func (c Configuration) Clone() Configuration {
	clone := c
	clone.Services = slices.Clone(c.Services)
	clone.EnvironmentOrder = slices.Clone(c.EnvironmentOrder)
	return clone
}

// Equal reports structural equality. A nil and an empty EnvironmentOrder are
// equal since both mean "alphabetical".
func (c Configuration) Equal(other Configuration) bool {
	return c.RefreshIntervalSeconds == other.RefreshIntervalSeconds &&
		c.TimeoutSeconds == other.TimeoutSeconds &&
		slices.Equal(c.Services, other.Services) &&
		slices.Equal(c.EnvironmentOrder, other.EnvironmentOrder)
}

// TimeoutFor returns the health check timeout that applies to s.
func (c Configuration) TimeoutFor(s ServiceEndpoint) time.Duration {
	return s.EffectiveTimeout(c.TimeoutSeconds)
}

// RefreshInterval returns RefreshIntervalSeconds as a duration.
func (c Configuration) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// EnabledServices returns the enabled services in configuration order.
func (c Configuration) EnabledServices() []ServiceEndpoint {
	enabled := make([]ServiceEndpoint, 0, len(c.Services))
	for _, s := range c.Services {
		if s.Enabled {
			enabled = append(enabled, s)
		}
	}
	return enabled
}

// Validate checks every service and requires positive refresh interval and
// timeout. Environment order entries must not be empty.
func (c Configuration) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Services),
		validation.Field(&c.RefreshIntervalSeconds, validation.Required, validation.Min(1)),
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1)),
		validation.Field(&c.EnvironmentOrder, validation.Each(validation.Required)),
	)
}

// UnmarshalJSON decodes a configuration, applying the same defaults as Load.
func (c *Configuration) UnmarshalJSON(data []byte) error {
	type plain Configuration

	decoded := plain{
		RefreshIntervalSeconds: DefaultRefreshIntervalSeconds,
		TimeoutSeconds:         DefaultTimeoutSeconds,
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if decoded.Services == nil {
		decoded.Services = []ServiceEndpoint{}
	}

	*c = Configuration(decoded)
	return nil
}
