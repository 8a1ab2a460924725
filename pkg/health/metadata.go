package health

import (
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Metadata is the document a service returns from its health endpoint.
type Metadata struct {
	// ServiceName and Version are required. Version can be a semantic
	// version, a branch name or a commit hash.
	ServiceName string `json:"serviceName"`
	Version     string `json:"version"`
	Environment string `json:"environment,omitempty"`
	Status      Status `json:"status"`
	// Timestamp is when the report was captured.
	Timestamp          time.Time         `json:"timestamp"`
	AdditionalMetadata map[string]string `json:"additionalMetadata,omitempty"`
	Description        string            `json:"description,omitempty"`
	HostName           string            `json:"hostName,omitempty"`
	Uptime             *Duration         `json:"uptime,omitempty"`
}

// Duration is a time.Duration written as a Go duration string, e.g. "26h30m0s".
// On input the [-][d.]hh:mm:ss[.fffffff] form ("1.02:30:00") is accepted too.
type Duration time.Duration

var timeSpanPattern = regexp.MustCompile(`^(-)?(?:(\d+)\.)?(\d{1,2}):(\d{1,2}):(\d{1,2})(?:\.(\d{1,7}))?$`)

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		var ok bool
		if parsed, ok = parseTimeSpan(string(text)); !ok {
			return fmt.Errorf("invalid duration %q: %w", text, err)
		}
	}

	*d = Duration(parsed)
	return nil
}

// parseTimeSpan parses days.hours:minutes:seconds.fraction, where the fraction
// has at most seven digits (100ns ticks).
func parseTimeSpan(s string) (time.Duration, bool) {
	m := timeSpanPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	var days int64
	if m[2] != "" {
		n, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return 0, false
		}
		days = n
	}

	hours, _ := strconv.ParseInt(m[3], 10, 64)
	minutes, _ := strconv.ParseInt(m[4], 10, 64)
	seconds, _ := strconv.ParseInt(m[5], 10, 64)
	if hours > 23 || minutes > 59 || seconds > 59 {
		return 0, false
	}

	var nanos int64
	if m[6] != "" {
		frac := m[6] + "000000000"[:9-len(m[6])]
		nanos, _ = strconv.ParseInt(frac, 10, 64)
	}

	d := time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(nanos)
	if m[1] == "-" {
		d = -d
	}

	return d, true
}

// MetadataOption customizes Metadata built by NewMetadata.
type MetadataOption func(*Metadata)

func WithEnvironment(environment string) MetadataOption {
	return func(m *Metadata) {
		m.Environment = environment
	}
}

func WithStatus(status Status) MetadataOption {
	return func(m *Metadata) {
		m.Status = status
	}
}

// WithTimestamp replaces the capture time.
func WithTimestamp(t time.Time) MetadataOption {
	return func(m *Metadata) {
		m.Timestamp = t
	}
}

// WithAdditionalMetadata adds a copy of values to the report.
func WithAdditionalMetadata(values map[string]string) MetadataOption {
	return func(m *Metadata) {
		if len(values) == 0 {
			return
		}
		if m.AdditionalMetadata == nil {
			m.AdditionalMetadata = make(map[string]string, len(values))
		}
		maps.Copy(m.AdditionalMetadata, values)
	}
}

func WithDescription(description string) MetadataOption {
	return func(m *Metadata) {
		m.Description = description
	}
}

func WithHostName(hostName string) MetadataOption {
	return func(m *Metadata) {
		m.HostName = hostName
	}
}

func WithUptime(uptime time.Duration) MetadataOption {
	return func(m *Metadata) {
		d := Duration(uptime)
		m.Uptime = &d
	}
}

// NewMetadata returns a healthy report captured now, in UTC.
func NewMetadata(serviceName, version string, opts ...MetadataOption) Metadata {
	m := Metadata{
		ServiceName: serviceName,
		Version:     version,
		Status:      StatusHealthy,
		Timestamp:   time.Now().UTC(),
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

// Validate checks the required fields and that the status is defined.
func (m Metadata) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ServiceName, validation.Required),
		validation.Field(&m.Version, validation.Required),
		validation.Field(&m.Status, validation.By(func(value interface{}) error {
			status, ok := value.(Status)
			if !ok || !status.IsValid() {
				return validation.NewError("validation_invalid_status", "must be healthy, degraded or unhealthy")
			}
			return nil
		})),
		validation.Field(&m.Timestamp, validation.Required),
	)
}

// Equal reports structural equality. Timestamps are compared as instants.
func (m Metadata) Equal(other Metadata) bool {
	if (m.Uptime == nil) != (other.Uptime == nil) {
		return false
	}
	if m.Uptime != nil && *m.Uptime != *other.Uptime {
		return false
	}

	return m.ServiceName == other.ServiceName &&
		m.Version == other.Version &&
		m.Environment == other.Environment &&
		m.Status == other.Status &&
		m.Timestamp.Equal(other.Timestamp) &&
		maps.Equal(m.AdditionalMetadata, other.AdditionalMetadata) &&
		m.Description == other.Description &&
		m.HostName == other.HostName
}

// UnmarshalJSON decodes a report. A missing status means healthy and a
// missing timestamp means the time of decoding, in UTC.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	type plain Metadata

	decoded := plain{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC(),
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	*m = Metadata(decoded)
	return nil
}
