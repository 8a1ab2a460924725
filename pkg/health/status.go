package health

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the health of a service. The numeric values are part of the
// contract and must not change.
type Status int

const (
	StatusHealthy   Status = 0 // operating normally
	StatusDegraded  Status = 1 // operational with reduced performance or functionality
	StatusUnhealthy Status = 2 // not operating correctly
)

var statusTokens = [...]string{
	StatusHealthy:   "healthy",
	StatusDegraded:  "degraded",
	StatusUnhealthy: "unhealthy",
}

// Statuses returns every defined status in numeric order.
func Statuses() []Status {
	return []Status{StatusHealthy, StatusDegraded, StatusUnhealthy}
}

func (s Status) IsValid() bool {
	return s >= StatusHealthy && s <= StatusUnhealthy
}

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "Healthy"
	case StatusDegraded:
		return "Degraded"
	case StatusUnhealthy:
		return "Unhealthy"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ParseStatus parses a status token. Matching ignores case, so "Degraded"
// and "degraded" are the same status.
func ParseStatus(token string) (Status, error) {
	for _, s := range Statuses() {
		if strings.EqualFold(token, statusTokens[s]) {
			return s, nil
		}
	}

	return 0, fmt.Errorf("unknown health status %q", token)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid health status %d", int(s))
	}

	return []byte(statusTokens[s]), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}

// UnmarshalJSON accepts a status token or its numeric value.
func (s *Status) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var token string
		if err := json.Unmarshal(data, &token); err != nil {
			return err
		}
		return s.UnmarshalText([]byte(token))
	}

	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid health status %s", data)
	}

	status := Status(n)
	if !status.IsValid() {
		return fmt.Errorf("invalid health status %d", n)
	}

	*s = status
	return nil
}
