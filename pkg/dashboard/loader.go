package dashboard

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	DefaultSectionName = "Dashboard"

	// KeyDelimiter separates the segments of a configuration path, as in
	// "Dashboard:Services:0:Name".
	KeyDelimiter = ":"
)

type serviceBinding struct {
	Name           string `mapstructure:"name"`
	Environment    string `mapstructure:"environment"`
	HealthCheckURL string `mapstructure:"healthCheckUrl"`
	Description    string `mapstructure:"description"`
	Enabled        *bool  `mapstructure:"enabled"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
}

type configurationBinding struct {
	Services               []serviceBinding `mapstructure:"services"`
	RefreshIntervalSeconds int              `mapstructure:"refreshIntervalSeconds"`
	TimeoutSeconds         int              `mapstructure:"timeoutSeconds"`
	EnvironmentOrder       []string         `mapstructure:"environmentOrder"`
}

// NewSource returns an empty configuration source whose keys use KeyDelimiter.
func NewSource() *viper.Viper {
	return viper.NewWithOptions(viper.KeyDelimiter(KeyDelimiter))
}

// Load reads the DefaultSectionName section of source. See LoadSection.
func Load(source *viper.Viper) (Configuration, error) {
	return LoadSection(source, DefaultSectionName)
}

// LoadSection binds the named section of source into a Configuration. An
// empty section name means DefaultSectionName. When the section has no keys
// at all, DefaultConfiguration is returned. Fields missing from a present
// section take their declared defaults. Values that cannot be converted to
// the field type, and configurations that fail validation, are errors.
//
// A list given as a single string is split on commas, so an EnvironmentOrder
// scalar cannot name an environment containing a comma. Such names must be
// given as list entries (EnvironmentOrder:0, a JSON array).
func LoadSection(source *viper.Viper, section string) (Configuration, error) {
	if source == nil {
		return Configuration{}, &ArgumentError{Param: "source"}
	}

	if section == "" {
		section = DefaultSectionName
	}

	raw, found := lookupSection(source.AllSettings(), section)
	if !found {
		return DefaultConfiguration(), nil
	}

	binding := configurationBinding{
		RefreshIntervalSeconds: DefaultRefreshIntervalSeconds,
		TimeoutSeconds:         DefaultTimeoutSeconds,
	}
	if err := decode(raw, &binding); err != nil {
		return Configuration{}, fmt.Errorf("bind dashboard section %q: %w", section, err)
	}

	cfg := binding.configuration()
	if err := cfg.Validate(); err != nil {
		return Configuration{}, fmt.Errorf("invalid dashboard section %q: %w", section, err)
	}

	return cfg, nil
}

func (b configurationBinding) configuration() Configuration {
	services := make([]ServiceEndpoint, 0, len(b.Services))
	for _, s := range b.Services {
		enabled := true
		if s.Enabled != nil {
			enabled = *s.Enabled
		}

		services = append(services, ServiceEndpoint{
			Name:           s.Name,
			Environment:    s.Environment,
			HealthCheckURL: s.HealthCheckURL,
			Description:    s.Description,
			Enabled:        enabled,
			TimeoutSeconds: s.TimeoutSeconds,
		})
	}

	return Configuration{
		Services:               services,
		RefreshIntervalSeconds: b.RefreshIntervalSeconds,
		TimeoutSeconds:         b.TimeoutSeconds,
		EnvironmentOrder:       b.EnvironmentOrder,
	}
}

// lookupSection walks settings along the section path. Keys are matched
// case-insensitively. A path that leads nowhere, or to an empty map, is absent.
func lookupSection(settings map[string]any, section string) (any, bool) {
	var current any = settings

	for _, segment := range strings.Split(section, KeyDelimiter) {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		next, ok := m[strings.ToLower(segment)]
		if !ok {
			for k, v := range m {
				if strings.EqualFold(k, segment) {
					next, ok = v, true
					break
				}
			}
		}
		if !ok {
			return nil, false
		}

		current = next
	}

	switch v := current.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return v, len(v) > 0
	default:
		return v, true
	}
}

func decode(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			indexedMapToSliceHook,
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}

// indexedMapToSliceHook turns {"0": a, "1": b} into [a, b] when the target is a
// slice. Flat key/value sources such as environment variables and overrides
// describe lists this way.
func indexedMapToSliceHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Map || to.Kind() != reflect.Slice {
		return data, nil
	}

	m, ok := data.(map[string]any)
	if !ok || len(m) == 0 {
		return data, nil
	}

	type entry struct {
		index int
		value any
	}

	entries := make([]entry, 0, len(m))
	for k, v := range m {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 {
			return data, nil
		}
		entries = append(entries, entry{index: i, value: v})
	}

	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Compare(a.index, b.index)
	})

	values := make([]any, len(entries))
	for i, e := range entries {
		values[i] = e.value
	}

	return values, nil
}
