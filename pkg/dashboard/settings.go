package dashboard

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultSettingsFile is the dashboard settings file read by AddSettingsFile.
const DefaultSettingsFile = "dashboardsettings.json"

type settingsOptions struct {
	optional       bool
	reloadOnChange bool
}

// SettingsOption customizes AddSettingsFile.
type SettingsOption func(*settingsOptions)

// WithOptional controls whether a missing file is tolerated. Defaults to true.
func WithOptional(optional bool) SettingsOption {
	return func(o *settingsOptions) {
		o.optional = optional
	}
}

// WithReloadOnChange controls whether the source re-reads the file when it
// changes on disk. Defaults to true.
func WithReloadOnChange(reload bool) SettingsOption {
	return func(o *settingsOptions) {
		o.reloadOnChange = reload
	}
}

// AddSettingsFile merges the settings file into source. An empty filename
// means DefaultSettingsFile; files without an extension are parsed as JSON.
// Environment variables override keys defined by the file, with the key
// delimiter replaced by a double underscore (DASHBOARD__TIMEOUTSECONDS). A
// list override such as DASHBOARD__ENVIRONMENTORDER=PROD,UAT is split on
// commas; environment names containing a comma cannot be overridden this way.
//
// Reloading only refreshes source; callers call Load again to see the new
// values. Store.Watch does both and starts its own watcher.
func AddSettingsFile(source *viper.Viper, filename string, opts ...SettingsOption) error {
	if source == nil {
		return &ArgumentError{Param: "source"}
	}

	o := settingsOptions{
		optional:       true,
		reloadOnChange: true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if filename == "" {
		filename = DefaultSettingsFile
	}

	source.SetConfigFile(filename)
	if filepath.Ext(filename) == "" {
		source.SetConfigType("json")
	}

	source.SetEnvKeyReplacer(strings.NewReplacer(KeyDelimiter, "__", ".", "__"))
	source.AutomaticEnv()

	if err := source.MergeInConfig(); err != nil {
		if !o.optional || !isNotFound(err) {
			return fmt.Errorf("read dashboard settings %q: %w", filename, err)
		}
	}

	if o.reloadOnChange {
		source.WatchConfig()
	}

	return nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
