// Package dashboard holds the configuration model of the observability dashboard:
// the monitored service endpoints, the refresh interval, the default health check
// timeout and the optional environment display order.
//
// A Configuration is an immutable value. It is bound from a path-addressable
// configuration source (a *viper.Viper) by Load, which falls back to
// DefaultConfiguration when the section is missing. Environments derives the
// de-duplicated display order of the environments found in the services.
//
// Usage:
//
//	source := dashboard.NewSource()
//	if err := dashboard.AddSettingsFile(source, "", dashboard.WithReloadOnChange(false)); err != nil {
//	    return err
//	}
//	cfg, err := dashboard.Load(source)
//	if err != nil {
//	    return err
//	}
//	for _, env := range cfg.Environments() {
//	    // render one column per environment
//	}
package dashboard
