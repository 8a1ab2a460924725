package dashboard

import (
	"log/slog"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Observer is notified after every load attempt. err is nil when cfg was
// accepted as the current configuration.
type Observer interface {
	ObserveLoad(cfg Configuration, err error)
}

// Store holds the current Configuration of a process. A reload replaces the
// whole value; readers never see a partially updated configuration.
type Store struct {
	mutex     sync.RWMutex
	current   Configuration
	source    *viper.Viper
	section   string
	logger    *slog.Logger
	observers []Observer
}

// NewStore loads section from source and returns a store holding the result.
func NewStore(source *viper.Viper, section string, logger *slog.Logger, observers ...Observer) (*Store, error) {
	if source == nil {
		return nil, &ArgumentError{Param: "source"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		source:    source,
		section:   section,
		logger:    logger,
		observers: observers,
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}

	return s, nil
}

// Current returns a copy of the configuration loaded last.
func (s *Store) Current() Configuration {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.current.Clone()
}

// Reload loads the section again. On failure the previous configuration
// stays current.
func (s *Store) Reload() error {
	cfg, err := LoadSection(s.source, s.section)
	for _, o := range s.observers {
		o.ObserveLoad(cfg, err)
	}

	if err != nil {
		s.logger.Error("failed to load dashboard configuration",
			slog.String("section", s.sectionName()),
			slog.String("error", err.Error()))
		return err
	}

	s.mutex.Lock()
	s.current = cfg
	s.mutex.Unlock()

	s.logger.Info("loaded dashboard configuration",
		slog.String("section", s.sectionName()),
		slog.Int("services", len(cfg.Services)),
		slog.Any("environments", cfg.Environments()))

	return nil
}

// Watch starts watching the settings file of the source and reloads the
// store on every change. The callback is registered before the watcher
// starts, so sources passed to Watch should be set up with
// WithReloadOnChange(false) to avoid a second watcher.
func (s *Store) Watch() {
	s.source.OnConfigChange(func(event fsnotify.Event) {
		s.logger.Info("dashboard settings changed",
			slog.String("file", event.Name),
			slog.String("op", event.Op.String()))

		// The previous configuration stays current on failure; Reload logs it.
		_ = s.Reload()
	})
	s.source.WatchConfig()
}

func (s *Store) sectionName() string {
	if s.section == "" {
		return DefaultSectionName
	}
	return s.section
}
