// Package settings persists user settings as JSON documents in a kv.Store.
//
// Each setting lives under its own key. A missing or undecodable document
// reads as its default; only backend failures are reported as errors.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/albapepper/waktu/internal/geo"
	"github.com/albapepper/waktu/internal/kv"
	"github.com/albapepper/waktu/internal/notifications"
	"github.com/albapepper/waktu/internal/prayer"
	"github.com/albapepper/waktu/internal/travel"
)

const (
	keyCurrent       = "settings.current_location.v1"
	keyHome          = "settings.home.v1"
	keyOffsets       = "settings.offsets.v1"
	keyNotifications = "settings.notifications.v1"
	keyTravel        = "settings.travel.v1"
	keyLastFetch     = "settings.last_fetch.v1"
)

// Place is a coordinate with an optional human label.
type Place struct {
	Coordinate geo.Coordinate `json:"coordinate"`
	Label      string         `json:"label,omitempty"`
}

// UnsetPlace has no coordinate and no label.
func UnsetPlace() Place {
	return Place{Coordinate: geo.UnsetCoordinate()}
}

// Name is the label, falling back to the rendered coordinate.
func (p Place) Name() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Coordinate.String()
}

// Settings is the full persisted settings set.
type Settings struct {
	Current       Place                     `json:"current"`
	Home          *geo.Coordinate           `json:"home,omitempty"`
	Offsets       prayer.Offsets            `json:"offsets"`
	Notifications notifications.Preferences `json:"notifications"`
	Travel        travel.State              `json:"travel"`
	// LastFetch is where the cached timetable was fetched for.
	LastFetch *geo.Coordinate `json:"last_fetch,omitempty"`
}

// Defaults returns the settings of a fresh install.
func Defaults() Settings {
	return Settings{
		Current:       UnsetPlace(),
		Notifications: notifications.DefaultPreferences(),
		Travel:        travel.DefaultState(),
	}
}

// Store reads and writes Settings.
type Store struct {
	kv     kv.Store
	logger *slog.Logger
}

func NewStore(store kv.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: store, logger: logger}
}

// Load reads every setting.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	out := Defaults()
	docs := []struct {
		key string
		dst any
	}{
		{keyCurrent, &out.Current},
		{keyHome, &out.Home},
		{keyOffsets, &out.Offsets},
		{keyNotifications, &out.Notifications},
		{keyTravel, &out.Travel},
		{keyLastFetch, &out.LastFetch},
	}
	for _, d := range docs {
		if err := s.load(ctx, d.key, d.dst); err != nil {
			return Defaults(), err
		}
	}
	if out.Offsets.Validate() != nil {
		s.logger.Warn("Stored offsets out of range, using defaults")
		out.Offsets = prayer.Offsets{}
	}
	if out.Notifications.Validate() != nil {
		s.logger.Warn("Stored notification preferences invalid, using defaults")
		out.Notifications = notifications.DefaultPreferences()
	}
	return out, nil
}

// load decodes key into dst. dst keeps its prior value when the key is
// absent or does not decode. The payload is checked against a scratch value
// first because json.Unmarshal fills fields before reporting a type error.
func (s *Store) load(ctx context.Context, key string, dst any) error {
	data, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load setting %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	scratch := reflect.New(reflect.TypeOf(dst).Elem()).Interface()
	if err := json.Unmarshal(data, scratch); err != nil {
		s.logger.Warn("Discarding undecodable setting", "key", key, "error", err)
		return nil
	}
	return json.Unmarshal(data, dst)
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Writers
// --------------------------------------------------------------------------

func (s *Store) SaveCurrent(ctx context.Context, p Place) error {
	return s.save(ctx, keyCurrent, p)
}

// SaveHome stores home; nil clears it.
func (s *Store) SaveHome(ctx context.Context, home *geo.Coordinate) error {
	return s.save(ctx, keyHome, home)
}

// SaveOffsets validates and stores o.
func (s *Store) SaveOffsets(ctx context.Context, o prayer.Offsets) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return s.save(ctx, keyOffsets, o)
}

// SaveNotifications validates and stores p.
func (s *Store) SaveNotifications(ctx context.Context, p notifications.Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.save(ctx, keyNotifications, p)
}

func (s *Store) SaveTravel(ctx context.Context, st travel.State) error {
	return s.save(ctx, keyTravel, st)
}

func (s *Store) SaveLastFetch(ctx context.Context, at geo.Coordinate) error {
	return s.save(ctx, keyLastFetch, at)
}
