package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/albapepper/waktu/internal/config"
	"github.com/albapepper/waktu/internal/geo"
	"github.com/albapepper/waktu/internal/kv"
	"github.com/albapepper/waktu/internal/settings"
)

func testConfig() *config.Config {
	return &config.Config{
		StoreBackend:     config.BackendMemory,
		ProviderBaseURL:  "http://127.0.0.1:0",
		Location:         time.UTC,
		InitialLatitude:  3.139,
		InitialLongitude: 101.6869,
		InitialLabel:     "Kuala Lumpur",
	}
}

func TestNewSeedsInitialLocation(t *testing.T) {
	a, err := New(context.Background(), testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	st, err := a.Settings.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.Current.Name() != "Kuala Lumpur" {
		t.Errorf("Current.Name() = %q, want Kuala Lumpur", st.Current.Name())
	}
	if a.Store.Name() != "memory" {
		t.Errorf("Store.Name() = %q, want memory", a.Store.Name())
	}
}

func TestSeedLocationKeepsStoredPlace(t *testing.T) {
	ctx := context.Background()
	st := settings.NewStore(kv.NewMemory(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ipoh := settings.Place{Coordinate: geo.Coordinate{Latitude: 4.5975, Longitude: 101.0901}, Label: "Ipoh"}
	if err := st.SaveCurrent(ctx, ipoh); err != nil {
		t.Fatalf("SaveCurrent: %v", err)
	}

	if err := seedLocation(ctx, st, testConfig()); err != nil {
		t.Fatalf("seedLocation: %v", err)
	}
	got, _ := st.Load(ctx)
	if got.Current != ipoh {
		t.Errorf("Current = %+v, want %+v", got.Current, ipoh)
	}
}

func TestSeedLocationUnsetConfig(t *testing.T) {
	ctx := context.Background()
	st := settings.NewStore(kv.NewMemory(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	cfg := testConfig()
	cfg.InitialLatitude, cfg.InitialLongitude = 1000, 1000

	if err := seedLocation(ctx, st, cfg); err != nil {
		t.Fatalf("seedLocation: %v", err)
	}
	got, _ := st.Load(ctx)
	if got.Current.Coordinate.IsSet() {
		t.Errorf("Current = %v, want unset", got.Current.Coordinate)
	}
}
