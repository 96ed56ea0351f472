// Command waktu is the Waktu Solat operator CLI.
//
// Usage:
//
//	waktu fetch --month 2025-01
//	waktu refresh --force
//	waktu prayers --date 2025-01-06 --full
//	waktu current
//	waktu plan --ics > reminders.ics
//	waktu location set --lat 3.139 --lon 101.6869 --label "Kuala Lumpur"
//	waktu home set --lat 3.139 --lon 101.6869
//	waktu travel on|off|auto|manual
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/waktu/internal/app"
	"github.com/albapepper/waktu/internal/config"
	"github.com/albapepper/waktu/internal/geo"
	"github.com/albapepper/waktu/internal/notifications"
	"github.com/albapepper/waktu/internal/refresh"
	"github.com/albapepper/waktu/internal/timetable"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "waktu",
		Short: "Waktu Solat prayer time CLI",
	}

	root.AddCommand(fetchCmd())
	root.AddCommand(refreshCmd())
	root.AddCommand(prayersCmd())
	root.AddCommand(currentCmd())
	root.AddCommand(planCmd())
	root.AddCommand(locationCmd())
	root.AddCommand(homeCmd())
	root.AddCommand(travelCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// fetch / refresh / prayers / current / plan
// --------------------------------------------------------------------------

func fetchCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download a month's timetable for the current location",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				anchor := a.Orch.Today()
				if month != "" {
					parsed, err := timetable.ParseDate(month + "-01")
					if err != nil {
						return fmt.Errorf("--month must be YYYY-MM: %w", err)
					}
					anchor = parsed
				}
				start := time.Now()
				m, err := a.Orch.FetchMonth(ctx, anchor)
				if err != nil {
					return err
				}
				logger.Info("Timetable fetched",
					"zone", m.Zone, "year", m.Year, "month", m.Month,
					"days", len(m.Days), "duration", time.Since(start).Round(time.Millisecond))
				loc := a.Orch.Location()
				for _, d := range m.Days {
					fmt.Printf("%2d  %s  %s  %s  %s  %s  %s\n", d.Day,
						d.Fajr.In(loc).Format("15:04"), d.Sunrise.In(loc).Format("15:04"),
						d.Dhuhr.In(loc).Format("15:04"), d.Asr.In(loc).Format("15:04"),
						d.Maghrib.In(loc).Format("15:04"), d.Isha.In(loc).Format("15:04"))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month as YYYY-MM (default current month)")
	return cmd
}

func refreshCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Run one refresh pass and print the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				start := time.Now()
				snap, err := a.Orch.Run(ctx, refresh.Request{Force: force})
				if err != nil && !errors.Is(err, refresh.ErrNoTimetable) {
					return err
				}
				logger.Info("Refresh finished", "duration", time.Since(start).Round(time.Millisecond), "error", err)
				return printJSON(snap)
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Refetch even when the cached timetable is fresh")
	return cmd
}

func prayersCmd() *cobra.Command {
	var (
		date string
		full bool
	)
	cmd := &cobra.Command{
		Use:   "prayers",
		Short: "Print the resolved prayers for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				d := a.Orch.Today()
				if date != "" {
					parsed, err := timetable.ParseDate(date)
					if err != nil {
						return err
					}
					d = parsed
				}
				list, ok, err := a.Orch.Prayers(ctx, d, full)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no timetable for %s", d)
				}
				loc := a.Orch.Location()
				for _, p := range list {
					fmt.Printf("%-10s %-8s %s\n", p.Names.Transliteration, p.Time.In(loc).Format("15:04"), p.Names.Arabic)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&full, "full", false, "Print the full list even while traveling")
	return cmd
}

func currentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the current and next prayer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				snap, err := a.Orch.Run(ctx, refresh.Request{})
				if err != nil {
					return err
				}
				loc := a.Orch.Location()
				if c := snap.Position.Current; c != nil {
					fmt.Printf("current  %-10s %s\n", c.Names.Transliteration, c.Time.In(loc).Format("Mon 15:04"))
				}
				if n := snap.Position.Next; n != nil {
					fmt.Printf("next     %-10s %s\n", n.Names.Transliteration, n.Time.In(loc).Format("Mon 15:04"))
				}
				if snap.Hijri != nil {
					fmt.Printf("hijri    %s\n", snap.Hijri)
				}
				return nil
			})
		},
	}
}

func planCmd() *cobra.Command {
	var ics bool
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the reminder plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				if _, err := a.Orch.Run(ctx, refresh.Request{}); err != nil {
					return err
				}
				reminders, _ := a.Sink.Reminders()
				if ics {
					data, err := notifications.EncodeICS(reminders, time.Now())
					if err != nil {
						return err
					}
					_, err = os.Stdout.Write(data)
					return err
				}
				loc := a.Orch.Location()
				for _, r := range reminders {
					fmt.Printf("%s  %-9s %s\n", r.FireAt.In(loc).Format("Mon 02 15:04"), r.Category, r.Body)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&ics, "ics", false, "Write the plan as iCalendar")
	return cmd
}

// --------------------------------------------------------------------------
// location / home / travel
// --------------------------------------------------------------------------

func locationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Manage the current location",
	}

	var (
		lat, lon float64
		label    string
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Set the current location and refresh when it moved",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				changed, err := a.Orch.SetLocation(ctx, geo.Coordinate{Latitude: lat, Longitude: lon}, label)
				if err != nil {
					return err
				}
				if !changed {
					logger.Info("Location unchanged (moved less than 500 m)")
					return nil
				}
				snap, err := a.Orch.Run(ctx, refresh.Request{})
				if err != nil && !errors.Is(err, refresh.ErrNoTimetable) {
					return err
				}
				return printJSON(snap)
			})
		},
	}
	coordinateFlags(set, &lat, &lon)
	set.Flags().StringVar(&label, "label", "", "Place name shown in reminders")
	cmd.AddCommand(set)
	return cmd
}

func homeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "home",
		Short: "Manage the home location used for travel detection",
	}

	var lat, lon float64
	set := &cobra.Command{
		Use:   "set",
		Short: "Set home",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				home := geo.Coordinate{Latitude: lat, Longitude: lon}
				return a.Orch.SetHome(ctx, &home)
			})
		},
	}
	coordinateFlags(set, &lat, &lon)

	unset := &cobra.Command{
		Use:   "clear",
		Short: "Clear home",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				return a.Orch.SetHome(ctx, nil)
			})
		},
	}

	cmd.AddCommand(set, unset)
	return cmd
}

func travelCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "travel on|off|auto|manual",
		Short:     "Toggle travel mode or automatic detection",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off", "auto", "manual"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				switch args[0] {
				case "auto", "manual":
					if err := a.Orch.SetAutomatic(ctx, args[0] == "auto"); err != nil {
						return err
					}
				default:
					if _, err := a.Orch.SetTraveling(ctx, args[0] == "on"); err != nil &&
						!errors.Is(err, refresh.ErrNoLocation) && !errors.Is(err, refresh.ErrNoTimetable) {
						return err
					}
				}
				st, err := a.Settings.Load(ctx)
				if err != nil {
					return err
				}
				return printJSON(st.Travel)
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// withApp handles config loading, store wiring, and context cancellation.
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func coordinateFlags(cmd *cobra.Command, lat, lon *float64) {
	cmd.Flags().Float64Var(lat, "lat", 0, "Latitude in degrees")
	cmd.Flags().Float64Var(lon, "lon", 0, "Longitude in degrees")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
