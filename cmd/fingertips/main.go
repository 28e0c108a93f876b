// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

// Package main is the fingertips command line tool.
//
// It wraps the fingertipsgo client library for shell use: retrieving
// public-health observations as CSV, browsing the area-type and profile
// catalogs, computing deprivation deciles, and serving the client as a local
// HTTP facade.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (FINGERTIPS_* prefix)
//   - Config file (config.yaml, or FINGERTIPS_CONFIG_PATH)
//   - Built-in defaults
//
// # Subcommands
//
//	fingertips data -indicator 90362,90366 [-area-type 102] [-rank]
//	fingertips data -domain 1000049
//	fingertips data -profile 19 [-area-code E06000001,E06000002]
//	fingertips areatypes
//	fingertips areas -area-type 102
//	fingertips profiles
//	fingertips indicators -profile 19
//	fingertips deprivation -area-type 102 -year 2019
//	fingertips chart -indicator 90362 -year 2019 [-out chart.svg]
//	fingertips serve [-addr :8080]
//
// Bulk output is CSV on stdout; catalog output is JSON on stdout. Logs go
// to stderr.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	json "github.com/goccy/go-json"

	fingertips "github.com/tomtom215/fingertipsgo"
	"github.com/tomtom215/fingertipsgo/chart"
	"github.com/tomtom215/fingertipsgo/frame"
	"github.com/tomtom215/fingertipsgo/internal/config"
	"github.com/tomtom215/fingertipsgo/internal/logging"
	"github.com/tomtom215/fingertipsgo/internal/server"
)

const usage = `Usage: fingertips <command> [flags]

Commands:
  data         Retrieve observations as CSV (select with -indicator, -domain or -profile)
  areatypes    List area types and their parent geographies
  areas        List areas of one area type (-area-type)
  profiles     List profiles
  indicators   List the indicators of a profile (-profile)
  deprivation  Compute deprivation deciles (-area-type, -year)
  chart        Render an indicator-vs-deprivation scatter SVG (-indicator, -year)
  serve        Serve the client as a local HTTP facade
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	client, err := fingertips.New(fingertips.Options{
		BaseURL:            cfg.API.BaseURL,
		Timeout:            cfg.API.Timeout,
		RequestsPerSecond:  cfg.API.RequestsPerSecond,
		InsecureSkipVerify: cfg.API.InsecureSkipVerify,
		ProxyURL:           cfg.API.Proxy,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create API client")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command, args := os.Args[1], os.Args[2:]
	if err := run(ctx, client, cfg, command, args); err != nil {
		if command == "serve" {
			logging.Fatal().Err(err).Msg("Serve failed")
		}
		fmt.Fprintln(os.Stderr, "fingertips:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, client *fingertips.Client, cfg *config.Config, command string, args []string) error {
	switch command {
	case "data":
		return runData(ctx, client, args)
	case "areatypes":
		return runAreaTypes(ctx, client)
	case "areas":
		return runAreas(ctx, client, args)
	case "profiles":
		return runProfiles(ctx, client)
	case "indicators":
		return runIndicators(ctx, client, args)
	case "deprivation":
		return runDeprivation(ctx, client, args)
	case "chart":
		return runChart(ctx, client, args)
	case "serve":
		return runServe(ctx, client, cfg, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runData(ctx context.Context, client *fingertips.Client, args []string) error {
	fs := flag.NewFlagSet("data", flag.ExitOnError)
	indicator := fs.String("indicator", "", "comma-separated indicator IDs")
	domain := fs.String("domain", "", "comma-separated domain IDs")
	profile := fs.String("profile", "", "comma-separated profile IDs")
	areaType := fs.String("area-type", "", "comma-separated area type IDs (default 102)")
	parentAreaType := fs.String("parent-area-type", "", "comma-separated parent area type IDs")
	areaCode := fs.String("area-code", "", "comma-separated area codes to keep")
	categoryType := fs.Bool("category-type", false, "retain category-split rows")
	rank := fs.Bool("rank", false, "add Polarity, Rank and AreaValuesCount columns")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var query fingertips.Query
	var err error
	if query.IndicatorID, err = parseIDList(*indicator); err != nil {
		return fmt.Errorf("-indicator: %w", err)
	}
	if query.DomainID, err = parseIDList(*domain); err != nil {
		return fmt.Errorf("-domain: %w", err)
	}
	if query.ProfileID, err = parseIDList(*profile); err != nil {
		return fmt.Errorf("-profile: %w", err)
	}
	if query.AreaTypeID, err = parseIDList(*areaType); err != nil {
		return fmt.Errorf("-area-type: %w", err)
	}
	if query.ParentAreaTypeID, err = parseIDList(*parentAreaType); err != nil {
		return fmt.Errorf("-parent-area-type: %w", err)
	}
	if *areaCode != "" {
		query.AreaCode = strings.Split(*areaCode, ",")
	}
	query.CategoryType = *categoryType
	query.Rank = *rank

	f, err := client.FetchData(ctx, query)
	if err != nil {
		return err
	}
	return writeCSV(f)
}

func runAreaTypes(ctx context.Context, client *fingertips.Client) error {
	types, err := client.AreaTypes(ctx)
	if err != nil {
		return err
	}
	return writeJSON(types)
}

func runAreas(ctx context.Context, client *fingertips.Client, args []string) error {
	fs := flag.NewFlagSet("areas", flag.ExitOnError)
	areaType := fs.Int("area-type", fingertips.DefaultAreaTypeID, "area type ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	areas, err := client.AreasByAreaType(ctx, *areaType)
	if err != nil {
		return err
	}
	return writeJSON(areas)
}

func runProfiles(ctx context.Context, client *fingertips.Client) error {
	profiles, err := client.Profiles(ctx)
	if err != nil {
		return err
	}
	return writeJSON(profiles)
}

func runIndicators(ctx context.Context, client *fingertips.Client, args []string) error {
	fs := flag.NewFlagSet("indicators", flag.ExitOnError)
	profile := fs.Int("profile", 0, "profile ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *profile == 0 {
		return fmt.Errorf("-profile is required")
	}

	indicators, err := client.Indicators(ctx, *profile)
	if err != nil {
		return err
	}
	return writeJSON(indicators)
}

func runDeprivation(ctx context.Context, client *fingertips.Client, args []string) error {
	fs := flag.NewFlagSet("deprivation", flag.ExitOnError)
	areaType := fs.Int("area-type", fingertips.DefaultAreaTypeID, "area type ID (7, 101 or 102)")
	year := fs.Int("year", 2019, "IMD release year (2015 or 2019)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := client.DeprivationDecile(ctx, *areaType, *year)
	if err != nil {
		return err
	}
	return writeCSV(f)
}

// runChart fetches one indicator alongside deprivation scores for the same
// geography, joins them on AreaCode and renders the scatter as SVG.
func runChart(ctx context.Context, client *fingertips.Client, args []string) error {
	fs := flag.NewFlagSet("chart", flag.ExitOnError)
	indicator := fs.Int("indicator", 0, "indicator ID to plot on the Y axis")
	areaType := fs.Int("area-type", fingertips.DefaultAreaTypeID, "area type ID (7, 101 or 102)")
	year := fs.Int("year", 2019, "IMD release year (2015 or 2019)")
	out := fs.String("out", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *indicator == 0 {
		return fmt.Errorf("-indicator is required")
	}

	data, err := client.FetchData(ctx, fingertips.Query{
		IndicatorID: []int{*indicator},
		AreaTypeID:  []int{*areaType},
	})
	if err != nil {
		return err
	}
	deciles, err := client.DeprivationDecile(ctx, *areaType, *year)
	if err != nil {
		return err
	}
	joined, err := data.LeftJoin(deciles, "AreaCode")
	if err != nil {
		return err
	}

	series, err := chart.FromFrame(joined, "IMDscore", "Value", "IndicatorName", "AreaName")
	if err != nil {
		return err
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return chart.RenderScatterSVG(w, series, chart.ScatterOptions{
		Title:  fmt.Sprintf("Indicator %d vs IMD %d", *indicator, *year),
		XLabel: "IMD score",
		YLabel: "Value",
	})
}

func runServe(ctx context.Context, client *fingertips.Client, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.Server.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	serverCfg := cfg.Server
	serverCfg.Addr = *addr
	return server.New(client, serverCfg).Run(ctx)
}

// parseIDList parses a comma-separated integer list. Empty input yields nil,
// leaving the query field unset.
func parseIDList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid ID %q", part)
		}
		out = append(out, v)
	}
	return out, nil
}

func writeCSV(f *frame.Frame) error {
	return f.WriteCSV(os.Stdout)
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
