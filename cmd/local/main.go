package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jusunglee/trainusage/internal/analysis"
	"github.com/jusunglee/trainusage/internal/dashboard"
	"github.com/jusunglee/trainusage/internal/feed"
	"github.com/jusunglee/trainusage/internal/models"
	"github.com/jusunglee/trainusage/internal/parser"
	"github.com/jusunglee/trainusage/pkg/trains"
)

func main() {
	var (
		csvURL   = flag.String("csv-url", feed.DefaultSourceURL, "Trip count CSV location")
		sample   = flag.Bool("sample", false, "Use the built-in sample dataset instead of fetching")
		lines    = flag.String("lines", "", "Comma separated lines to show (default: all known lines)")
		category = flag.String("category", "", "Only show metro or regional lines")
		mode     = flag.String("mode", "bar", "Chart data to print: bar or timeseries")
		peaks    = flag.Bool("peaks", true, "Print peak times")
		timeout  = flag.Duration("timeout", 30*time.Second, "Fetch timeout")
	)
	flag.Parse()

	categories := models.Categories
	if *category != "" {
		c, ok := models.ParseCategory(*category)
		if !ok {
			slog.Error("Invalid category", "category", *category)
			os.Exit(1)
		}
		categories = []models.Category{c}
	}

	chartMode, ok := models.ParseChartMode(*mode)
	if !ok {
		slog.Error("Invalid mode", "mode", *mode)
		os.Exit(1)
	}

	config := trains.DefaultConfig()
	config.SourceURL = *csvURL
	config.Timeout = *timeout
	client := trains.NewLocal(config)
	defer client.Close()

	if *sample {
		records, err := parser.ParseRecords(strings.NewReader(feed.SampleCSV))
		if err != nil {
			slog.Error("Failed to parse sample data", "error", err)
			os.Exit(1)
		}
		client.Load("sample", records)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		err := client.Refresh(ctx)
		cancel()
		if err != nil {
			slog.Error("Failed to load dataset", "source", *csvURL, "error", err)
			os.Exit(1)
		}
	}

	var selected []string
	if *lines != "" {
		selected = strings.Split(*lines, ",")
	} else {
		for _, e := range client.GetLines("") {
			selected = append(selected, e.Line)
		}
	}
	selection := models.NewSelection(selected)

	info := client.GetDatasetInfo()
	fmt.Printf("Loaded %d records, %d lines, %d hours from %s\n", info.Records, info.Lines, info.Hours, info.Source)

	for _, c := range categories {
		panel := client.GetPanel(c, chartMode, selection)
		fmt.Printf("\n%s\n", panel.Title)
		if chartMode == models.ChartBar {
			printBars(panel)
		} else {
			printTimeSeries(panel)
		}

		if *peaks {
			printPeaks(client.GetPeaks(c, selection))
		}
	}

	fmt.Printf("\nLast update: %s\n", client.GetLastUpdate().Format("3:04 PM"))
}

func printBars(panel dashboard.Panel) {
	if len(panel.Bars) == 0 {
		fmt.Println("  (no data)")
		return
	}
	for _, b := range panel.Bars {
		fmt.Printf("  %-45s %8d\n", b.Line, b.Trips)
	}
}

func printTimeSeries(panel dashboard.Panel) {
	if len(panel.TimeSeries) == 0 {
		fmt.Println("  (no data)")
		return
	}
	for _, row := range panel.TimeSeries {
		fmt.Printf("  %s (%s:00)", row.Hour, analysis.HourOfDay(row.Hour))
		for _, s := range panel.Series {
			fmt.Printf("  %s=%d", s.Line, row.Value(s.Line))
		}
		fmt.Println()
	}
}

func printPeaks(group dashboard.PeakGroup) {
	if len(group.Peaks) == 0 {
		return
	}
	fmt.Printf("  Peak trip times (%s):\n", group.Title)
	for _, p := range group.Peaks {
		fmt.Printf("    %-43s %s (Trips: %d)\n", p.Line, p.Label, p.Trips)
	}
}
