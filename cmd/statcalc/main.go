// Command statcalc evaluates a build file and prints the derived stats.
//
// Usage:
//
//	statcalc -build build.yaml                 # all rows grouped by category
//	statcalc -build build.yaml -category edps  # one category
//	statcalc -build build.yaml -json           # full result as JSON
//	statcalc -chain critChanceFromEssence      # dependency chain
//	statcalc -list                             # every registered stat
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/statcalc/internal/build"
	"github.com/udisondev/statcalc/internal/logger"
	"github.com/udisondev/statcalc/internal/monogram"
	"github.com/udisondev/statcalc/internal/stats"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "statcalc:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("statcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		buildPath = fs.String("build", "", "YAML build file to evaluate")
		category  = fs.String("category", "", "only print rows of this category")
		asJSON    = fs.Bool("json", false, "print the evaluation as JSON")
		chain     = fs.String("chain", "", "print the dependency chain of a stat")
		list      = fs.Bool("list", false, "list registered stats in calculation order")
		logLevel  = fs.String("log-level", "WARN", "log level")
		logFile   = fs.String("log-file", "", "also write JSON logs to this rotating file")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = *logLevel
	if *logFile != "" {
		logCfg.FileEnabled = true
		logCfg.FilePath = *logFile
	}
	l, closer, err := logger.New(logCfg, stderr)
	if err != nil {
		return err
	}
	defer closer.Close()
	slog.SetDefault(l)

	svc := build.NewService(stats.NewEngine(stats.Default(), stats.WithLogger(l)), monogram.DefaultCatalog(), nil)

	switch {
	case *list:
		return printRegistry(stdout, svc.Registry())
	case *chain != "":
		ids, err := svc.Chain(*chain)
		if err != nil {
			return err
		}
		for i, id := range ids {
			fmt.Fprintf(stdout, "%d. %s\n", i+1, id)
		}
		return nil
	case *buildPath != "":
		b, err := loadBuild(*buildPath)
		if err != nil {
			return err
		}
		ev, err := svc.Evaluate(ctx, b)
		if err != nil {
			return err
		}
		if *asJSON {
			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(ev)
		}
		return printEvaluation(stdout, ev, stats.Category(*category))
	default:
		fs.Usage()
		return flag.ErrHelp
	}
}

func loadBuild(path string) (*build.Build, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening build: %w", err)
	}
	defer f.Close()

	var b build.Build
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("parsing build %s: %w", path, err)
	}
	return &b, nil
}

func printRegistry(w io.Writer, reg *stats.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LAYER\tID\tCATEGORY\tNAME")
	for _, def := range reg.CalculationOrder() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", def.Layer, def.ID, def.Category, def.Name)
	}
	return tw.Flush()
}

// categoryOrder is the print order.
var categoryOrder = []stats.Category{
	stats.CategoryAttributes, stats.CategoryTotals, stats.CategoryOffense, stats.CategoryStance,
	stats.CategoryDefense, stats.CategoryElemental, stats.CategoryAbilities, stats.CategoryUtility,
	stats.CategoryConversion, stats.CategoryUtilityDerived, stats.CategoryFinal,
	stats.CategoryMonogram, stats.CategoryMonogramDisplay, stats.CategoryMonogramChain, stats.CategoryChained,
	stats.CategoryEDPS, stats.CategoryEDPSResult,
}

func printEvaluation(w io.Writer, ev *build.Evaluation, only stats.Category) error {
	if only != "" && !only.Valid() {
		return fmt.Errorf("unknown category %q", only)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, cat := range categoryOrder {
		if only != "" && cat != only {
			continue
		}
		rows := ev.Result.ByCategory[cat]
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(tw, "[%s]\n", cat)
		for _, row := range rows {
			fmt.Fprintf(tw, "  %s\t%s\n", row.Name, row.FormattedValue)
			for _, src := range row.Sources {
				fmt.Fprintf(tw, "    %s (%s)\t%g\n", src.ItemName, src.Slot, src.Value)
			}
		}
	}
	for _, id := range ev.UnknownMonograms {
		fmt.Fprintf(tw, "warning: unknown monogram %s\n", id)
	}
	return tw.Flush()
}
