// Command roster-solve runs one team solve offline and prints the result.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/okian/rosterbias/internal/adapters/dto"
	app "github.com/okian/rosterbias/internal/app"
	"github.com/okian/rosterbias/internal/config"
	"github.com/okian/rosterbias/pkg/logger"
	"github.com/okian/rosterbias/pkg/metrics"

	"gopkg.in/yaml.v3"
)

type options struct {
	catalog  string
	request  string
	output   string
	format   string
	logLevel string
	seed     int64
	budget   float64
}

func main() {
	var opts options
	flag.StringVar(&opts.catalog, "catalog", "", "Background catalog YAML (default: embedded catalog)")
	flag.StringVar(&opts.request, "request", "-", "Solve request file, JSON or YAML; - reads stdin")
	flag.StringVar(&opts.output, "output", "", "Write the result here instead of stdout")
	flag.StringVar(&opts.format, "format", "json", "Output format: json or yaml")
	flag.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flag.Int64Var(&opts.seed, "seed", 0, "Percentile source seed (0: clock)")
	flag.Float64Var(&opts.budget, "budget", 0, "Per-slot points budget (0: config default)")
	flag.Parse()

	out := io.Writer(os.Stdout)
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if err := run(context.Background(), opts, os.Stdin, out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer) error {
	if err := logger.Init(logger.WithLevel(opts.logLevel), logger.WithWriter(os.Stderr)); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	metrics.SetEnabled(false)

	data, err := readRequest(opts.request, stdin)
	if err != nil {
		return err
	}
	req, err := dto.DecodeSolveRequest(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", opts.request, err)
	}

	cfg := config.New()
	cfg.CatalogPath = opts.catalog
	cfg.Seed = opts.seed
	cfg.MetricsEnabled = false
	if opts.budget > 0 {
		cfg.PointsBudget = opts.budget
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	svc := app.New(app.WithConfig(cfg), app.WithLogger(logger.Get()))
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	res, err := svc.Solve(ctx, req)
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}
	return write(stdout, opts.format, res)
}

func readRequest(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" || path == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	return data, nil
}

func write(w io.Writer, format string, res dto.SolveResponse) error {
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
