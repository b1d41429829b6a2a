// Command analyze fetches a window of spins once, analyzes it and prints the
// report as indented JSON on stdout. Logs go to stderr.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/spinlens/internal/adapters/source"
	app "github.com/okian/spinlens/internal/app"
	"github.com/okian/spinlens/internal/domain/model"
	"github.com/okian/spinlens/internal/domain/suggest"
	"github.com/okian/spinlens/pkg/logger"
)

const defaultTimeout = 25 * time.Second

var errNoInput = errors.New("one of -url or -file is required")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			os.Stderr.WriteString("analyze failed: " + err.Error() + "\n")
		}
		stop()
		os.Exit(1)
	}
}

type options struct {
	url      string
	file     string
	headers  string
	params   string
	root     string
	mapping  model.FieldMapping
	strategy string
	k        int
	decay    float64
	timeout  time.Duration
	logLevel string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	def := model.DefaultFieldMapping()

	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.url, "url", "", "HTTP endpoint returning the spin history")
	fs.StringVar(&o.file, "file", "", "Read the JSON body from a file instead of -url")
	fs.StringVar(&o.headers, "headers", "{}", "JSON object of request headers")
	fs.StringVar(&o.params, "params", "{}", `JSON object of query parameters, e.g. {"limit":500}`)
	fs.StringVar(&o.root, "root", "results", "Locator of the record list inside the body")
	fs.StringVar(&o.mapping.Number, "number", def.Number, "Locator of the winning number")
	fs.StringVar(&o.mapping.Time, "time", def.Time, "Locator of the timestamp")
	fs.StringVar(&o.mapping.LightningList, "l-list", def.LightningList, "Locator of the lightning list")
	fs.StringVar(&o.mapping.LightningNumber, "l-num", def.LightningNumber, "Locator of the number in each lightning entry")
	fs.StringVar(&o.mapping.LightningMultiplier, "l-mul", def.LightningMultiplier, "Locator of the multiplier in each lightning entry")
	fs.StringVar(&o.strategy, "strategy", string(suggest.DefaultStrategy), "Suggestion strategy: combo, hot, overdue, recency_weighted")
	fs.IntVar(&o.k, "k", suggest.DefaultK, "Number of suggested outcomes")
	fs.Float64Var(&o.decay, "decay", suggest.DefaultDecay, "Recency decay factor in (0,1)")
	fs.DurationVar(&o.timeout, "timeout", defaultTimeout, "HTTP request timeout")
	fs.StringVar(&o.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.url == "" && o.file == "" {
		return o, errNoInput
	}
	if !suggest.Strategy(o.strategy).Known() {
		return o, fmt.Errorf("unknown strategy %q", o.strategy)
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if err := logger.InitWithWriter(stderr); err != nil {
		return err
	}
	if err := logger.SetLevelString(o.logLevel); err != nil {
		return err
	}

	req := source.Request{URL: o.url, RootListPath: o.root}
	if req.Headers, err = stringMap(o.headers); err != nil {
		return fmt.Errorf("parse -headers: %w", err)
	}
	if req.Params, err = stringMap(o.params); err != nil {
		return fmt.Errorf("parse -params: %w", err)
	}

	fetcher, err := newFetcher(o)
	if err != nil {
		return err
	}

	svc := app.New(
		app.WithLogger(logger.Named("analyze")),
		app.WithFetcher(fetcher),
		app.WithFieldMapping(o.mapping),
		app.WithStrategy(o.strategy),
		app.WithK(o.k),
		app.WithDecay(o.decay),
	)

	rep, err := svc.FetchAndAnalyze(ctx, req, app.AnalyzeOptions{})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rep)
}

// newFetcher reads -file once into a StaticFetcher, or fetches over HTTP.
func newFetcher(o options) (source.Fetcher, error) {
	if o.file == "" {
		return source.NewHTTPFetcher(source.WithTimeout(o.timeout)), nil
	}
	raw, err := os.ReadFile(o.file)
	if err != nil {
		return nil, fmt.Errorf("read -file: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode -file: %w", err)
	}
	return source.StaticFetcher{Records: source.ExtractRecords(body, o.root)}, nil
}

// stringMap decodes a JSON object, rendering scalar values as query strings.
func stringMap(text string) (map[string]string, error) {
	if text == "" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch t := v.(type) {
		case nil:
			continue
		case string:
			out[k] = t
		case json.Number, bool:
			out[k] = fmt.Sprint(t)
		default:
			return nil, fmt.Errorf("value of %q must be a scalar", k)
		}
	}
	return out, nil
}
