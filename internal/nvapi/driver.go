package nvapi

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Driver owns the function table for one loaded NVAPI library. The table is
// built and the driver initialized once, on the first call to Init; the
// outcome of that call is returned to every later caller.
type Driver struct {
	query  QueryFunc
	bind   Binder
	logger *slog.Logger
	source string

	table *Table
	init  func() error
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger used for driver diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithSource records where the library was loaded from, for diagnostics.
func WithSource(source string) Option {
	return func(d *Driver) {
		d.source = source
	}
}

// NewDriver creates a Driver from a query entry point and a binder.
// Nothing is resolved until Init.
func NewDriver(query QueryFunc, bind Binder, opts ...Option) *Driver {
	d := &Driver{
		query:  query,
		bind:   bind,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.init = sync.OnceValue(d.initialize)
	return d
}

// Init resolves the function table and calls NvAPI_Initialize. It is safe to
// call concurrently; only the first call does any work.
func (d *Driver) Init() error {
	return d.init()
}

func (d *Driver) initialize() error {
	t := NewTable(d.query, d.bind)
	if t.Initialize == nil {
		return fmt.Errorf("%w: %s", ErrFunctionUnavailable, IDInitialize)
	}

	status := t.Initialize()
	d.logger.Debug("nvapi call",
		slog.String("func", IDInitialize.String()),
		slog.Int("status", int(status)))
	if err := t.Check(IDInitialize, status); err != nil {
		return fmt.Errorf("%w: %w", ErrInitFailed, err)
	}

	if missing := t.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, id := range missing {
			names[i] = id.String()
		}
		return fmt.Errorf("%w: %s", ErrFunctionUnavailable, strings.Join(names, ", "))
	}
	if !t.Has(IDGetErrorMessage) {
		d.logger.Warn("NvAPI_GetErrorMessage unavailable, errors will carry status codes only")
	}

	d.table = t
	d.logger.Debug("nvapi initialized", slog.String("source", d.source))
	return nil
}

// Table returns the bound function table. It is nil until Init succeeds and
// read-only afterwards.
func (d *Driver) Table() *Table {
	return d.table
}

// Probe reports which function IDs the library resolves, without
// initializing the driver.
func (d *Driver) Probe() []Probe {
	return ProbeAll(d.query)
}

// Source returns the library path the driver was loaded from.
func (d *Driver) Source() string {
	return d.source
}
