package chunk

import (
	"fmt"
	"strings"

	"github.com/go-kit/log"
)

// DefaultPageBufferSize is the smallest allocation backing a buffered page
// copy.
const DefaultPageBufferSize = 4096

// The Config type carries the configuration options of a page write store.
//
// Config implements the Option interface so it can be used directly as
// argument to NewPageWriteStore when needed, for example:
//
//	store := chunk.NewPageWriteStore(codec, schema, &chunk.Config{
//		Allocator: allocator,
//	})
type Config struct {
	// Allocator provides the buffers holding copies of submitted pages.
	Allocator Allocator

	// PageBufferSize is the minimum size of the buffers page copies are
	// stored in; small pages share the allocation granularity instead of
	// producing many tiny buffers.
	PageBufferSize int

	// DataPageStats controls whether per-page statistics are written to the
	// data page headers. Column-level statistics are accumulated either way.
	DataPageStats bool

	// Logger receives a summary line after each column chunk is written.
	Logger log.Logger
}

// DefaultConfig returns a new Config value initialized with the default
// settings.
func DefaultConfig() *Config {
	return &Config{
		Allocator:      DefaultAllocator,
		PageBufferSize: DefaultPageBufferSize,
		DataPageStats:  true,
		Logger:         log.NewNopLogger(),
	}
}

// Apply applies the given list of options to c.
func (c *Config) Apply(options ...Option) {
	for _, opt := range options {
		opt.Configure(c)
	}
}

// Configure applies configuration options from c to config.
func (c *Config) Configure(config *Config) {
	*config = Config{
		Allocator:      coalesceAllocator(c.Allocator, config.Allocator),
		PageBufferSize: coalesceInt(c.PageBufferSize, config.PageBufferSize),
		DataPageStats:  c.DataPageStats || config.DataPageStats,
		Logger:         coalesceLogger(c.Logger, config.Logger),
	}
}

// Validate returns a non-nil error if the configuration of c is invalid.
func (c *Config) Validate() error {
	const baseName = "chunk.(*Config)."
	return errorInvalidConfiguration(
		validateNotNil(baseName+"Allocator", c.Allocator == nil),
		validatePositiveInt(baseName+"PageBufferSize", c.PageBufferSize),
		validateNotNil(baseName+"Logger", c.Logger == nil),
	)
}

// Option is an interface implemented by types carrying configuration options
// for the page write store.
type Option interface {
	Configure(*Config)
}

// WithAllocator sets the allocator used to copy submitted pages.
func WithAllocator(allocator Allocator) Option {
	return option(func(c *Config) { c.Allocator = allocator })
}

// WithPageBufferSize sets the minimum size of the buffers holding page
// copies.
func WithPageBufferSize(size int) Option {
	return option(func(c *Config) { c.PageBufferSize = size })
}

// WithDataPageStats controls whether per-page statistics are written to the
// data page headers.
func WithDataPageStats(enabled bool) Option {
	return option(func(c *Config) { c.DataPageStats = enabled })
}

// WithLogger sets the logger receiving the per-column flush summaries.
func WithLogger(logger log.Logger) Option {
	return option(func(c *Config) { c.Logger = logger })
}

type option func(*Config)

func (opt option) Configure(c *Config) { opt(c) }

func coalesceAllocator(a1, a2 Allocator) Allocator {
	if a1 != nil {
		return a1
	}
	return a2
}

func coalesceInt(i1, i2 int) int {
	if i1 != 0 {
		return i1
	}
	return i2
}

func coalesceLogger(l1, l2 log.Logger) log.Logger {
	if l1 != nil {
		return l1
	}
	return l2
}

func validateNotNil(name string, isNil bool) error {
	if isNil {
		return fmt.Errorf("%s: cannot be nil", name)
	}
	return nil
}

func validatePositiveInt(name string, value int) error {
	if value <= 0 {
		return fmt.Errorf("%s: cannot be negative or zero: %d", name, value)
	}
	return nil
}

func errorInvalidConfiguration(reasons ...error) error {
	var err *invalidConfiguration

	for _, reason := range reasons {
		if reason != nil {
			if err == nil {
				err = new(invalidConfiguration)
			}
			err.reasons = append(err.reasons, reason)
		}
	}

	if err != nil {
		return err
	}
	return nil
}

type invalidConfiguration struct {
	reasons []error
}

func (err *invalidConfiguration) Error() string {
	errorMessage := new(strings.Builder)
	for _, reason := range err.reasons {
		errorMessage.WriteString(reason.Error())
		errorMessage.WriteString("\n")
	}
	errorString := errorMessage.String()
	if errorString != "" {
		errorString = errorString[:len(errorString)-1]
	}
	return errorString
}
