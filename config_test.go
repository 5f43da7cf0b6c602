package chunk

import (
	"strings"
	"testing"

	"github.com/go-kit/log"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if err := config.Validate(); err != nil {
		t.Fatalf("the default configuration is invalid: %v", err)
	}
	if config.PageBufferSize != DefaultPageBufferSize {
		t.Errorf("page buffer size: got %d, want %d", config.PageBufferSize, DefaultPageBufferSize)
	}
	if !config.DataPageStats {
		t.Error("per-page statistics are disabled by default")
	}
}

func TestConfigApply(t *testing.T) {
	alloc := new(countingAllocator)
	logger := log.NewNopLogger()

	config := DefaultConfig()
	config.Apply(
		WithAllocator(alloc),
		WithPageBufferSize(128),
		WithDataPageStats(false),
		WithLogger(logger),
	)

	if config.Allocator != alloc {
		t.Error("the allocator option was not applied")
	}
	if config.PageBufferSize != 128 {
		t.Errorf("page buffer size: got %d, want 128", config.PageBufferSize)
	}
	if config.DataPageStats {
		t.Error("per-page statistics were not disabled")
	}
	if err := config.Validate(); err != nil {
		t.Fatalf("the configuration is invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	config := DefaultConfig()
	config.Allocator = nil
	config.PageBufferSize = -1

	err := config.Validate()
	if err == nil {
		t.Fatal("an invalid configuration passed validation")
	}
	for _, want := range []string{"Allocator", "PageBufferSize"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("validation error does not mention %s: %v", want, err)
		}
	}
}
