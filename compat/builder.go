package compat

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/daylog"
)

// Builder creates adapters for gnet and fasthttp sharing one logger.
// It can use an existing *daylog.Logger or create one from a *daylog.Config.
type Builder struct {
	logger *daylog.Logger
	logCfg *daylog.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters.
// If this is set WithConfig is ignored.
func (b *Builder) WithLogger(l *daylog.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("daylog/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new logger instance,
// used only if no logger was given via WithLogger
func (b *Builder) WithConfig(cfg *daylog.Config) *Builder {
	b.logCfg = cfg
	return b
}

// getLogger resolves the logger, creating and starting one if necessary
func (b *Builder) getLogger() (*daylog.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.logger != nil {
		return b.logger, nil
	}

	l := daylog.NewLogger()
	cfg := b.logCfg
	if cfg == nil {
		cfg = daylog.DefaultConfig()
	}

	// A disabled logger is still usable, writes become no-ops
	if err := l.ApplyConfig(cfg); err != nil && !errors.Is(err, daylog.ErrDisabled) {
		return nil, err
	}
	if err := l.Start(); err != nil {
		return nil, err
	}

	// Cache the newly created logger for subsequent builds with this builder
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildStructuredGnet creates a gnet adapter that rewrites "key=%v" verbs into key=value pairs
func (b *Builder) BuildStructuredGnet(opts ...GnetOption) (*StructuredGnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewStructuredGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// GetLogger returns the underlying logger, creating it if needed
func (b *Builder) GetLogger() (*daylog.Logger, error) {
	return b.getLogger()
}

// Example:
//
//	appLogger, err := daylog.NewBuilder().Directory("/var/log/app").Build()
//	if err != nil { /* handle error */ }
//	_ = appLogger.Start()
//	defer appLogger.Shutdown()
//
//	builder := compat.NewBuilder().WithLogger(appLogger)
//	gnetLogger, _ := builder.BuildGnet()
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
