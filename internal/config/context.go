package config

import "context"

type (
	cfgKey  struct{}
	fileKey struct{}
)

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, cfgKey{}, cfg)
}

// FromContext returns the Config stored in ctx, or Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(cfgKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}

// NewContextWithConfigFile returns a child context carrying the path of
// the config file in use. Presets are read from it.
func NewContextWithConfigFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, fileKey{}, path)
}

// ConfigFileFromContext returns the config file path stored in ctx, or "".
func ConfigFileFromContext(ctx context.Context) string {
	p, _ := ctx.Value(fileKey{}).(string)
	return p
}
