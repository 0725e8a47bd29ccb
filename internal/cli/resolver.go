package cli

import (
	"context"

	"github.com/matzehuels/trackermeta/pkg/config"
	"github.com/matzehuels/trackermeta/pkg/integrations/modarchive"
)

// settings loads the config file and applies environment and flags.
func (c *CLI) settings() (config.Config, error) {
	path := c.flags.configPath
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(c.getenv)

	if c.flags.apiKey != "" {
		cfg.APIKey = c.flags.apiKey
	}
	if c.flags.kind != "" {
		cfg.Kind = c.flags.kind
	}
	if c.flags.retries > 0 {
		cfg.Retry.Attempts = c.flags.retries
		cfg.Retry.Infinite = false
	}
	if c.flags.infinite {
		cfg.Retry.Infinite = true
	}
	return cfg, nil
}

// newResolver builds a resolver from the effective settings. A broken
// line-overrides file is reported and the compiled anchors are used.
func (c *CLI) newResolver(ctx context.Context) (*modarchive.Resolver, error) {
	logger := loggerFromContext(ctx)
	cfg, err := c.settings()
	if err != nil {
		return nil, err
	}
	anchors, err := cfg.AnchorSet()
	if err != nil {
		logger.Warn("ignoring line overrides", "err", err)
	}

	opts := cfg.Options(anchors, logger)
	opts.Transport = c.transport
	return modarchive.New(opts)
}
