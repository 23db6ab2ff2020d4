package providers

import (
	"fmt"
	"github.com/gookit/validate"
	"logmerge/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.String())
	}

	if c.conf.Match.MaxDelay < c.conf.Match.MinDelay {
		return fmt.Errorf("invalid config: match.maxDelay %s is below match.minDelay %s", c.conf.Match.MaxDelay, c.conf.Match.MinDelay)
	}
	if c.conf.Cache.Enabled && c.conf.Cache.Size <= 0 {
		return fmt.Errorf("invalid config: cache.size must be positive when the cache is enabled")
	}
	if c.conf.Metrics.Enabled && c.conf.Metrics.Textfile == "" {
		return fmt.Errorf("invalid config: metrics.textfile is required when metrics are enabled")
	}
	return nil
}
