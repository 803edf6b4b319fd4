package main

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/zoobzio/veil"
)

type maskerConfig struct {
	Name   string `mapstructure:"name"`
	Prefix int    `mapstructure:"prefix"`
	Suffix int    `mapstructure:"suffix"`
}

type config struct {
	Maskers []maskerConfig `mapstructure:"maskers"`
}

func decodeConfig(v *viper.Viper) (*config, error) {
	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, wrap(ErrDecodeConfig, err)
	}
	for _, m := range cfg.Maskers {
		if err := m.validate(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func (m maskerConfig) validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMasker)
	}
	if m.Prefix < 0 || m.Suffix < 0 {
		return fmt.Errorf("%w: %s: prefix and suffix must not be negative", ErrInvalidMasker, m.Name)
	}
	return nil
}

// registry returns the builtin maskers plus those declared in cfg.
// Declared maskers replace builtins of the same name.
func (c *config) registry() *veil.MaskerRegistry {
	r := veil.NewMaskerRegistry()
	if c == nil {
		return r
	}
	for _, m := range c.Maskers {
		r.Register(veil.MaskType(m.Name), veil.PartialMasker(m.Prefix, m.Suffix))
	}
	return r
}
