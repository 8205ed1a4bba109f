package driver

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/xmidt-org/connexec/xviper"
)

// DefaultMaxBatchSize is the default cap on jobs drained per processNextBatch
// call, used whenever configuration does not supply a positive value.
const DefaultMaxBatchSize = 100

// Config is the process-wide, read-once configuration a Driver needs.
// Mirrors device.Options's shape: a plain struct unmarshaled from Viper,
// with a defaulting accessor method that also covers a nil or zero-value
// Config. NewConfig additionally stores the default into the Config it
// returns.
type Config struct {
	// MaxBatchSize bounds how many jobs a single processNextBatch call
	// drains and executes. Must be positive; non-positive or unset values
	// fall back to DefaultMaxBatchSize.
	MaxBatchSize int `json:"maxBatchSize" mapstructure:"maxBatchSize"`
}

// maxBatchSize returns c.MaxBatchSize, defaulting exactly as
// device.Options.deviceMessageQueueSize defaults DeviceMessageQueueSize.
func (c *Config) maxBatchSize() int {
	if c != nil && c.MaxBatchSize > 0 {
		return c.MaxBatchSize
	}

	return DefaultMaxBatchSize
}

// NewConfig loads a Config from v, applying defaults for anything unset or
// invalid. A nil *viper.Viper yields an all-defaults Config. The key read is
// "connexec", following device.NewOptions's single v.Unmarshal(o) idiom.
func NewConfig(v *viper.Viper) *Config {
	c := new(Config)
	if v != nil {
		if sub := v.Sub("connexec"); sub != nil {
			xviper.MustUnmarshal(sub, c)
		}
	}

	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = DefaultMaxBatchSize
	}

	return c
}

// NewViper constructs a *viper.Viper wired with the standard configuration
// search paths and CLI flag overrides for locating a connexec configuration
// file, using xviper's path-discovery helpers.
func NewViper(applicationName string, flagSet *pflag.FlagSet) *viper.Viper {
	v := viper.New()
	xviper.AddStandardConfigPaths(v, applicationName)

	if flagSet != nil {
		xviper.BindConfig(v, flagSet, "file", "name")
	}

	return v
}
