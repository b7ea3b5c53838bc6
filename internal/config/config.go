// Package config loads server settings from flags and environment
// variables, grounded on cmd/server/main.go's configVar[T]/loadAppConfig
// pattern (pflag registration, viper binding, env override).
package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	port = configVar[int]{
		envKey:       "SOUNDROOM_PORT",
		flagKey:      "port",
		defaultValue: 15230,
	}
	host = configVar[string]{
		envKey:       "SOUNDROOM_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "SOUNDROOM_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	roomsLimit = configVar[int]{
		envKey:       "SOUNDROOM_ROOMS_LIMIT",
		flagKey:      "rooms-limit",
		defaultValue: 0,
	}
	crossfadeMax = configVar[float64]{
		envKey:       "SOUNDROOM_CROSSFADE_MAX",
		flagKey:      "crossfade-max",
		defaultValue: 8.0,
	}
)

// Config is the fully resolved runtime configuration.
type Config struct {
	Host         string  `json:"host"`
	Port         int     `json:"port"`
	LogLevel     string  `json:"log_level"`
	RoomsLimit   int     `json:"rooms_limit"`
	CrossfadeMax float64 `json:"crossfade_max"`
}

// Load registers flags on pflag.CommandLine, parses them, binds env
// overrides through viper, and returns the resolved Config.
func Load() *Config {
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Int(roomsLimit.flagKey, roomsLimit.defaultValue, "Maximum number of concurrently open rooms (0 = unbounded)")
	pflag.Float64(crossfadeMax.flagKey, crossfadeMax.defaultValue, "Maximum crossfade duration in seconds")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(roomsLimit.flagKey, roomsLimit.envKey)
	viper.BindEnv(crossfadeMax.flagKey, crossfadeMax.envKey)

	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(roomsLimit.flagKey, roomsLimit.defaultValue)
	viper.SetDefault(crossfadeMax.flagKey, crossfadeMax.defaultValue)

	return &Config{
		Host:         viper.GetString(host.flagKey),
		Port:         viper.GetInt(port.flagKey),
		LogLevel:     viper.GetString(logLevel.flagKey),
		RoomsLimit:   viper.GetInt(roomsLimit.flagKey),
		CrossfadeMax: viper.GetFloat64(crossfadeMax.flagKey),
	}
}
