package tuner

import (
	"flag"
	"time"

	"github.com/zachfi/zkit/pkg/util"

	"github.com/zachfi/radikgo/pkg/radiko"
)

const (
	defaultPlayer           = "ffplay"
	defaultReconnectInitial = 5 * time.Second
	defaultReconnectMax     = 60 * time.Second
)

type Config struct {
	StationID string        `yaml:"station-id,omitempty"`
	Email     string        `yaml:"email,omitempty"`
	Password  radiko.Secret `yaml:"password,omitempty"`
	Player    string        `yaml:"player,omitempty"`

	ReconnectBackoff    time.Duration `yaml:"reconnect-backoff,omitempty"`     // initial delay before re-resolving after the player exits
	ReconnectBackoffMax time.Duration `yaml:"reconnect-backoff-max,omitempty"` // cap on the re-resolve delay (exponential backoff)

	// Endpoints overrides the service URLs; zero means the defaults. YAML
	// only, no flags.
	Endpoints radiko.Endpoints `yaml:"endpoints,omitempty"`
}

func (cfg *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.StationID, util.PrefixConfig(prefix, "station-id"), "", "The station ID to tune, e.g. TBS")
	f.StringVar(&cfg.Email, util.PrefixConfig(prefix, "email"), "", "Member account email. With a password this unlocks area-free playback.")
	f.Var(&cfg.Password, util.PrefixConfig(prefix, "password"), "Member account password.")
	f.StringVar(&cfg.Player, util.PrefixConfig(prefix, "player"), defaultPlayer,
		"External player binary handed the resolved stream URL (ffplay and mpv receive the auth header automatically).")
	f.DurationVar(&cfg.ReconnectBackoff, util.PrefixConfig(prefix, "reconnect-backoff"), defaultReconnectInitial,
		"Initial delay before re-resolving the stream after the player exits or resolution fails. Exponential backoff is used up to reconnect-backoff-max.")
	f.DurationVar(&cfg.ReconnectBackoffMax, util.PrefixConfig(prefix, "reconnect-backoff-max"), defaultReconnectMax,
		"Maximum delay between re-resolve attempts.")
}
