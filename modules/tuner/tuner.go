package tuner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/grafana/dskit/backoff"
	"github.com/grafana/dskit/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zachfi/radikgo/pkg/radiko"
)

// Tuner negotiates a radiko session, resolves the media playlist for the
// configured station and hands it to an external player process. When the
// player exits or resolution fails it backs off and re-resolves; an
// authentication failure triggers a session refresh first.
type Tuner struct {
	services.Service
	cfg    *Config
	logger *slog.Logger
	client *radiko.Client
}

var module = "tuner"

var (
	metricResolves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "radikgo",
		Name:      "tuner_stream_resolves_total",
		Help:      "Stream resolution attempts by outcome.",
	}, []string{"outcome"})
	metricSessionRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "radikgo",
		Name:      "tuner_session_refreshes_total",
		Help:      "Session re-negotiations triggered by authentication failures.",
	})
	metricPlayerStarts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "radikgo",
		Name:      "tuner_player_starts_total",
		Help:      "External player process launches.",
	})
)

// New creates and returns a new Tuner.
func New(cfg Config, logger slog.Logger) (*Tuner, error) {
	if cfg.StationID == "" {
		return nil, fmt.Errorf("station-id is required")
	}
	if cfg.Player == "" {
		cfg.Player = defaultPlayer
	}
	if cfg.ReconnectBackoff == 0 {
		cfg.ReconnectBackoff = defaultReconnectInitial
	}
	if cfg.ReconnectBackoffMax == 0 {
		cfg.ReconnectBackoffMax = defaultReconnectMax
	}

	t := &Tuner{
		cfg:    &cfg,
		logger: logger.With("module", module),
	}

	t.Service = services.NewBasicService(t.starting, t.running, t.stopping)

	return t, nil
}

func (t *Tuner) starting(ctx context.Context) error {
	var creds *radiko.Credentials
	if t.cfg.Email != "" {
		creds = &radiko.Credentials{Email: t.cfg.Email, Password: t.cfg.Password}
	}

	client, err := radiko.New(ctx, radiko.Config{Endpoints: t.cfg.Endpoints, Credentials: creds}, t.logger)
	if err != nil {
		t.logger.Error("error negotiating session", "err", err)
		return err
	}

	t.client = client

	return nil
}

func (t *Tuner) running(ctx context.Context) error {
	boff := backoff.New(ctx, backoff.Config{
		MinBackoff: t.cfg.ReconnectBackoff,
		MaxBackoff: t.cfg.ReconnectBackoffMax,
	})

	for boff.Ongoing() {
		err := t.playOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			// Player exited cleanly (stream ended); restart from the
			// initial delay. The wait below still applies so a player
			// that exits immediately cannot spin the loop.
			boff.Reset()
		} else {
			t.logger.Error("playback ended", "station", t.cfg.StationID, "err", err)

			if isAuthFailure(err) {
				metricSessionRefreshes.Inc()
				if _, rerr := t.client.Refresh(ctx); rerr != nil {
					t.logger.Error("session refresh failed", "err", rerr)
				}
			}
		}

		boff.Wait()
	}

	return nil
}

func (t *Tuner) stopping(_ error) error {
	return nil
}

func (t *Tuner) playOnce(ctx context.Context) error {
	mediaURL, err := t.client.ResolveStream(ctx, t.cfg.StationID)
	if err != nil {
		metricResolves.WithLabelValues("failure").Inc()
		return fmt.Errorf("resolving stream for %s: %w", t.cfg.StationID, err)
	}
	metricResolves.WithLabelValues("success").Inc()

	name, args := playerCommand(t.cfg.Player, t.client.Session().AuthToken, mediaURL)

	t.logger.Info("starting player", "player", name, "station", t.cfg.StationID)
	metricPlayerStarts.Inc()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// playerCommand builds the argument list for the external player. The
// resolved media playlist requires the auth token header; ffplay and mpv
// have different spellings for it, any other player gets just the URL.
func playerCommand(player string, token radiko.Secret, mediaURL string) (string, []string) {
	header := "X-Radiko-Authtoken: " + token.Reveal()

	switch filepath.Base(player) {
	case "ffplay":
		return player, []string{"-nodisp", "-loglevel", "warning", "-headers", header, mediaURL}
	case "mpv":
		return player, []string{"--no-video", "--http-header-fields=" + header, mediaURL}
	default:
		return player, []string{mediaURL}
	}
}

// isAuthFailure reports whether the service turned us away rather than the
// stream merely failing, meaning the token has likely been invalidated.
func isAuthFailure(err error) bool {
	var statusErr *radiko.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden
	}
	return false
}
