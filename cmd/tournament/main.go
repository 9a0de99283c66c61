// Command tournament runs the whole pursuit-game server: the
// competitor TCP listener, the authentication worker, the orchestrator
// driving every open game, the spectator WebSocket broadcaster, the
// score keeper, and a Prometheus /metrics endpoint. Grounded on the
// teacher's main.go (NewWorld -> Start -> http.ListenAndServe), scaled
// up from one shared world to the multi-subsystem channel topology
// wired below.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/louisdewar/pacman-tournament/internal/auth"
	"github.com/louisdewar/pacman-tournament/internal/competitor"
	"github.com/louisdewar/pacman-tournament/internal/config"
	"github.com/louisdewar/pacman-tournament/internal/events"
	"github.com/louisdewar/pacman-tournament/internal/gamemap"
	"github.com/louisdewar/pacman-tournament/internal/metrics"
	"github.com/louisdewar/pacman-tournament/internal/orchestrator"
	"github.com/louisdewar/pacman-tournament/internal/scorekeeper"
	"github.com/louisdewar/pacman-tournament/internal/spectator"
	"github.com/louisdewar/pacman-tournament/internal/userstore"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	cfg := config.Load()

	mapData, err := loadMap(cfg.MapFile)
	if err != nil {
		log.Fatal().Err(err).Str("map_file", cfg.MapFile).Msg("failed to load map")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := userstore.NewPGStore(ctx, cfg.PGAddress)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer store.Close()

	// Channel topology (spec §5): each arrow below is a Go channel.
	//   competitor -> auth -> orchestrator -> {competitor, spectator, scorekeeper}
	//   auth -> orchestrator -> competitor for rejections it alone can determine.
	toAuth := make(chan events.AuthenticationRequest, 256)
	authRejections := make(chan events.AuthRejected, 256)
	authenticated := make(chan events.Authenticated, 256)
	competitorEvents := make(chan events.CompetitorEvent, 1024)
	spectatorEvents := make(chan events.SpectatorEvent, 1024)

	competitorMgr := competitor.NewManager(toAuth, competitorEvents, log)
	authMgr := auth.New(store, authRejections, authenticated, log)
	scorekeeperMgr := scorekeeper.New(store, log)
	spectatorMgr := spectator.New(store, spectatorEvents, log)
	orchestratorMgr := orchestrator.New(
		mapData, cfg.TickInterval,
		competitorEvents, authenticated, authRejections,
		competitorMgr, scorekeeperMgr, spectatorEvents,
		log,
	)

	go bridgeAuthRequests(ctx, toAuth, authMgr)
	go authMgr.Run(ctx)
	go scorekeeperMgr.Run(ctx)
	go orchestratorMgr.Run(ctx)
	go spectatorMgr.Run(ctx)

	go func() {
		if err := competitorMgr.ListenAndServe(ctx, cfg.CompetitorAddr); err != nil {
			log.Error().Err(err).Msg("competitor listener stopped")
		}
	}()
	go func() {
		if err := spectatorMgr.ListenAndServe(ctx, cfg.SpectatorAddr); err != nil {
			log.Error().Err(err).Msg("spectator listener stopped")
		}
	}()

	metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux()}
	go func() {
		log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics listener started")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics listener stopped")
		}
	}()

	log.Info().
		Str("competitor_addr", cfg.CompetitorAddr).
		Str("spectator_addr", cfg.SpectatorAddr).
		Dur("tick_interval", cfg.TickInterval).
		Msg("tournament server started")

	waitForShutdown(log)
	cancel()
	metricsServer.Close()
}

// bridgeAuthRequests forwards every request the competitor manager
// enqueues to the auth worker's own inbox; it exists because
// competitor.NewManager only knows how to send on a plain channel, not
// call auth.Manager.Submit directly (keeping the two packages
// decoupled from each other's concrete types).
func bridgeAuthRequests(ctx context.Context, toAuth <-chan events.AuthenticationRequest, authMgr *auth.Manager) {
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-toAuth:
			if !ok {
				return
			}
			authMgr.Submit(req)
		}
	}
}

func loadMap(path string) (*gamemap.Map, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return gamemap.NewFromString(string(text))
}

func metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func waitForShutdown(log zerolog.Logger) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	log.Info().Str("signal", s.String()).Msg("shutting down")
}
