package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"sovereign/internal/accesslog"
	"sovereign/internal/admission"
	"sovereign/internal/anchor/device"
	"sovereign/internal/anchor/face"
	"sovereign/internal/anchor/finger"
	"sovereign/internal/anchor/position"
	"sovereign/internal/breach"
	"sovereign/internal/camera"
	"sovereign/internal/camera/httpcam"
	"sovereign/internal/cohesion"
	cohesionmetrics "sovereign/internal/cohesion/metrics"
	"sovereign/internal/command"
	commandmetrics "sovereign/internal/command/metrics"
	"sovereign/internal/duress"
	duressmetrics "sovereign/internal/duress/metrics"
	"sovereign/internal/intruder"
	intrudermetrics "sovereign/internal/intruder/metrics"
	jwttoken "sovereign/internal/jwt_token"
	"sovereign/internal/lock"
	lockmetrics "sovereign/internal/lock/metrics"
	"sovereign/internal/mint"
	"sovereign/internal/platform/config"
	"sovereign/internal/platform/httpserver"
	"sovereign/internal/platform/metrics"
	redisclient "sovereign/internal/platform/redis"
	"sovereign/internal/processguard"
	"sovereign/internal/profile"
	"sovereign/internal/storage"
	"sovereign/internal/template"
	httptransport "sovereign/internal/transport/http"
	"sovereign/pkg/platform/audit/publisher"
	auditsqlite "sovereign/pkg/platform/audit/store/sqlite"
)

const (
	presenceIssuer   = "sovereign-guard"
	presenceAudience = "sovereign-desktop"
)

// runCmd starts the guard daemon
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the guard and its local control API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, err := build(ctx, cfg, log)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "starting guard", "addr", cfg.Server.Addr, "state_dir", cfg.Storage.StateDir)
		return g.run(ctx)
	},
}

// guard is the wired daemon. closers release resources in reverse order.
type guard struct {
	cfg    config.Config
	logger *slog.Logger
	router http.Handler

	lock     *lock.Service
	commands *command.Service
	monitor  *intruder.Monitor
	position *position.Anchor
	locator  position.Locator
	minter   *mint.Dispatcher

	closers []func()
}

func (g *guard) close() {
	for _, c := range slices.Backward(g.closers) {
		c()
	}
	g.closers = nil
}

func build(ctx context.Context, cfg config.Config, logger *slog.Logger) (g *guard, err error) {
	g = &guard{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			g.close()
		}
	}()

	db, err := storage.OpenSQLite(cfg.Storage.SQLitePath)
	if err != nil {
		return nil, err
	}
	g.closers = append(g.closers, func() { _ = db.Close() })
	kv := storage.NewSQLiteKV(db)
	reg := metrics.New()

	auditStore, err := auditsqlite.New(ctx, db)
	if err != nil {
		return nil, err
	}
	auditor := publisher.NewPublisher(auditStore, publisher.WithAsyncBuffer(256), publisher.WithLogger(logger))
	g.closers = append(g.closers, auditor.Close)

	var profiles profile.Store = profile.NewInMemoryStore()
	if cfg.Profile.PostgresDSN != "" {
		pool, err := profile.Connect(ctx, cfg.Profile.PostgresDSN)
		if err != nil {
			return nil, err
		}
		g.closers = append(g.closers, pool.Close)
		profiles = profile.NewPostgres(pool)
	}

	sinks := accesslog.Multi{accesslog.NewSlogSink(logger)}
	if len(cfg.AccessLog.KafkaBrokers) > 0 {
		kafka, err := accesslog.NewKafkaSink(cfg.AccessLog.KafkaBrokers, cfg.AccessLog.KafkaTopic, accesslog.WithKafkaLogger(logger))
		if err != nil {
			return nil, err
		}
		g.closers = append(g.closers, kafka.Close)
		sinks = append(sinks, kafka)
	}

	templates := template.NewStore(kv, template.WithProfileMirror(profiles), template.WithLogger(logger))

	// Anchors
	g.locator = newLocator(cfg.Cohesion)
	g.position = position.New(g.locator, position.WithTimeout(cfg.Cohesion.PositionTimeout))
	dev := device.New(kv, device.Collect(cfg.Cohesion.ScreenWidth, cfg.Cohesion.ScreenHeight, cfg.Cohesion.UserAgent))
	session := camera.NewSession(&httpcam.Device{URL: cfg.Cohesion.CameraURL})
	g.closers = append(g.closers, func() { _ = session.Close() })
	faceAnchor := face.New(session,
		face.WithLivenessMin(cfg.Cohesion.LivenessMin),
		face.WithLivenessGap(cfg.Cohesion.LivenessGap),
	)
	// No platform authenticator is wired on the daemon host; the finger
	// anchor reports simulated matches.
	fingerAnchor := finger.New(nil, finger.WithTimeout(cfg.Cohesion.FingerTimeout), finger.WithLogger(logger))

	verifier, err := cohesion.New(templates, g.position, dev, faceAnchor, fingerAnchor,
		cohesion.WithWindow(cfg.Cohesion.Window),
		cohesion.WithMaxDistance(cfg.Cohesion.MaxDistanceM),
		cohesion.WithFaceTolerance(cfg.Cohesion.FaceTolerance),
		cohesion.WithAccessLog(sinks),
		cohesion.WithLogger(logger),
		cohesion.WithMetrics(cohesionmetrics.New(reg.Registry)),
	)
	if err != nil {
		return nil, err
	}

	duressSvc, err := duress.New(kv,
		duress.WithMultiplier(cfg.Duress.Multiplier),
		duress.WithLogger(logger),
		duress.WithAuditPublisher(auditor),
		duress.WithMetrics(duressmetrics.New(reg.Registry)),
	)
	if err != nil {
		return nil, err
	}
	if err := duressSvc.Load(ctx); err != nil {
		return nil, fmt.Errorf("load duress state: %w", err)
	}

	var trigger mint.Trigger = mint.Nop{}
	if cfg.Profile.MintURL != "" {
		trigger = mint.NewHTTPTrigger(cfg.Profile.MintURL, &http.Client{Timeout: 30 * time.Second})
	}
	g.minter = mint.NewDispatcher(trigger, logger)

	admissionOpts := []admission.Option{
		admission.WithMinter(g.minter),
		admission.WithEnrollment(admission.Enrollment{
			Templates: templates,
			Position:  g.position,
			Face:      faceAnchor,
			Finger:    fingerAnchor,
		}),
		admission.WithAccessLog(sinks),
		admission.WithLogger(logger),
		admission.WithAuditPublisher(auditor),
	}
	if cfg.Duress.PulseURL != "" {
		admissionOpts = append(admissionOpts, admission.WithPulseSensor(duress.HTTPPulseSensor{
			URL:    cfg.Duress.PulseURL,
			Client: &http.Client{Timeout: 5 * time.Second},
		}))
	}
	admissionSvc, err := admission.New(verifier, duressSvc, dev, profiles, admissionOpts...)
	if err != nil {
		return nil, err
	}

	// Breach evidence
	breachStore, err := breach.NewSQLiteStore(ctx, db)
	if err != nil {
		return nil, err
	}
	vault, err := breach.NewVault(cfg.Breach.Salt, breach.Environment())
	if err != nil {
		return nil, err
	}
	recorderOpts := []breach.Option{breach.WithLogger(logger)}
	if cfg.Breach.S3Bucket != "" {
		exporter, err := breach.NewS3Exporter(ctx, breach.S3Config{
			Bucket:    cfg.Breach.S3Bucket,
			Prefix:    cfg.Breach.S3Prefix,
			Region:    cfg.Breach.S3Region,
			Endpoint:  cfg.Breach.S3Endpoint,
			PathStyle: cfg.Breach.S3Endpoint != "",
		})
		if err != nil {
			return nil, err
		}
		recorderOpts = append(recorderOpts, breach.WithExporter(exporter))
	}
	recorder, err := breach.NewRecorder(breachStore, vault, recorderOpts...)
	if err != nil {
		return nil, err
	}

	g.monitor, err = intruder.New(session, templates, recorder,
		intruder.WithTick(cfg.Intruder.Tick),
		intruder.WithTolerance(cfg.Intruder.Tolerance),
		intruder.WithThresholds(cfg.Intruder.ProximityThreshold, cfg.Intruder.SnapThreshold),
		intruder.WithLookAwayTimeout(cfg.Intruder.LookAwayTimeout),
		intruder.WithClipLength(cfg.Intruder.ClipLength),
		intruder.WithLogger(logger),
		intruder.WithAuditPublisher(auditor),
		intruder.WithMetrics(intrudermetrics.New(reg.Registry)),
	)
	if err != nil {
		return nil, err
	}

	var acker processguard.Acknowledger = processguard.LogAcknowledger{Logger: logger}
	if cfg.Presence.NotifyURL != "" {
		acker = processguard.NewHTTPAcknowledger(cfg.Presence.NotifyURL, &http.Client{Timeout: 5 * time.Second})
	}
	presence, err := processguard.New(
		jwttoken.NewJWTService(cfg.Presence.SigningKey, presenceIssuer, presenceAudience),
		acker,
		processguard.WithTokenTTL(cfg.Presence.TokenTTL),
		processguard.WithDeviceID(dev.CurrentID),
		processguard.WithLogger(logger),
		processguard.WithAuditPublisher(auditor),
	)
	if err != nil {
		return nil, err
	}

	view := lock.NewViewModel()
	g.lock, err = lock.New(kv, view, view,
		lock.WithMonitor(g.monitor),
		lock.WithVerifier(admissionSvc),
		lock.WithPresenceReleaser(presence),
		lock.WithLogger(logger),
		lock.WithAuditPublisher(auditor),
		lock.WithMetrics(lockmetrics.New(reg.Registry)),
	)
	if err != nil {
		return nil, err
	}
	presence.SetLocker(g.lock)
	g.monitor.OnLookAway(g.lock.LookAway)

	// Command channel
	var bus command.Bus = command.NewMemoryBus()
	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		g.closers = append(g.closers, func() { _ = rc.Close() })
		bus = command.NewRedisBus(rc.Client, cfg.Commands.BroadcastChannel, logger)
	}
	commandMetrics := commandmetrics.New(reg.Registry)
	remote := command.NewRemote(
		command.WithPushURL(cfg.Commands.PushURL),
		command.WithPollURL(cfg.Commands.PollURL),
		command.WithPollInterval(cfg.Commands.PollInterval),
		command.WithPushRetryInterval(cfg.Commands.PushRetryInterval),
		command.WithRemoteLogger(logger),
		command.WithRemoteMetrics(commandMetrics),
	)
	g.commands, err = command.New(bus,
		command.WithMirror(command.NewFileMirror(cfg.Storage.StateDir, logger)),
		command.WithRemote(remote),
		command.WithDeVitalizeToken(cfg.Commands.DeVitalizeToken),
		command.WithLogger(logger),
		command.WithAuditPublisher(auditor),
		command.WithMetrics(commandMetrics),
	)
	if err != nil {
		return nil, err
	}
	g.commands.Subscribe(func(ctx context.Context, ev command.Event) {
		switch ev.Type {
		case command.TypeLock:
			g.lock.Lock(ctx, lock.TriggerCommand)
		case command.TypeDeVitalize:
			g.lock.RemoteLock(ctx)
		}
	})

	handler := httptransport.New(httptransport.Services{
		Lock:       g.lock,
		Admission:  admissionSvc,
		Shadow:     duressSvc,
		Transfers:  duress.NewGuard(duressSvc, logger, auditor),
		Breaches:   recorder,
		Intercepts: presence,
		Commands:   g.commands,
		Monitor:    g.monitor,
		View:       view,
		Audit:      auditor,
		DeviceID:   dev.CurrentID,
	}, logger)
	g.router = httptransport.NewRouter(handler, reg, logger)
	return g, nil
}

// run restores the persisted lock, then serves until ctx is done.
func (g *guard) run(ctx context.Context) error {
	defer g.close()

	if err := g.lock.Restore(ctx); err != nil {
		return fmt.Errorf("restore lock state: %w", err)
	}

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		return g.commands.Run(gctx)
	})
	grp.Go(func() error {
		g.refreshPosition(gctx)
		return nil
	})
	grp.Go(func() error {
		return httpserver.Run(gctx, httpserver.New(g.cfg.Server.Addr, g.router))
	})
	err := grp.Wait()

	g.monitor.Stop()
	g.minter.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}

// newLocator prefers the positioning service and falls back to pinned
// coordinates. Nil means the host has no position source.
func newLocator(c config.Cohesion) position.Locator {
	switch {
	case c.LocatorURL != "":
		return position.HTTPLocator{URL: c.LocatorURL, Client: &http.Client{Timeout: c.PositionTimeout}}
	case c.StaticPosition != nil:
		return position.StaticLocator{Fix: position.Fix{
			Latitude:  c.StaticPosition.Latitude,
			Longitude: c.StaticPosition.Longitude,
			Accuracy:  c.StaticPosition.Accuracy,
		}}
	default:
		return nil
	}
}

// refreshPosition keeps a recent fix available to the verifier. A failed
// acquisition leaves the anchor failed until the next refresh.
func (g *guard) refreshPosition(ctx context.Context) {
	if g.locator == nil {
		g.logger.WarnContext(ctx, "no locator configured; position anchor stays failed")
		return
	}
	acquire := func() {
		if _, err := g.position.Acquire(ctx); err != nil && ctx.Err() == nil {
			g.logger.WarnContext(ctx, "position fix failed", "error", err)
		}
	}
	acquire()
	if g.cfg.Cohesion.PositionRefresh <= 0 {
		return
	}
	ticker := time.NewTicker(g.cfg.Cohesion.PositionRefresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			acquire()
		}
	}
}
