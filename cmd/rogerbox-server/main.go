package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rogerbox/rogerbox/internal/adapters/httpapi"
	"github.com/rogerbox/rogerbox/internal/adapters/memorybus"
	"github.com/rogerbox/rogerbox/internal/adapters/rediscache"
	"github.com/rogerbox/rogerbox/internal/adapters/s3media"
	"github.com/rogerbox/rogerbox/internal/adapters/sqldb"
	"github.com/rogerbox/rogerbox/internal/app"
	"github.com/rogerbox/rogerbox/internal/auth"
	"github.com/rogerbox/rogerbox/internal/buildinfo"
	"github.com/rogerbox/rogerbox/internal/config"
	"github.com/rogerbox/rogerbox/internal/logging"
	"github.com/rogerbox/rogerbox/internal/ports"
	"github.com/rogerbox/rogerbox/internal/telemetry"
)

var (
	logger zerolog.Logger
	cfg    config.Config

	flagAddr    string
	flagDSN     string
	flagDotenvs []string
)

var rootCmd = &cobra.Command{
	Use:           "rogerbox-server",
	Short:         "API RogerBox (complément du jour, cours, suivi)",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Démarre l'API HTTP et les tâches de fond",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Affiche la version",
	Run: func(cmd *cobra.Command, args []string) {
		info := buildinfo.Current()
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, %s)\n", info.Version, info.Commit, info.Date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAddr, "addr", "", "Adresse d'écoute (remplace ROGERBOX_ADDR)")
	rootCmd.PersistentFlags().StringVar(&flagDSN, "db", "", "DSN de la base (remplace ROGERBOX_DB_DSN)")
	rootCmd.PersistentFlags().StringSliceVar(&flagDotenvs, "env-file", nil, "Fichiers .env à charger")
	rootCmd.AddCommand(serveCmd, migrateCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(flagDotenvs...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}
	if flagDSN != "" {
		cfg.DB.DSN = flagDSN
	}

	logger = logging.Setup(cfg.Env, "rogerbox-server")
	for _, w := range cfg.Warnings {
		logger.Warn().Msg(w)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	logger.Info().Interface("build", buildinfo.Current()).Str("db_driver", cfg.DB.Driver).Msg("starting")

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sqldb.Open(shutdownCtx, cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	rt, err := wire(shutdownCtx, cfg, logger, db)
	if err != nil {
		return err
	}
	defer rt.close()

	go rt.metrics.CountBusEvents(shutdownCtx, rt.bus)
	// Publisher : publie les compléments programmés (publishAt échu).
	go rt.publisher.Run(shutdownCtx)
	// Updater : recalcule la progression (leçon terminée, leçons ajoutées ou retirées).
	go rt.updater.Run(shutdownCtx)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           rt.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("timezone", cfg.Location().String()).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server crashed")
			stop()
		}
	}()

	<-shutdownCtx.Done()
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
	logger.Info().Msg("bye")
	return nil
}

// runtime regroupe ce que serve démarre ; close libère bus et cache.
type runtime struct {
	handler   http.Handler
	bus       *memorybus.Bus
	metrics   *telemetry.Metrics
	publisher *app.ComplementPublisher
	updater   *app.ProgressUpdater
	closers   []func()
}

func (rt *runtime) close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}

// wire construit services et routeur sur une base déjà migrée, et promeut les
// comptes listés dans ROGERBOX_ADMIN_EMAILS.
func wire(ctx context.Context, cfg config.Config, logger zerolog.Logger, db *sqldb.DB) (*runtime, error) {
	bus := memorybus.New()
	rt := &runtime{bus: bus, metrics: telemetry.New(), closers: []func(){bus.Close}}

	var catalog ports.CatalogCache = rediscache.Noop{}
	if cfg.Redis.Addr != "" {
		c := rediscache.New(ctx, rediscache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.CatalogTTL,
		}, logger)
		rt.closers = append(rt.closers, func() { _ = c.Close() })
		catalog = c
	}

	var signer ports.UploadSigner
	if cfg.S3.Bucket != "" {
		s, err := s3media.New(s3media.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
			PublicBaseURL:   cfg.S3.PublicBaseURL,
		})
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("object storage: %w", err)
		}
		signer = s
	} else {
		logger.Info().Msg("object storage not configured, uploads disabled")
	}

	users := sqldb.NewUsersRepository(db.SQL)
	courses := sqldb.NewCoursesRepository(db.SQL)
	progress := sqldb.NewProgressRepository(db.SQL)
	complements := sqldb.NewComplementsRepository(db.SQL)

	loc := cfg.Location()
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	policy := app.NewConfigPolicy(cfg.Auth.AdminUserIDs)
	authSvc := app.NewAuthService(users, issuer, policy, app.NewLimiter(cfg.Auth.HashConcurrency))

	promoted, err := authSvc.PromoteAdmins(ctx, cfg.Auth.AdminEmails)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("promote admins: %w", err)
	}
	for _, u := range promoted {
		logger.Info().Str("user_id", u.ID).Str("email", u.Email).Msg("account promoted to admin")
	}

	complementSvc := app.NewComplementService(complements, bus)
	progressSvc := app.NewProgressService(progress, courses, bus)
	services := httpapi.Services{
		Auth:        authSvc,
		Profile:     app.NewProfileService(users, policy),
		Courses:     app.NewCourseService(courses, catalog, bus),
		Progress:    progressSvc,
		Weights:     app.NewWeightService(sqldb.NewWeightsRepository(db.SQL), users, loc),
		Complements: complementSvc,
		Daily:       app.NewDailyContentScheduler(logger, complements, loc).WithObserver(rt.metrics),
		Banners:     app.NewBannerService(sqldb.NewBannersRepository(db.SQL), bus),
		Stats:       app.NewStatsService(sqldb.NewStatsRepository(db.SQL)),
		Uploads:     app.NewUploadService(signer, cfg.S3.UploadTTL),
	}

	rt.publisher = app.NewComplementPublisher(logger, complementSvc, rt.metrics)
	rt.publisher.TickInterval = cfg.Content.PublishInterval
	rt.updater = app.NewProgressUpdater(logger, bus, progressSvc)
	rt.handler = httpapi.NewServer(logger, services, issuer, policy, bus, rt.metrics).Router()
	return rt, nil
}
