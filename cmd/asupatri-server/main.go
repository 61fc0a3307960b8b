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

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/asupatri/asupatri/internal/config"
	"github.com/asupatri/asupatri/internal/domain/appointment"
	"github.com/asupatri/asupatri/internal/domain/doctor"
	"github.com/asupatri/asupatri/internal/domain/hospital"
	"github.com/asupatri/asupatri/internal/domain/identity"
	"github.com/asupatri/asupatri/internal/platform/auth"
	"github.com/asupatri/asupatri/internal/platform/db"
	"github.com/asupatri/asupatri/internal/platform/geo"
	"github.com/asupatri/asupatri/internal/platform/middleware"
	"github.com/asupatri/asupatri/internal/platform/telemetry"
	"github.com/asupatri/asupatri/internal/platform/validation"
)

// doctorUserDirectory adapts the identity account store to the narrow view
// the doctor roster needs, translating sentinel errors across the domain
// boundary.
type doctorUserDirectory struct {
	users identity.UserRepository
}

func (d *doctorUserDirectory) CreateDoctorUser(ctx context.Context, email, passwordHash string, fullName *string) (uuid.UUID, error) {
	u := &identity.User{Email: email, PasswordHash: passwordHash, Role: auth.RoleDoctor, FullName: fullName}
	if err := d.users.Create(ctx, u); err != nil {
		if errors.Is(err, identity.ErrDuplicateEmail) {
			return uuid.Nil, doctor.ErrEmailTaken
		}
		return uuid.Nil, err
	}
	return u.ID, nil
}

func (d *doctorUserDirectory) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := d.users.Delete(ctx, id)
	if errors.Is(err, identity.ErrNotFound) {
		return doctor.ErrNotFound
	}
	return err
}

// adminDirectory resolves an admin's hospital from the identity admin links.
type adminDirectory struct {
	admins identity.AdminRepository
}

func (a *adminDirectory) HospitalForAdmin(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	link, err := a.admins.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return uuid.Nil, doctor.ErrNotFound
		}
		return uuid.Nil, err
	}
	return link.HospitalID, nil
}

// scheduleSource exposes the doctor schedule windows to the booking flow.
type scheduleSource struct {
	schedules doctor.ScheduleRepository
}

func (s *scheduleSource) WindowsForDay(ctx context.Context, doctorID uuid.UUID, day int) ([]appointment.Window, error) {
	windows, err := s.schedules.ListByDoctorDay(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}
	out := make([]appointment.Window, 0, len(windows))
	for _, w := range windows {
		out = append(out, appointment.Window{Start: w.StartTime, End: w.EndTime})
	}
	return out, nil
}

// doctorSource resolves doctors for the booking flow.
type doctorSource struct {
	doctors doctor.Repository
}

func (s *doctorSource) DoctorIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	d, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			return uuid.Nil, appointment.ErrNotFound
		}
		return uuid.Nil, err
	}
	return d.ID, nil
}

func (s *doctorSource) HospitalForDoctor(ctx context.Context, doctorID uuid.UUID) (uuid.UUID, error) {
	d, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			return uuid.Nil, appointment.ErrNotFound
		}
		return uuid.Nil, err
	}
	return d.HospitalID, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "asupatri-server",
		Short: "Hospital appointment booking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(locateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the booking API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample hospitals when the directory is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.SeedHospitals(ctx, pool)
			if err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			if count == 0 {
				fmt.Println("Hospitals already present, nothing seeded.")
			} else {
				fmt.Printf("Seeded %d hospital(s).\n", count)
			}
			return nil
		},
	}
}

func locateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Resolve the server's approximate coordinate via the provider chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			chain := geo.Chain{
				geo.NewIPAPICoProvider(),
				geo.NewIPAPIProvider(),
				geo.Static{Point: geo.Point{Lat: cfg.DefaultLat, Lon: cfg.DefaultLon}},
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			pt, err := chain.Locate(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("lat=%.4f lon=%.4f\n", pt.Lat, pt.Lon)
			return nil
		},
	}
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	if cfg.IsDev() && cfg.SeedOnStart {
		if count, err := db.SeedHospitals(ctx, pool); err != nil {
			logger.Warn().Err(err).Msg("hospital seeding failed")
		} else if count > 0 {
			logger.Info().Int("count", count).Msg("seeded sample hospitals")
		}
	}

	tp := telemetry.NewProvider(telemetry.Config{
		ServiceName:    "asupatri-server",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Env,
	})
	defer tp.Shutdown(ctx)

	issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret), time.Duration(cfg.TokenTTLHours)*time.Hour)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(tp.TracingMiddleware())
	e.Use(tp.MetricsMiddleware())
	e.Use(auth.JWTMiddleware(issuer, auth.AuthSkipper))
	e.Use(middleware.Audit(logger))

	apiV1 := e.Group("/api/v1")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Infrastructure endpoints
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))
	e.GET("/metrics", tp.PrometheusHandler())

	runTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.WithTx(ctx, pool, fn)
	}

	// Identity domain
	userRepo := identity.NewUserRepoPG(pool)
	adminRepo := identity.NewAdminRepoPG(pool)
	profileRepo := identity.NewProfileRepoPG(pool)
	identitySvc := identity.NewService(userRepo, adminRepo, profileRepo, issuer, runTx)
	identity.NewHandler(identitySvc).RegisterRoutes(apiV1)

	// Hospital directory
	hospitalRepo := hospital.NewRepoPG(pool)
	hospital.NewHandler(hospital.NewService(hospitalRepo)).RegisterRoutes(apiV1)

	// Doctor roster and schedules
	doctorRepo := doctor.NewRepoPG(pool)
	scheduleRepo := doctor.NewScheduleRepoPG(pool)
	doctorSvc := doctor.NewService(
		doctorRepo,
		scheduleRepo,
		&doctorUserDirectory{users: userRepo},
		&adminDirectory{admins: adminRepo},
		runTx,
	)
	doctor.NewHandler(doctorSvc).RegisterRoutes(apiV1)

	// Appointments
	apptRepo := appointment.NewRepoPG(pool)
	apptSvc := appointment.NewService(
		apptRepo,
		&scheduleSource{schedules: scheduleRepo},
		&doctorSource{doctors: doctorRepo},
	)
	appointment.NewHandler(apptSvc).RegisterRoutes(apiV1)

	// Keep the pool gauges fresh for /metrics.
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			stats := db.GetPoolStats(pool)
			tp.HealthMetrics().SetDBPoolActive(int64(stats.AcquiredConns))
			tp.HealthMetrics().SetDBPoolIdle(int64(stats.IdleConns))
		}
	}()

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return nil
}
