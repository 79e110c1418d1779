package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/docease/docease/internal/config"
	"github.com/docease/docease/internal/domain/account"
	"github.com/docease/docease/internal/domain/booking"
	"github.com/docease/docease/internal/domain/doctor"
	"github.com/docease/docease/internal/platform/auth"
	"github.com/docease/docease/internal/platform/cache"
	"github.com/docease/docease/internal/platform/db"
	"github.com/docease/docease/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "docease-server",
		Short: "DocEase appointment booking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
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

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
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

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
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
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample doctors into the directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")

			doctors := sampleDoctors()
			if file != "" {
				loaded, err := loadDoctorsFile(file)
				if err != nil {
					return err
				}
				doctors = loaded
			}

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

			svc := doctor.NewService(doctor.NewRepoPG(pool))
			for _, d := range doctors {
				if err := svc.Create(ctx, d); err != nil {
					return fmt.Errorf("seed doctor %q: %w", d.Name, err)
				}
			}

			fmt.Printf("Seeded %d doctor(s).\n", len(doctors))
			return nil
		},
	}
	cmd.Flags().String("file", "", "Path to a JSON file of doctors (defaults to the built-in sample set)")
	return cmd
}

// loadDoctorsFile reads a JSON array of doctors for the seed command.
func loadDoctorsFile(path string) ([]*doctor.Doctor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read doctors file: %w", err)
	}
	var doctors []*doctor.Doctor
	if err := json.Unmarshal(data, &doctors); err != nil {
		return nil, fmt.Errorf("parse doctors file: %w", err)
	}
	return doctors, nil
}

// sampleDoctors returns the built-in directory used by `seed` when no file
// is given. Slot labels use the same format the booking flow matches on.
func sampleDoctors() []*doctor.Doctor {
	return []*doctor.Doctor{
		{
			Name:            "Dr. Asha Deshmukh",
			Specialization:  "Cardiologist",
			Qualification:   "MD, DM (Cardiology)",
			Age:             45,
			Experience:      18,
			LanguagesSpoken: []string{"English", "Hindi", "Marathi"},
			Hospital:        "Sunrise Heart Institute",
			City:            "Pune",
			MorningSlots:    []string{"9:00 AM", "9:30 AM", "10:00 AM"},
			AfternoonSlots:  []string{"2:00 PM", "2:30 PM"},
			EveningSlots:    []string{"6:00 PM"},
			Bio:             "Interventional cardiologist focused on preventive care.",
		},
		{
			Name:            "Dr. Rohan Iyer",
			Specialization:  "Dermatologist",
			Qualification:   "MBBS, MD (Dermatology)",
			Age:             38,
			Experience:      11,
			LanguagesSpoken: []string{"English", "Tamil"},
			Hospital:        "City Skin Clinic",
			City:            "Chennai",
			MorningSlots:    []string{"10:00 AM", "10:30 AM", "11:00 AM"},
			AfternoonSlots:  []string{"3:00 PM", "3:30 PM"},
			EveningSlots:    []string{"5:30 PM", "6:00 PM"},
			Bio:             "Specialises in clinical and cosmetic dermatology.",
		},
		{
			Name:            "Dr. Meera Nair",
			Specialization:  "Pediatrician",
			Qualification:   "MBBS, DCH",
			Age:             41,
			Experience:      14,
			LanguagesSpoken: []string{"English", "Malayalam", "Hindi"},
			Hospital:        "Rainbow Children's Hospital",
			City:            "Bengaluru",
			MorningSlots:    []string{"9:00 AM", "9:30 AM"},
			AfternoonSlots:  []string{"1:00 PM", "1:30 PM", "2:00 PM"},
			EveningSlots:    []string{"5:00 PM", "5:30 PM"},
			Bio:             "Pediatrician with a focus on early childhood development.",
		},
		{
			Name:            "Dr. Vikram Shah",
			Specialization:  "Orthopedic Surgeon",
			Qualification:   "MS (Orthopedics)",
			Age:             52,
			Experience:      24,
			LanguagesSpoken: []string{"English", "Hindi", "Gujarati"},
			Hospital:        "Sunrise Heart Institute",
			City:            "Pune",
			MorningSlots:    []string{"8:30 AM", "9:00 AM"},
			AfternoonSlots:  []string{"12:30 PM", "1:00 PM"},
			EveningSlots:    []string{"6:30 PM", "7:00 PM"},
			Bio:             "Joint replacement and sports injury specialist.",
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Slot cache: Redis when configured, otherwise a per-process fallback.
	var slotCache cache.SlotCache
	cacheTTL := time.Duration(cfg.SlotCacheTTLSeconds) * time.Second
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisSlotCache(ctx, cfg.RedisURL, cacheTTL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisCache.Close()
		slotCache = redisCache
		logger.Info().Msg("connected to redis")
	} else {
		slotCache = cache.NewMemorySlotCache(cacheTTL)
		logger.Warn().Msg("REDIS_URL not set; using in-memory slot cache")
	}

	// Session tokens
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// API groups
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RequestTimeout(time.Duration(cfg.RequestTimeoutSeconds) * time.Second))

	// The protected limiter runs after session resolution so its buckets are
	// keyed per account; anonymous traffic shares an IP bucket.
	public := apiV1.Group("", middleware.RateLimit(rateLimitCfg))
	protected := apiV1.Group("", auth.SessionMiddleware(issuer), middleware.RateLimit(rateLimitCfg))

	// Domain wiring
	doctorSvc := doctor.NewService(doctor.NewRepoPG(pool))
	doctorHandler := doctor.NewHandler(doctorSvc)
	doctorHandler.RegisterRoutes(public)

	accountSvc := account.NewService(account.NewRepoPG(pool), issuer)
	accountHandler := account.NewHandler(accountSvc)
	accountHandler.RegisterRoutes(public, protected)

	bookingSvc := booking.NewService(booking.NewRepoPG(pool), doctorSvc, accountSvc, slotCache)
	bookingHandler := booking.NewHandler(bookingSvc)
	bookingHandler.RegisterRoutes(public, protected)

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
