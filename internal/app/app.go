// Package app wires configuration, infrastructure and services once at start.
package app

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinica-otica/internal/audit"
	"github.com/BruksfildServices01/clinica-otica/internal/cache"
	"github.com/BruksfildServices01/clinica-otica/internal/config"
	dbpkg "github.com/BruksfildServices01/clinica-otica/internal/db"
	"github.com/BruksfildServices01/clinica-otica/internal/guard"
	infraRepo "github.com/BruksfildServices01/clinica-otica/internal/infra/repository"
	"github.com/BruksfildServices01/clinica-otica/internal/metrics"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/session"
	"github.com/BruksfildServices01/clinica-otica/internal/storage"
)

const (
	availabilityTTL = 60 * time.Second
	denylistSweep   = 5 * time.Minute
)

// App owns every long-lived dependency. Nothing in the service reads globals.
type App struct {
	Config  *config.Config
	Log     *zap.Logger
	DB      *gorm.DB
	Metrics *metrics.Metrics

	// Cache backs availability; Nop when Redis is not configured.
	Cache cache.Store
	// Denylist holds revoked session ids; in-process when Redis is absent.
	Denylist cache.Store
	// Archive is nil when no bucket is configured.
	Archive storage.Archive

	Availability *cache.Availability
	Audit        *audit.Dispatcher
	Guard        *guard.Guard
	Sessions     *session.Service

	closers []func()
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		return nil, err
	}
	return Build(cfg, log, db), nil
}

// Build assembles the app on an open database. Optional backends that fail
// to connect are logged and replaced by their fallbacks.
func Build(cfg *config.Config, log *zap.Logger, db *gorm.DB) *App {
	a := &App{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Metrics:  metrics.New(),
		Cache:    cache.Nop{},
		Denylist: cache.NewMemory(),
	}

	// ---------- Redis ----------
	if cfg.RedisAddr != "" {
		r, err := cache.NewRedis(cfg)
		if err != nil {
			log.Warn("redis unavailable, running without cache", zap.Error(err))
		} else {
			a.Cache = r
			a.Denylist = r
			a.closers = append(a.closers, func() { _ = r.Close() })
			log.Info("redis connected", zap.String("addr", cfg.RedisAddr))
		}
	}

	if mem, ok := a.Denylist.(*cache.Memory); ok {
		a.closers = append(a.closers, mem.StartSweeper(denylistSweep))
	}

	// ---------- S3 ----------
	if s3, err := storage.NewS3(cfg.S3); err == nil {
		a.Archive = s3
		log.Info("report archive enabled", zap.String("bucket", cfg.S3.Bucket))
	} else if !errors.Is(err, storage.ErrDisabled) {
		log.Warn("report archive disabled", zap.Error(err))
	}

	// ---------- Core services ----------
	a.Availability = cache.NewAvailability(a.Cache, availabilityTTL, log)
	a.Audit = audit.NewDispatcher(audit.New(infraRepo.NewGormTable[models.AuditLog](db)), log.Named("audit"))
	a.closers = append([]func(){a.Audit.Close}, a.closers...)
	a.Guard = guard.New(infraRepo.NewGormCounter(db), nil)
	a.Sessions = session.NewService(
		infraRepo.NewGormTable[models.User](db),
		a.Denylist,
		cfg.JWTSecret,
		time.Duration(cfg.JWTTTLHour)*time.Hour,
	)

	a.Metrics.Gauge("audit_events_dropped", "Audit events dropped because the queue was full",
		func() float64 { return float64(a.Audit.Dropped()) })

	return a
}

// Close drains the audit queue and releases connections.
func (a *App) Close() {
	for _, c := range a.closers {
		c()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = a.Log.Sync()
}
