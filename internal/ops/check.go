// Package ops holds the logic behind the clinicctl maintenance commands.
package ops

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/BruksfildServices01/clinica-otica/internal/cache"
	"github.com/BruksfildServices01/clinica-otica/internal/config"
	"github.com/BruksfildServices01/clinica-otica/internal/storage"
)

type Status string

const (
	Pass Status = "PASS"
	Fail Status = "FAIL"
	Skip Status = "SKIP"
)

// errSkip marks a check that does not apply to the current configuration.
var errSkip = errors.New("skipped")

type Check struct {
	Name string
	Run  func(ctx context.Context) (string, error)
}

type Result struct {
	Name   string
	Status Status
	Detail string
}

type Summary struct {
	Results []Result
	Passed  int
	Failed  int
	Skipped int
}

func (s Summary) OK() bool { return s.Failed == 0 }

// RunChecks runs every check with its own timeout and prints one line per
// check followed by a summary.
func RunChecks(ctx context.Context, checks []Check, timeout time.Duration, w io.Writer) Summary {
	var sum Summary

	for _, c := range checks {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		detail, err := c.Run(cctx)
		cancel()

		res := Result{Name: c.Name, Status: Pass, Detail: detail}
		switch {
		case errors.Is(err, errSkip):
			res.Status = Skip
			sum.Skipped++
		case err != nil:
			res.Status = Fail
			res.Detail = err.Error()
			sum.Failed++
		default:
			sum.Passed++
		}
		sum.Results = append(sum.Results, res)

		if res.Detail != "" {
			fmt.Fprintf(w, "[%s] %s: %s\n", res.Status, res.Name, res.Detail)
		} else {
			fmt.Fprintf(w, "[%s] %s\n", res.Status, res.Name)
		}
	}

	fmt.Fprintf(w, "\n%d passed, %d failed, %d skipped\n", sum.Passed, sum.Failed, sum.Skipped)
	return sum
}

// EnvFileCheck verifies that the env file exists.
func EnvFileCheck(path string) Check {
	return Check{
		Name: "env file",
		Run: func(context.Context) (string, error) {
			if _, err := os.Stat(path); err != nil {
				return "", fmt.Errorf("%s: %w", path, err)
			}
			return path, nil
		},
	}
}

func DatabaseCheck(dsn string) Check {
	return Check{
		Name: "database",
		Run: func(ctx context.Context) (string, error) {
			conn, err := pgx.Connect(ctx, dsn)
			if err != nil {
				return "", fmt.Errorf("connect: %w", err)
			}
			defer conn.Close(context.Background())

			if err := conn.Ping(ctx); err != nil {
				return "", fmt.Errorf("ping: %w", err)
			}

			var version string
			if err := conn.QueryRow(ctx, "SHOW server_version").Scan(&version); err != nil {
				return "connected", nil
			}
			return "postgres " + version, nil
		},
	}
}

func RedisCheck(cfg *config.Config) Check {
	return Check{
		Name: "redis",
		Run: func(ctx context.Context) (string, error) {
			if cfg.RedisAddr == "" {
				return "REDIS_ADDR not set", errSkip
			}
			r, err := cache.NewRedis(cfg)
			if err != nil {
				return "", err
			}
			defer r.Close()
			return cfg.RedisAddr, r.Ping(ctx)
		},
	}
}

func StorageCheck(cfg config.S3Config) Check {
	return Check{
		Name: "s3 bucket",
		Run: func(ctx context.Context) (string, error) {
			s3, err := storage.NewS3(cfg)
			if errors.Is(err, storage.ErrDisabled) {
				return "S3_BUCKET not set", errSkip
			}
			if err != nil {
				return "", err
			}
			return cfg.Bucket, s3.Check(ctx)
		},
	}
}

// DefaultChecks is the set run by `clinicctl check`.
func DefaultChecks(cfg *config.Config, envPath string) []Check {
	return []Check{
		EnvFileCheck(envPath),
		DatabaseCheck(cfg.DBUrl),
		RedisCheck(cfg),
		StorageCheck(cfg.S3),
	}
}
