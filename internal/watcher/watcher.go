package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"time"

	"stonecatalog/internal/logger"
)

type BuildFunc func(ctx context.Context) error

// Service reruns the build whenever the content of the input file changes.
type Service struct {
	path     string
	interval time.Duration
	build    BuildFunc
	log      *logger.Logger
	lastHash string
}

func NewService(path string, interval time.Duration, build BuildFunc, log *logger.Logger) *Service {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{path: path, interval: interval, build: build, log: log}
}

func (s *Service) Run(ctx context.Context) error {
	s.log.Info("watching input", "path", s.path, "interval", s.interval.String())
	for {
		if _, err := s.runCycle(ctx); err != nil {
			s.log.Error("watch cycle error", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.interval):
		}
	}
}

// runCycle builds when the file hash differs from the last attempt. A failed
// build is not retried until the file changes again.
func (s *Service) runCycle(ctx context.Context) (bool, error) {
	hash, err := fileHash(s.path)
	if err != nil {
		return false, err
	}
	if hash == s.lastHash {
		return false, nil
	}
	s.lastHash = hash

	start := time.Now()
	if err := s.build(ctx); err != nil {
		return true, err
	}
	s.log.Info("rebuilt after change", "hash", hash[:12], "ms", time.Since(start).Milliseconds())
	return true, nil
}

func fileHash(path string) (string, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:]), nil
}
