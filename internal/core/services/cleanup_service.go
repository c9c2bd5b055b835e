package services

import (
	"context"
	"log"
	"time"

	"loanlink-partners/internal/adapters/persistence/repositories"
	"loanlink-partners/internal/pkg/dbretry"

	"github.com/robfig/cron/v3"
)

// CleanupService purges expired refresh tokens on a daily schedule
type CleanupService struct {
	tokenRepo repositories.RefreshTokenRepository
	retry     dbretry.Policy
	cron      *cron.Cron
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(tokenRepo repositories.RefreshTokenRepository, retry dbretry.Policy) *CleanupService {
	return &CleanupService{
		tokenRepo: tokenRepo,
		retry:     retry,
		cron:      cron.New(),
	}
}

// Start schedules the daily cleanup (03:00)
func (s *CleanupService) Start() {
	_, err := s.cron.AddFunc("0 3 * * *", s.run)
	if err != nil {
		log.Printf("❌ Failed to schedule token cleanup: %v", err)
		return
	}
	s.cron.Start()
	log.Println("✅ Token cleanup scheduled (03:00 daily)")
}

// Stop stops the cron scheduler
func (s *CleanupService) Stop() {
	s.cron.Stop()
}

func (s *CleanupService) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var deleted int64
	err := dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		deleted, err = s.tokenRepo.DeleteExpired(ctx)
		return err
	})
	if err != nil {
		log.Printf("⚠️ Token cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("🧹 Token cleanup: removed %d expired refresh tokens", deleted)
	}
}
