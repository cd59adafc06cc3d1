package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/bizlink-dev/bizlink/db"
	"github.com/bizlink-dev/bizlink/internal/models"
	"github.com/bizlink-dev/bizlink/internal/types"
)

const (
	sweepInterval = time.Hour
	// Cancelled invitations stay soft-deleted for audit before being purged.
	cancelledRetention = 30 * 24 * time.Hour
)

// Sweeper periodically purges cancelled invitations that have aged out of the
// retention window.
type Sweeper struct {
	interval  time.Duration
	retention time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewSweeper(interval, retention time.Duration) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		interval:  interval,
		retention: retention,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches the sweep loop with an immediate first pass.
func (s *Sweeper) Start() {
	log.Println("Starting invitation retention sweeper...")

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// Stop shuts the loop down and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.cancel()
	s.wg.Wait()
	log.Println("Invitation retention sweeper stopped")
}

func (s *Sweeper) sweep() {
	cutoff := time.Now().Add(-s.retention)

	res := db.DB.Unscoped().
		Where("status = ? AND deleted_at IS NOT NULL AND deleted_at < ?", types.InvitationCancelled, cutoff).
		Delete(&models.Invitation{})

	if res.Error != nil {
		log.Printf("Retention sweep failed: %v", res.Error)
		return
	}

	if res.RowsAffected > 0 {
		log.Printf("Retention sweep purged %d cancelled invitations", res.RowsAffected)
	}
}

// Global sweeper instance
var globalSweeper *Sweeper

// Initialize creates and starts the global sweeper
func Initialize() {
	globalSweeper = NewSweeper(sweepInterval, cancelledRetention)
	globalSweeper.Start()
}

// Shutdown stops the global sweeper
func Shutdown() {
	if globalSweeper != nil {
		globalSweeper.Stop()
	}
}
