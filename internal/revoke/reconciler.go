package revoke

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Aswajit1997/Dicert/internal/model"
)

// ReconcilerConfig defines reconciler configuration
type ReconcilerConfig struct {
	Enabled     bool
	IntervalSec int
}

// Reconciler repairs interrupted revocations. If a revoked copy exists for
// an id that is still present in the active store, the copy step succeeded
// and the delete did not: the active record is stale and the delete is
// re-attempted. A copy is never re-attempted once a revoked record exists.
type Reconciler struct {
	db          *gorm.DB
	logger      *logrus.Entry
	config      ReconcilerConfig
	stopChan    chan struct{}
	stoppedChan chan struct{}
}

// NewReconciler creates a new revocation reconciler
func NewReconciler(db *gorm.DB, logger *logrus.Entry, config ReconcilerConfig) *Reconciler {
	return &Reconciler{
		db:          db,
		logger:      logger.WithField("component", "revoke-reconciler"),
		config:      config,
		stopChan:    make(chan struct{}),
		stoppedChan: make(chan struct{}),
	}
}

// Start starts the reconciler
func (r *Reconciler) Start() {
	if !r.config.Enabled {
		r.logger.Info("disabled, skipping")
		close(r.stoppedChan)
		return
	}

	r.logger.Infof("starting with interval=%ds", r.config.IntervalSec)
	go r.run()
}

// Stop stops the reconciler
func (r *Reconciler) Stop() {
	if !r.config.Enabled {
		return
	}

	close(r.stopChan)
	<-r.stoppedChan
	r.logger.Info("stopped")
}

// run is the main reconciler loop
func (r *Reconciler) run() {
	defer close(r.stoppedChan)

	ticker := time.NewTicker(time.Duration(r.config.IntervalSec) * time.Second)
	defer ticker.Stop()

	// Run immediately on start
	r.tick()

	for {
		select {
		case <-ticker.C:
			r.tick()
		case <-r.stopChan:
			return
		}
	}
}

// tick deletes active records whose identity already lives in the revoked
// store.
func (r *Reconciler) tick() {
	var staleIDs []string
	err := r.db.Model(&model.Certificate{}).
		Where("id IN (?)", r.db.Model(&model.RevokedCertificate{}).Select("id")).
		Pluck("id", &staleIDs).Error
	if err != nil {
		r.logger.WithError(err).Error("failed to scan for duplicated identities")
		return
	}

	if len(staleIDs) == 0 {
		return
	}

	result := r.db.Delete(&model.Certificate{}, "id IN ?", staleIDs)
	if result.Error != nil {
		r.logger.WithError(result.Error).Errorf("failed to delete %d stale active records", len(staleIDs))
		return
	}

	r.logger.Warnf("repaired %d duplicated identities: %v", result.RowsAffected, staleIDs)
}
