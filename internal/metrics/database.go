package metrics

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DatabaseStatsCollector polls the connection pool and updates the DB
// connection gauges.
type DatabaseStatsCollector struct {
	metrics *Metrics
	logger  *zap.Logger
	db      *gorm.DB
	ticker  *time.Ticker
	stopCh  chan struct{}
}

func NewDatabaseStatsCollector(metrics *Metrics, logger *zap.Logger, db *gorm.DB) *DatabaseStatsCollector {
	return &DatabaseStatsCollector{
		metrics: metrics,
		logger:  logger,
		db:      db,
		stopCh:  make(chan struct{}),
	}
}

func (dc *DatabaseStatsCollector) Start(interval time.Duration) {
	dc.ticker = time.NewTicker(interval)
	go dc.collectLoop()
	dc.logger.Info("Database stats collector started", zap.Duration("interval", interval))
}

func (dc *DatabaseStatsCollector) Stop() {
	if dc.ticker != nil {
		dc.ticker.Stop()
	}
	close(dc.stopCh)
}

func (dc *DatabaseStatsCollector) collectLoop() {
	dc.collect()

	for {
		select {
		case <-dc.ticker.C:
			dc.collect()
		case <-dc.stopCh:
			return
		}
	}
}

func (dc *DatabaseStatsCollector) collect() {
	sqlDB, err := dc.db.DB()
	if err != nil {
		dc.logger.Warn("Failed to read connection pool stats", zap.Error(err))
		return
	}

	stats := sqlDB.Stats()
	dc.metrics.DBConnectionsInUse.Set(float64(stats.InUse))
	dc.metrics.DBConnectionsIdle.Set(float64(stats.Idle))
}
