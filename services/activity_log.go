package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fitclub_go/models"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const logQueueKey = "logs:queue"

// ActivityLogService buffers activity logs in Redis and flushes them to the
// database on a schedule, so request handling never waits on a log insert.
// Without Redis it degrades to direct DB writes.
type ActivityLogService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewActivityLogService(db *gorm.DB, redisClient *redis.Client) *ActivityLogService {
	return &ActivityLogService{db: db, redis: redisClient}
}

// Record stores one activity log entry, buffered in Redis when available.
func (s *ActivityLogService) Record(entry models.ActivityLog) {
	if s.redis == nil {
		s.writeDirect(entry)
		return
	}

	ctx := context.Background()
	data, err := json.Marshal(entry)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal activity log")
		return
	}

	now := time.Now()
	cacheKey := fmt.Sprintf("log:%d:%d", entry.UserID, now.UnixNano())
	if err := s.redis.Set(ctx, cacheKey, data, 24*time.Hour).Err(); err != nil {
		logrus.WithError(err).Warn("Redis unavailable, writing activity log directly")
		s.writeDirect(entry)
		return
	}
	if err := s.redis.ZAdd(ctx, logQueueKey, &redis.Z{
		Score:  float64(now.Unix()),
		Member: cacheKey,
	}).Err(); err != nil {
		logrus.WithError(err).Error("Failed to queue activity log")
	}
}

func (s *ActivityLogService) writeDirect(entry models.ActivityLog) {
	if err := s.db.Create(&entry).Error; err != nil {
		logrus.WithError(err).Error("Failed to save activity log")
	}
}

// Flush moves buffered log entries from Redis into the database.
func (s *ActivityLogService) Flush(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}

	keys, err := s.redis.ZRange(ctx, logQueueKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("read log queue: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	var flushed, failed int
	for _, key := range keys {
		data, err := s.redis.Get(ctx, key).Result()
		if err != nil {
			if err != redis.Nil {
				failed++
				continue
			}
			// Entry expired from cache, drop its queue marker.
			s.redis.ZRem(ctx, logQueueKey, key)
			continue
		}

		var entry models.ActivityLog
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			logrus.WithError(err).Errorf("Dropping unreadable buffered log %s", key)
			s.redis.ZRem(ctx, logQueueKey, key)
			failed++
			continue
		}
		if err := s.db.Create(&entry).Error; err != nil {
			logrus.WithError(err).Error("Failed to flush activity log to database")
			failed++
			continue
		}

		pipe := s.redis.Pipeline()
		pipe.Del(ctx, key)
		pipe.ZRem(ctx, logQueueKey, key)
		if _, err := pipe.Exec(ctx); err != nil {
			logrus.WithError(err).Warnf("Failed to clean flushed log %s", key)
		}
		flushed++
	}

	logrus.WithFields(logrus.Fields{"flushed": flushed, "failed": failed}).
		Info("Activity log flush completed")
	return nil
}

// Prune deletes stored logs older than retentionDays.
func (s *ActivityLogService) Prune(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	res := s.db.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&models.ActivityLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		logrus.Infof("Pruned %d activity logs older than %d days", res.RowsAffected, retentionDays)
	}
	return nil
}

// StartMaintenanceScheduler flushes buffered logs hourly and prunes old
// rows nightly. The returned cron is already started; stop it on shutdown.
func (s *ActivityLogService) StartMaintenanceScheduler(retentionDays int) *cron.Cron {
	c := cron.New()
	c.AddFunc("@hourly", func() {
		if err := s.Flush(context.Background()); err != nil {
			logrus.WithError(err).Error("Scheduled log flush failed")
		}
	})
	c.AddFunc("0 3 * * *", func() {
		if err := s.Prune(retentionDays); err != nil {
			logrus.WithError(err).Error("Scheduled log prune failed")
		}
	})
	c.Start()
	return c
}
