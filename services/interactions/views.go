package interactions

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/curbline/api-go/models"
	"github.com/curbline/api-go/store"
)

const viewKeyPrefix = "views:"

// ViewCounter buffers views_count increments in Redis and folds them into
// the stored counter on a ticker, so a hot item does not turn every page
// load into an UPDATE. Without Redis it degrades to direct counter writes.
type ViewCounter struct {
	rdb   *redis.Client
	store store.ContentStore
	log   logrus.FieldLogger
}

func NewViewCounter(rdb *redis.Client, s store.ContentStore, log logrus.FieldLogger) *ViewCounter {
	return &ViewCounter{rdb: rdb, store: s, log: log}
}

func viewKey(contentType models.ContentType, contentID uint) string {
	return fmt.Sprintf("%s%s:%d", viewKeyPrefix, contentType, contentID)
}

// RecordView counts one view. Views are fire-and-forget; a failure is logged
// and swallowed, a view is never worth failing a page for.
func (vc *ViewCounter) RecordView(ctx context.Context, contentType models.ContentType, contentID uint) {
	info, ok := models.ContentRegistry[contentType]
	if !ok || !info.Counters[models.CounterViews] {
		return
	}

	if vc.rdb == nil {
		if _, err := vc.store.AdjustCounter(ctx, contentType, contentID, models.CounterViews, 1); err != nil {
			vc.log.WithError(err).Warn("recording view")
		}
		return
	}

	if err := vc.rdb.Incr(ctx, viewKey(contentType, contentID)).Err(); err != nil {
		vc.log.WithError(err).Warn("buffering view in redis")
	}
}

// Flush drains the buffered view counts into the stored counters.
func (vc *ViewCounter) Flush(ctx context.Context) {
	if vc.rdb == nil {
		return
	}

	iter := vc.rdb.Scan(ctx, 0, viewKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		val, err := vc.rdb.GetDel(ctx, key).Result()
		if err != nil {
			if err != redis.Nil {
				vc.log.WithError(err).WithField("key", key).Warn("draining view buffer")
			}
			continue
		}
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil || n <= 0 {
			continue
		}

		contentType, contentID, ok := parseViewKey(key)
		if !ok {
			continue
		}
		if _, err := vc.store.AdjustCounter(ctx, contentType, contentID, models.CounterViews, n); err != nil {
			vc.log.WithError(err).WithField("key", key).Warn("flushing views to store")
		}
	}
	if err := iter.Err(); err != nil {
		vc.log.WithError(err).Warn("scanning view buffer")
	}
}

// Run flushes on the given interval until the context ends.
func (vc *ViewCounter) Run(ctx context.Context, interval time.Duration) {
	if vc.rdb == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			vc.Flush(context.Background())
			return
		case <-ticker.C:
			vc.Flush(ctx)
		}
	}
}

func parseViewKey(key string) (models.ContentType, uint, bool) {
	rest := strings.TrimPrefix(key, viewKeyPrefix)
	i := strings.LastIndex(rest, ":")
	if i < 0 {
		return "", 0, false
	}
	contentType := models.ContentType(rest[:i])
	if !models.ValidContentType(contentType) {
		return "", 0, false
	}
	id, err := strconv.ParseUint(rest[i+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return contentType, uint(id), true
}
