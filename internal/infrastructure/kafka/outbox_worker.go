package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/recipe-cart/internal/cfg"
	"github.com/DRSN-tech/recipe-cart/internal/repository/pgdb"
	"github.com/DRSN-tech/recipe-cart/internal/usecase"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/DRSN-tech/recipe-cart/pkg/jitter"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const (
	notificationWait   = 30 * time.Second
	reconnectBase      = 2 * time.Second
	reconnectMax       = 30 * time.Second
	publishRetryBase   = 200 * time.Millisecond
	publishRetryMax    = 2 * time.Second
	publishRetryBudget = 3
)

// OutboxWorker переносит события из outbox_events в Kafka.
// Пачки забираются при старте, по NOTIFY и по таймеру на случай потерянного уведомления.
type OutboxWorker struct {
	repo      usecase.OutboxRepository
	logger    logger.Logger
	producer  usecase.MessageProducer
	cfg       *cfg.OutboxCfg
	stop      chan struct{}
	stopOnce  sync.Once
	drainMu   sync.Mutex
	wg        sync.WaitGroup
	dbConnStr string
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	cfg *cfg.OutboxCfg,
	dbConnStr string,
) *OutboxWorker {
	return &OutboxWorker{
		repo:      repo,
		logger:    logger,
		producer:  producer,
		cfg:       cfg,
		stop:      make(chan struct{}),
		dbConnStr: dbConnStr,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	go func() {
		defer w.wg.Done()
		w.listenOutboxNotifications(ctx)
	}()
}

func (w *OutboxWorker) Stop(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.stop) })

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return e.Wrap("OutboxWorker.Stop", ctx.Err())
	}
}

func (w *OutboxWorker) run(ctx context.Context) {
	w.logger.Infof("draining pending outbox events on startup")
	w.drain(ctx)

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("outbox worker stopped by context cancellation")
			return
		case <-w.stop:
			w.logger.Infof("outbox worker stopped")
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// listenOutboxNotifications держит LISTEN-соединение. Подключение и ожидание NOTIFY
// прерываются по Stop, а drain работает на исходном ctx и доводит пачку до конца.
func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	listenCtx, cancelListen := w.stopContext(ctx)
	defer cancelListen()

	var conn *pgx.Conn

	connect := func() error {
		c, err := pgx.Connect(listenCtx, w.dbConnStr)
		if err != nil {
			return e.Wrap("failed to connect for LISTEN", err)
		}

		if _, err := c.Exec(listenCtx, "LISTEN "+pgdb.OutboxChannel); err != nil {
			_ = c.Close(ctx)
			return e.Wrap("failed to LISTEN", err)
		}

		conn = c
		w.logger.Infof("subscribed to %q channel", pgdb.OutboxChannel)
		return nil
	}

	closeConn := func() {
		if conn != nil {
			_ = conn.Close(context.Background())
			conn = nil
		}
	}
	defer closeConn()

	for attempt := 0; ; {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		default:
		}

		if conn == nil {
			if err := connect(); err != nil {
				w.logger.Warnf("listen connect failed: %v", err)
				if !w.sleep(ctx, jitter.ExponentialBackoff(reconnectBase, reconnectMax, attempt, jitter.DefaultJitter)) {
					return
				}
				attempt++
				continue
			}
			attempt = 0
		}

		waitCtx, cancel := context.WithTimeout(listenCtx, notificationWait)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				continue
			}
			w.logger.Warnf("listen connection lost: %v, reconnecting", err)
			closeConn()
			continue
		}

		if notif != nil && notif.Channel == pgdb.OutboxChannel {
			w.logger.Debugf("received outbox notification, draining outbox events")
			w.drain(ctx)
		}
	}
}

// stopContext возвращает контекст, который отменяется вместе с родителем или по Stop.
func (w *OutboxWorker) stopContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-w.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// drain обрабатывает пачки, пока они не закончатся. Параллельные вызовы сериализуются.
func (w *OutboxWorker) drain(ctx context.Context) {
	w.drainMu.Lock()
	defer w.drainMu.Unlock()

	for {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("outbox batch failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

// processBatch публикует одну пачку. Возвращает true, если пачка была полной и стоит забрать следующую.
// Неопубликованные события возвращаются в pending и будут взяты снова.
func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.cfg.BatchSize)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	failed := 0
	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			failed++
			w.logger.Errorf(err, "publish failed, event_id=%s", event.EventID)
			if err := w.repo.MarkAsPending(ctx, event.ID); err != nil {
				w.logger.Warnf("mark pending failed: %v", err)
			}
			continue
		}

		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
	}

	// Брокер недоступен: не крутимся вхолостую, ждём таймера или следующего NOTIFY.
	if failed == len(events) {
		return false, nil
	}

	return len(events) == w.cfg.BatchSize, nil
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	var err error
	for attempt := 0; attempt < publishRetryBudget; attempt++ {
		err = w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(event.AggregateID, event.Payload))
		if err == nil {
			return nil
		}

		if !isRetryableError(err) || attempt == publishRetryBudget-1 {
			break
		}

		if !w.sleep(ctx, jitter.ExponentialBackoff(publishRetryBase, publishRetryMax, attempt, jitter.DefaultJitter)) {
			break
		}
	}

	if isRetryableError(err) {
		return e.Wrap("temporary kafka failure", err)
	}
	return e.Wrap("permanent kafka failure", err)
}

func (w *OutboxWorker) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	case <-w.stop:
		return false
	}
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"leader not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}
