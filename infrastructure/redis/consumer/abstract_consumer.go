package consumer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pair-programming-backend/infrastructure/redis/config"
	"pair-programming-backend/shared/common/logger"
)

const (
	readRetryDelay = 3 * time.Second
	// idlePoll paces reads when blockTime is negative and the server never blocks.
	idlePoll = 100 * time.Millisecond
)

type MessageProcessor interface {
	ProcessBatch(ctx context.Context, messages []redis.XMessage) error
}

type AbstractConsumer struct {
	client     *redis.Client
	config     config.StreamInfo
	processor  MessageProcessor
	workerPool int
	batchSize  int
	// blockTime is passed to XREADGROUP BLOCK; a negative value disables blocking.
	blockTime time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewAbstractConsumer(
	client *redis.Client,
	config config.StreamInfo,
	processor MessageProcessor,
	workerPool int,
	batchSize int,
	blockTime time.Duration,
) *AbstractConsumer {
	if workerPool < 1 {
		workerPool = 1
	}
	if batchSize < 1 {
		batchSize = 1
	}
	return &AbstractConsumer{
		client:     client,
		config:     config,
		processor:  processor,
		workerPool: workerPool,
		batchSize:  batchSize,
		blockTime:  blockTime,
	}
}

// Start creates the consumer group if needed and launches the reader and workers.
// They run until ctx is cancelled or Stop is called.
func (c *AbstractConsumer) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	if err := c.createConsumerGroup(); err != nil {
		c.cancel()
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	batchChan := make(chan []redis.XMessage, c.workerPool*2)

	for i := 0; i < c.workerPool; i++ {
		c.wg.Add(1)
		go c.batchWorker(i, batchChan)
	}

	c.wg.Add(1)
	go c.consume(batchChan)

	logger.Info("Consumer started",
		zap.String("stream", c.config.StreamKey),
		zap.String("group", c.config.Group),
		zap.Int("workers", c.workerPool))
	return nil
}

func (c *AbstractConsumer) Stop() {
	if c.cancel == nil {
		return
	}
	logger.Info("Stopping consumer", zap.String("stream", c.config.StreamKey))
	c.cancel()
	c.wg.Wait()
	logger.Info("Consumer stopped", zap.String("stream", c.config.StreamKey))
}

func (c *AbstractConsumer) createConsumerGroup() error {
	err := c.client.XGroupCreateMkStream(
		c.ctx,
		c.config.StreamKey,
		c.config.Group,
		"0",
	).Err()

	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// readBatch fetches up to batchSize undelivered messages. redis.Nil means none arrived.
func (c *AbstractConsumer) readBatch(ctx context.Context) ([]redis.XMessage, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.config.Group,
		Consumer: c.config.Consumer,
		Streams:  []string{c.config.StreamKey, ">"},
		Count:    int64(c.batchSize),
		Block:    c.blockTime,
	}).Result()
	if err != nil {
		return nil, err
	}

	var messages []redis.XMessage
	for _, stream := range streams {
		messages = append(messages, stream.Messages...)
	}
	return messages, nil
}

func (c *AbstractConsumer) consume(batchChan chan<- []redis.XMessage) {
	defer c.wg.Done()
	defer close(batchChan)

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		messages, err := c.readBatch(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			if errors.Is(err, redis.Nil) {
				if c.blockTime < 0 {
					c.wait(idlePoll)
				}
				continue
			}
			logger.Error("Error reading from stream",
				zap.String("stream", c.config.StreamKey),
				logger.WithError(err))
			c.wait(readRetryDelay)
			continue
		}

		if len(messages) > 0 {
			select {
			case batchChan <- messages:
				logger.Debug("Sent batch to workers", zap.Int("batch_size", len(messages)))
			case <-c.ctx.Done():
				return
			}
		}
	}
}

func (c *AbstractConsumer) wait(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-c.ctx.Done():
	case <-timer.C:
	}
}

func (c *AbstractConsumer) batchWorker(workerID int, batchChan <-chan []redis.XMessage) {
	defer c.wg.Done()
	log := logger.Named("consumer").With(zap.Int("worker_id", workerID), zap.String("stream", c.config.StreamKey))
	log.Debug("Worker started")
	defer log.Debug("Worker stopped")

	for {
		var batch []redis.XMessage
		var ok bool
		select {
		case <-c.ctx.Done():
			return
		case batch, ok = <-batchChan:
		}
		if !ok {
			return
		}
		c.handle(log, batch)
	}
}

// handle passes a batch to the processor, then acks every message in it even on
// failure. Retrying individual messages is left to the processor.
func (c *AbstractConsumer) handle(log *zap.Logger, batch []redis.XMessage) {
	if len(batch) == 0 {
		return
	}
	started := time.Now()
	if err := c.processor.ProcessBatch(c.ctx, batch); err != nil {
		log.Error("Error processing batch", zap.Int("batch_size", len(batch)), logger.WithError(err))
	}

	ids := make([]string, len(batch))
	for i := range batch {
		ids[i] = batch[i].ID
	}
	// the group must learn about the batch even while shutting down
	ackCtx := context.WithoutCancel(c.ctx)
	if err := c.client.XAck(ackCtx, c.config.StreamKey, c.config.Group, ids...).Err(); err != nil {
		log.Error("Error acknowledging messages", zap.Strings("message_ids", ids), logger.WithError(err))
		return
	}
	log.Debug("Batch handled", zap.Int("batch_size", len(batch)), zap.Duration("took", time.Since(started)))
}
