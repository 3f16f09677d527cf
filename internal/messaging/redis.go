package messaging

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"motor-controller/internal/logger"
	"motor-controller/internal/types"
)

// Callbacks route commands from the Redis plane into the controller. Every
// callback runs in a listener goroutine, the asynchronous command context,
// and may block without affecting tick timing.
type Callbacks struct {
	ModeCallback      func(string) error          // "override", "auto"
	DirectionCallback func(types.Direction) error // consumed while overridden
	SpeedCallback     func(uint8) error           // override command value
	StatusCallback    func() error                // force a status publish
}

type RedisClient struct {
	client    *redis.Client
	callbacks Callbacks
	logger    *logger.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewRedisClient(host string, port int, l *logger.Logger) *RedisClient {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:%d", host, port),
			DB:   0,
		}),
		logger: l.WithTag("Redis"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetCallbacks installs the command handlers. Must be called before
// StartListening.
func (r *RedisClient) SetCallbacks(callbacks Callbacks) {
	r.callbacks = callbacks
}

func (r *RedisClient) Connect() error {
	r.logger.Infof("Connecting to Redis at %s", r.client.Options().Addr)
	if err := r.client.Ping(r.ctx).Err(); err != nil {
		return fmt.Errorf("Redis connection failed: %w", err)
	}
	r.logger.Infof("Connected to Redis")
	return nil
}

// StartListening starts the command listeners once the controller is running.
func (r *RedisClient) StartListening() error {
	r.logger.Infof("Starting Redis listeners")

	// Requests arrive on their own channel; "motor" itself only mirrors
	// our own publishes.
	pubsub := r.client.Subscribe(r.ctx, "motor:requests")

	r.wg.Add(1)
	go r.pubsubListener(pubsub)

	r.wg.Add(4)
	go r.listCommandListener("motor:mode", r.handleModeCommand)
	go r.listCommandListener("motor:direction", r.handleDirectionCommand)
	go r.listCommandListener("motor:speed", r.handleSpeedCommand)
	go r.listCommandListener("motor:status", r.handleStatusCommand)

	return nil
}

func (r *RedisClient) listCommandListener(key string, handler func(string) error) {
	defer r.wg.Done()
	r.logger.Debugf("Starting list command listener for %s", key)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debugf("Context cancelled, exiting %s listener", key)
			return
		default:
			// BRPOP with a short timeout so context cancellation is
			// observed between commands.
			result, err := r.client.BRPop(r.ctx, 5*time.Second, key).Result()
			if err != nil {
				if err == redis.Nil {
					continue
				}
				if err == context.Canceled {
					return
				}
				r.logger.Warnf("Error reading from %s list: %v", key, err)
				continue
			}
			if len(result) >= 2 { // BRPOP returns [key, value]
				value := result[1]
				r.logger.Debugf("Received command from %s: %s", key, value)
				if err := handler(value); err != nil {
					r.logger.Warnf("Error handling %s command: %v", key, err)
				}
			}
		}
	}
}

func (r *RedisClient) pubsubListener(pubsub *redis.PubSub) {
	defer r.wg.Done()
	defer pubsub.Close()

	channel := pubsub.Channel()
	for {
		select {
		case <-r.ctx.Done():
			return
		case msg, ok := <-channel:
			if !ok || msg == nil {
				r.logger.Warnf("Redis pubsub channel closed")
				return
			}
			if msg.Payload == "status" {
				if err := r.handleStatusCommand(""); err != nil {
					r.logger.Warnf("Error handling status request: %v", err)
				}
			}
		}
	}
}

func (r *RedisClient) handleModeCommand(value string) error {
	if r.callbacks.ModeCallback == nil {
		return nil
	}
	switch value {
	case "override", "auto":
		return r.callbacks.ModeCallback(value)
	default:
		return fmt.Errorf("invalid mode command: %s", value)
	}
}

func (r *RedisClient) handleDirectionCommand(value string) error {
	if r.callbacks.DirectionCallback == nil {
		return nil
	}
	dir, ok := types.ParseDirection(value)
	if !ok {
		return fmt.Errorf("invalid direction command: %s", value)
	}
	return r.callbacks.DirectionCallback(dir)
}

func (r *RedisClient) handleSpeedCommand(value string) error {
	if r.callbacks.SpeedCallback == nil {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 || n > 255 {
		return fmt.Errorf("invalid speed command: %s", value)
	}
	return r.callbacks.SpeedCallback(uint8(n))
}

func (r *RedisClient) handleStatusCommand(string) error {
	if r.callbacks.StatusCallback == nil {
		return nil
	}
	return r.callbacks.StatusCallback()
}

// publishHashSet atomically updates a hash field and publishes the field name
// so observers can pick up the change.
func (r *RedisClient) publishHashSet(hash, field string, value interface{}) error {
	pipe := r.client.Pipeline()
	pipe.HSet(r.ctx, hash, field, value)
	pipe.Publish(r.ctx, hash, field)
	_, err := pipe.Exec(r.ctx)
	return err
}

// PublishControllerState mirrors the lifecycle state to the motor hash.
func (r *RedisClient) PublishControllerState(state types.ControllerState) error {
	r.logger.Debugf("Publishing controller state: %s", state)

	pipe := r.client.Pipeline()
	pipe.HSet(r.ctx, "motor", "state", string(state))
	pipe.HSet(r.ctx, "motor", "state:timestamp", time.Now().Format(time.RFC3339))
	pipe.Publish(r.ctx, "motor", "state")
	if _, err := pipe.Exec(r.ctx); err != nil {
		r.logger.Warnf("Failed to publish controller state: %v", err)
		return err
	}
	return nil
}

// PublishStatus mirrors the live direction/command snapshot.
func (r *RedisClient) PublishStatus(direction types.Direction, command uint8, overridden bool) error {
	mode := "auto"
	if overridden {
		mode = "override"
	}

	pipe := r.client.Pipeline()
	pipe.HSet(r.ctx, "motor", "direction", direction.String())
	pipe.HSet(r.ctx, "motor", "command", int(command))
	pipe.HSet(r.ctx, "motor", "mode", mode)
	pipe.Publish(r.ctx, "motor", "status")
	if _, err := pipe.Exec(r.ctx); err != nil {
		r.logger.Warnf("Failed to publish status: %v", err)
		return err
	}
	return nil
}

// PublishFault mirrors the fault flag.
func (r *RedisClient) PublishFault(active bool) error {
	value := "absent"
	if active {
		value = "present"
	}
	if err := r.publishHashSet("motor", "fault", value); err != nil {
		r.logger.Warnf("Failed to publish fault state: %v", err)
		return err
	}
	return nil
}

func (r *RedisClient) Close() error {
	r.logger.Infof("Closing Redis client")
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		r.logger.Warnf("Timeout waiting for Redis goroutines to finish")
	}

	return r.client.Close()
}
