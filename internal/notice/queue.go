package notice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrFull is returned when an in-memory bus has no room left.
var ErrFull = errors.New("notice buffer full")

// Bus is the abstraction over different notice transports.
type Bus interface {
	Publish(ctx context.Context, n Notice) error
	Consume(ctx context.Context) (<-chan Notice, error)
}

// InMemory is a channel-backed bus for a single console process.
type InMemory struct {
	ch chan Notice
}

// NewInMemory creates a bounded in-memory bus.
func NewInMemory(size int) *InMemory {
	if size <= 0 {
		size = 64
	}
	return &InMemory{ch: make(chan Notice, size)}
}

// Publish enqueues a notice without waiting for a consumer.
func (q *InMemory) Publish(ctx context.Context, n Notice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.ch <- n:
		return nil
	default:
		return ErrFull
	}
}

// Consume returns a channel for the reader.
func (q *InMemory) Consume(ctx context.Context) (<-chan Notice, error) {
	out := make(chan Notice)
	go func() {
		defer close(out)
		for {
			select {
			case n := <-q.ch:
				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Redis keeps a bounded history list and fans live notices out over pub/sub,
// so every console and `attendctl notices --follow` sees every notice.
type Redis struct {
	client  *redis.Client
	key     string
	history int64
}

// NewRedis builds a bus storing history under key and publishing on key+":live".
func NewRedis(client *redis.Client, key string, history int) *Redis {
	if key == "" {
		key = "attendance:notices"
	}
	if history <= 0 {
		history = 100
	}
	return &Redis{client: client, key: key, history: int64(history)}
}

func (q *Redis) channel() string { return q.key + ":live" }

// Publish records the notice and broadcasts it.
func (q *Redis) Publish(ctx context.Context, n Notice) error {
	payload, err := encode(n)
	if err != nil {
		return err
	}
	_, err = q.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, q.key, payload)
		p.LTrim(ctx, q.key, 0, q.history-1)
		p.Publish(ctx, q.channel(), payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish notice: %w", err)
	}
	return nil
}

// Consume subscribes to live notices until ctx is done.
func (q *Redis) Consume(ctx context.Context) (<-chan Notice, error) {
	sub := q.client.Subscribe(ctx, q.channel())
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe notices: %w", err)
	}

	out := make(chan Notice)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				n, err := decode(msg.Payload)
				if err != nil {
					continue
				}
				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Recent returns up to limit stored notices, newest first.
func (q *Redis) Recent(ctx context.Context, limit int) ([]Notice, error) {
	if limit <= 0 {
		limit = int(q.history)
	}
	raw, err := q.client.LRange(ctx, q.key, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read notices: %w", err)
	}
	out := make([]Notice, 0, len(raw))
	for _, s := range raw {
		n, err := decode(s)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func encode(n Notice) (string, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("encode notice: %w", err)
	}
	return string(b), nil
}

func decode(s string) (Notice, error) {
	var n Notice
	if err := json.Unmarshal([]byte(s), &n); err != nil {
		return Notice{}, fmt.Errorf("decode notice: %w", err)
	}
	return n, nil
}
