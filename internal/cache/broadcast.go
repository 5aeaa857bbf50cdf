package cache

import (
	"context"
	"encoding/json"

	apperrors "bookmark-manager/internal/common/errors"
	"bookmark-manager/internal/common/logging"
)

// Broadcaster fans invalidations out to other instances so their memory tiers
// drop entries that were removed remotely.
type Broadcaster interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe returns a channel of payloads that is closed when ctx is done.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

type invalidationKind string

const (
	invalidateKey    invalidationKind = "key"
	invalidatePrefix invalidationKind = "prefix"
)

type invalidationMessage struct {
	Origin string           `json:"origin"`
	Kind   invalidationKind `json:"kind"`
	Target string           `json:"target"`
}

func (s *Service) publish(ctx context.Context, kind invalidationKind, target string) {
	if s.broadcaster == nil {
		return
	}

	payload, err := json.Marshal(invalidationMessage{
		Origin: s.instanceID,
		Kind:   kind,
		Target: target,
	})
	if err != nil {
		return
	}

	_ = s.remoteCall(ctx, "publish", func(ctx context.Context) error {
		return s.broadcaster.Publish(ctx, s.cfg.Remote.InvalidationChannel, payload)
	})
}

// StartListener subscribes to peer invalidations and applies them to the
// local memory tier until ctx is cancelled. The subscription is established
// before it returns. It is a no-op without a broadcaster.
func (s *Service) StartListener(ctx context.Context) error {
	if s.broadcaster == nil {
		return nil
	}

	msgs, err := s.broadcaster.Subscribe(ctx, s.cfg.Remote.InvalidationChannel)
	if err != nil {
		s.tracker.record("subscribe", err)
		return err
	}

	s.listeners.Add(1)
	go func() {
		defer s.listeners.Done()
		for payload := range msgs {
			s.applyInvalidation(payload)
		}
	}()

	return nil
}

// WaitListeners blocks until every listener started by StartListener exits.
func (s *Service) WaitListeners() {
	s.listeners.Wait()
}

func (s *Service) applyInvalidation(payload []byte) {
	var msg invalidationMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		s.logger.Debug("Ignoring malformed invalidation message", logging.Err(err))
		return
	}
	if msg.Origin == s.instanceID {
		return
	}

	switch msg.Kind {
	case invalidateKey:
		s.memory.delete(msg.Target)
	case invalidatePrefix:
		n := s.memory.deletePrefix(msg.Target)
		s.logger.Debug("Applied peer invalidation",
			logging.String("prefix", msg.Target),
			logging.Int("memory_keys", n),
		)
	}
}

// Publish sends payload on a Redis pub/sub channel
func (r *RedisStore) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := r.client.Publish(ctx, channel, payload).Err(); err != nil {
		return apperrors.FromStoreError("publish", err)
	}
	return nil
}

// Subscribe listens on a Redis pub/sub channel
func (r *RedisStore) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	pubsub := r.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, apperrors.FromStoreError("subscribe", err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		defer pubsub.Close()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

var (
	_ RemoteStore = (*RedisStore)(nil)
	_ Broadcaster = (*RedisStore)(nil)
)
