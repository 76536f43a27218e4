package auth

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"carpool-service/internal/events"
	"carpool-service/pkg/kafka"
)

// Subscriber consumes domain events. Satisfied by *kafka.Client.
type Subscriber interface {
	Subscribe(ctx context.Context, topic, groupID string, handler func([]byte) error)
}

const statsGroup = "stats-invalidation"

// StartStatsInvalidation drops cached stats for every user a ride event
// touches, so the next stats read recomputes from the store.
func (s *Service) StartStatsInvalidation(ctx context.Context, sub Subscriber) {
	if s.cache == nil {
		return
	}

	sub.Subscribe(ctx, kafka.TopicRideBooked, statsGroup, func(data []byte) error {
		var ev events.RideBookedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return err
		}
		s.invalidate(ctx, ev.DriverID, ev.PassengerID)
		return nil
	})

	sub.Subscribe(ctx, kafka.TopicRideCancelled, statsGroup, func(data []byte) error {
		var ev events.RideCancelledEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return err
		}
		s.invalidate(ctx, append(ev.Passengers, ev.DriverID)...)
		return nil
	})
}

func (s *Service) invalidate(ctx context.Context, userIDs ...string) {
	keys := make([]string, 0, len(userIDs))
	seen := map[string]bool{}
	for _, id := range userIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		keys = append(keys, statsKey(id))
	}
	if len(keys) == 0 {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("failed to invalidate stats cache", zap.Error(err))
	}
}
