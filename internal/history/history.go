package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/skydeals/flightmonitor/internal/models"
)

// Store keeps the per-route price series the deal and alert checks compare
// against. Each observation lives in a sorted set scored by its timestamp, so
// lookback windows are range queries and retention is a single trim.
type Store struct {
	client    *redis.Client
	retention time.Duration
	logger    zerolog.Logger
}

func NewStore(client *redis.Client, retentionDays int, logger zerolog.Logger) *Store {
	return &Store{
		client:    client,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger.With().Str("component", "history").Logger(),
	}
}

type entry struct {
	OfferID    string  `json:"offer_id"`
	Price      float64 `json:"price"`
	RecordedAt int64   `json:"recorded_at"`
}

// Record appends the observed prices of a search to the route's series and
// trims entries past retention.
func (s *Store) Record(ctx context.Context, origin, destination string, offers []models.Offer) error {
	if len(offers) == 0 {
		return nil
	}

	now := time.Now().UTC()
	members := make([]redis.Z, 0, len(offers))
	for _, offer := range offers {
		data, err := json.Marshal(entry{
			OfferID:    offer.ID,
			Price:      offer.TotalPrice,
			RecordedAt: now.Unix(),
		})
		if err != nil {
			return fmt.Errorf("marshal history entry: %w", err)
		}
		members = append(members, redis.Z{
			Score:  float64(now.Unix()),
			Member: string(data),
		})
	}

	key := routeKey(origin, destination)
	pipe := s.client.Pipeline()
	pipe.ZAdd(ctx, key, members...)
	cutoff := now.Add(-s.retention).Unix()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(cutoff, 10))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record price history: %w", err)
	}

	s.logger.Debug().Str("route", origin+"-"+destination).
		Int("observations", len(members)).Msg("recorded price history")
	return nil
}

// Window returns the route's observations over the last lookback days,
// ordered oldest first. An empty series is a normal result for new routes.
func (s *Store) Window(ctx context.Context, origin, destination string, days int) ([]models.PricePoint, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Unix()

	raw, err := s.client.ZRangeByScore(ctx, routeKey(origin, destination), &redis.ZRangeBy{
		Min: strconv.FormatInt(cutoff, 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("read price history: %w", err)
	}

	points := make([]models.PricePoint, 0, len(raw))
	for _, member := range raw {
		var e entry
		if err := json.Unmarshal([]byte(member), &e); err != nil {
			s.logger.Warn().Err(err).Msg("skipping corrupt history entry")
			continue
		}
		points = append(points, models.PricePoint{
			RecordedAt: e.RecordedAt,
			Price:      e.Price,
		})
	}

	return points, nil
}

func routeKey(origin, destination string) string {
	return "history:" + origin + ":" + destination
}
