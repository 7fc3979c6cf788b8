package services

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/caminoapp/camino-backend/internal/config"
)

const openTripsKey = "trips:open:geo"

// NewRedisClient builds a redis client from configuration and verifies the
// connection with a ping.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// TripIndex keeps the pickup points of open trips in a redis GEO set so
// nearby lookups avoid a full table scan. The database stays authoritative:
// index hits are always re-verified there.
type TripIndex struct {
	client *redis.Client
}

func NewTripIndex(client *redis.Client) *TripIndex {
	return &TripIndex{client: client}
}

// Add registers a trip's pickup point.
func (i *TripIndex) Add(ctx context.Context, tripID string, lat, lng float64) error {
	return i.client.GeoAdd(ctx, openTripsKey, &redis.GeoLocation{
		Name:      tripID,
		Latitude:  lat,
		Longitude: lng,
	}).Err()
}

// Remove drops a trip that is no longer open.
func (i *TripIndex) Remove(ctx context.Context, tripID string) error {
	return i.client.ZRem(ctx, openTripsKey, tripID).Err()
}

// Nearby returns trip ids within radiusKm of the center, closest first.
func (i *TripIndex) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]string, error) {
	locations, err := i.client.GeoSearchLocation(ctx, openTripsKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Latitude:   lat,
			Longitude:  lng,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
		},
		WithDist: true,
	}).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(locations))
	for _, loc := range locations {
		ids = append(ids, loc.Name)
	}
	return ids, nil
}
