package geo

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/ReturnKart/backhaul-backend/internal/models"
)

// RedisIndex implements TruckLocationIndex using Redis GEO commands, so
// the latest positions survive restarts and can be shared between
// instances.
type RedisIndex struct {
	client *redis.Client
	key    string
	ctx    context.Context
}

func NewRedisIndex(addr, password, key string) *RedisIndex {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &RedisIndex{client: c, key: key, ctx: context.Background()}
}

func (r *RedisIndex) Upsert(truckID string, c models.Coordinate) {
	_, _ = r.client.GeoAdd(r.ctx, r.key, &redis.GeoLocation{
		Longitude: c.Lng,
		Latitude:  c.Lat,
		Name:      truckID,
	}).Result()
}

func (r *RedisIndex) Latest(truckID string) (models.Coordinate, bool) {
	pos, err := r.client.GeoPos(r.ctx, r.key, truckID).Result()
	if err != nil || len(pos) == 0 || pos[0] == nil {
		return models.Coordinate{}, false
	}
	return models.Coordinate{Lat: pos[0].Latitude, Lng: pos[0].Longitude}, true
}
