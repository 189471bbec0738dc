package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"slideshow/internal/domain/models"
	"slideshow/internal/storage"
	redisapp "slideshow/internal/storage/redis"

	"github.com/redis/go-redis/v9"
)

const (
	creationOrderKey = "creations:order"
	creationKeyPref  = "creation:"
)

// RedisCreationRepo хранит записи в ключах creation:<id>,
// порядок - в списке creations:order (LPUSH, новые в начале).
type RedisCreationRepo struct {
	Client *redisapp.Client
}

func NewRedisCreationRepo(client *redisapp.Client) *RedisCreationRepo {
	return &RedisCreationRepo{Client: client}
}

func (r *RedisCreationRepo) Insert(ctx context.Context, c models.Creation) error {
	const op = "repository.RedisCreationRepo.Insert"

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ok, err := r.Client.SetNX(ctx, creationKey(c.ID), string(data), 0).Result()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrCreationExists)
	}

	// SETNX и LPUSH не атомарны: при падении процесса между ними запись
	// доступна через Get, но не попадает в List. Ресурсы такой записи
	// очистка не трогает, так как она ищет владельца через Get.
	if err := r.Client.LPush(ctx, creationOrderKey, c.ID).Err(); err != nil {
		r.Client.Del(ctx, creationKey(c.ID))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisCreationRepo) Get(ctx context.Context, id string) (models.Creation, error) {
	const op = "repository.RedisCreationRepo.Get"

	data, err := r.Client.Get(ctx, creationKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Creation{}, fmt.Errorf("%s: %w", op, storage.ErrCreationNotFound)
	}
	if err != nil {
		return models.Creation{}, fmt.Errorf("%s: %w", op, err)
	}

	var c models.Creation
	if err := json.Unmarshal(data, &c); err != nil {
		return models.Creation{}, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (r *RedisCreationRepo) List(ctx context.Context) ([]models.Creation, error) {
	const op = "repository.RedisCreationRepo.List"

	ids, err := r.Client.LRange(ctx, creationOrderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(ids) == 0 {
		return []models.Creation{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = creationKey(id)
	}

	values, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]models.Creation, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// запись удалена между LRANGE и MGET
			continue
		}

		var c models.Creation
		if err := json.Unmarshal([]byte(s), &c); err != nil {
			return nil, fmt.Errorf("%s: decode %s: %w", op, ids[i], err)
		}
		out = append(out, c)
	}

	return out, nil
}

func (r *RedisCreationRepo) Delete(ctx context.Context, id string) (models.Creation, error) {
	const op = "repository.RedisCreationRepo.Delete"

	c, err := r.Get(ctx, id)
	if err != nil {
		return models.Creation{}, err
	}

	var del *redis.IntCmd
	_, err = r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, creationKey(id))
		pipe.LRem(ctx, creationOrderKey, 0, id)
		return nil
	})
	if err != nil {
		return models.Creation{}, fmt.Errorf("%s: %w", op, err)
	}
	// ключ успел удалить параллельный Delete
	if del.Val() == 0 {
		return models.Creation{}, fmt.Errorf("%s: %w", op, storage.ErrCreationNotFound)
	}

	return c, nil
}

func creationKey(id string) string {
	return creationKeyPref + id
}
