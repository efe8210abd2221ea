package adapter

import (
	"context"
	"testing"
	"time"

	"quizdeck/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisCacheAdapter_GetHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cacheAdapter := NewRedisCacheAdapter(client)

	mock.ExpectGet("quizdeck:content:quiz_meta:bash-quiz").SetVal(`{"slug":"bash-quiz"}`)

	val, err := cacheAdapter.Get(context.Background(), "quizdeck:content:quiz_meta:bash-quiz")

	assert.NoError(t, err)
	assert.Equal(t, `{"slug":"bash-quiz"}`, val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_GetMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cacheAdapter := NewRedisCacheAdapter(client)

	mock.ExpectGet("missing").RedisNil()

	_, err := cacheAdapter.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_SetAndDelete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cacheAdapter := NewRedisCacheAdapter(client)

	mock.ExpectSet("k", "v", time.Minute).SetVal("OK")
	assert.NoError(t, cacheAdapter.Set(context.Background(), "k", "v", time.Minute))

	mock.ExpectDel("k").SetVal(1)
	assert.NoError(t, cacheAdapter.Delete(context.Background(), "k"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
