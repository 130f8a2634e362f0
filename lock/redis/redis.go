//
// Copyright 2024 Bytedance Ltd. and/or its affiliates
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package redis

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const defaultRetryInterval = 100 * time.Millisecond
const defaultRetryLimit = 30

// RedisLock 基于 redislock 的分布式锁，用于把同一客户的命令处理串行化
type RedisLock struct {
	ttl time.Duration
	cli *redislock.Client
}

func NewRedisLock(cli *redis.Client, ttl time.Duration) *RedisLock {
	return &RedisLock{cli: redislock.New(cli), ttl: ttl}
}

func (r *RedisLock) Lock(ctx context.Context, key string) (keyLock interface{}, err error) {
	return r.cli.Obtain(ctx, key, r.ttl, &redislock.Options{
		// 固定间隔重试，超过上限放弃拿锁
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(defaultRetryInterval), defaultRetryLimit),
	})
}

func (r *RedisLock) UnLock(ctx context.Context, keyLock interface{}) error {
	l := keyLock.(*redislock.Lock)
	return l.Release(ctx)
}
