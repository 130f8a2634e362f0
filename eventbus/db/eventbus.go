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

package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-logr/logr"
	"github.com/robfig/cron"
	"gorm.io/gorm"

	ddd "github.com/bytedance/salework"
	"github.com/bytedance/salework/logger/stdr"
)

const defaultRetryInterval = time.Second * 3
const defaultRetryLimit = 5
const defaultBatchSize = 100
const defaultScanCron = "@every 1s"
const defaultCleanCron = "@every 1h"
const defaultRetention = time.Hour * 24 * 7

var ErrNoHandlerRegistered = fmt.Errorf("no event handler registered")

type Options struct {
	RetryInterval time.Duration // 单条事件投递失败后的重试间隔
	RetryLimit    int           // 重试上限，超过后事件标记为 failed
	BatchSize     int           // 单次扫描的事件条数
	ScanCron      string
	CleanCron     string
	Retention     time.Duration // 已发送事件的保留时长
	Logger        *logr.Logger
}

// EventBus 持久化事件总线：Dispatch 只负责把事件写进事件表，
// 后台扫描按创建顺序投递给注册的回调，投递带固定间隔重试
type EventBus struct {
	db     *gorm.DB
	cb     ddd.DomainEventHandler
	logger logr.Logger
	opt    Options

	scanCron *cron.Cron
	once     sync.Once
}

func NewEventBus(db *gorm.DB, opts ...Options) *EventBus {
	opt := Options{
		RetryInterval: defaultRetryInterval,
		RetryLimit:    defaultRetryLimit,
		BatchSize:     defaultBatchSize,
		ScanCron:      defaultScanCron,
		CleanCron:     defaultCleanCron,
		Retention:     defaultRetention,
	}
	if len(opts) > 0 {
		custom := opts[0]
		if custom.RetryInterval > 0 {
			opt.RetryInterval = custom.RetryInterval
		}
		if custom.RetryLimit > 0 {
			opt.RetryLimit = custom.RetryLimit
		}
		if custom.BatchSize > 0 {
			opt.BatchSize = custom.BatchSize
		}
		if custom.ScanCron != "" {
			opt.ScanCron = custom.ScanCron
		}
		if custom.CleanCron != "" {
			opt.CleanCron = custom.CleanCron
		}
		if custom.Retention > 0 {
			opt.Retention = custom.Retention
		}
		if custom.Logger != nil {
			opt.Logger = custom.Logger
		}
	}
	if _, err := cron.Parse(opt.ScanCron); err != nil {
		panic(fmt.Sprintf("cron expression %s is invalid", opt.ScanCron))
	}
	if _, err := cron.Parse(opt.CleanCron); err != nil {
		panic(fmt.Sprintf("cron expression %s is invalid", opt.CleanCron))
	}

	logger := stdr.NewStdr("db_eventbus")
	if opt.Logger != nil {
		logger = *opt.Logger
	}
	return &EventBus{
		db:       db,
		logger:   logger,
		opt:      opt,
		scanCron: cron.New(),
	}
}

func (e *EventBus) Dispatch(ctx context.Context, evts ...*ddd.DomainEvent) error {
	pos := make([]*EventPO, 0, len(evts))
	for _, evt := range evts {
		pos = append(pos, &EventPO{
			EventID: evt.ID,
			Event:   evt,
			Status:  EventStatusToSend,
		})
	}
	return e.db.WithContext(ctx).Create(pos).Error
}

func (e *EventBus) RegisterEventHandler(cb ddd.DomainEventHandler) {
	e.cb = cb
}

// Start 启动扫描和清理的定时任务，重复调用只生效一次
func (e *EventBus) Start(ctx context.Context) {
	e.once.Do(func() {
		if err := e.scanCron.AddFunc(e.opt.ScanCron, func() {
			if err := e.handleEvents(ctx); err != nil {
				e.logger.Error(err, "handle events failed")
			}
		}); err != nil {
			panic(err)
		}
		if err := e.scanCron.AddFunc(e.opt.CleanCron, func() {
			if err := e.cleanEvents(ctx); err != nil {
				e.logger.Error(err, "clean events failed")
			}
		}); err != nil {
			panic(err)
		}
		e.scanCron.Start()
	})
}

func (e *EventBus) Stop() {
	e.scanCron.Stop()
}

// handleEvents 按创建顺序投递待发送事件，失败事件带固定间隔重试，
// 重试耗尽后标记 failed，不阻塞后续事件
func (e *EventBus) handleEvents(ctx context.Context) error {
	if e.cb == nil {
		return ErrNoHandlerRegistered
	}

	pos := make([]*EventPO, 0)
	err := e.db.WithContext(ctx).
		Where("status = ?", EventStatusToSend).
		Order("id").
		Limit(e.opt.BatchSize).
		Find(&pos).Error
	if err != nil {
		return err
	}

	for _, po := range pos {
		status := EventStatusSent
		err := retry.Do(func() error {
			return e.cb(ctx, po.Event)
		},
			retry.Attempts(uint(e.opt.RetryLimit)),
			retry.Delay(e.opt.RetryInterval),
			retry.DelayType(retry.FixedDelay),
			retry.LastErrorOnly(true),
		)
		if err != nil {
			e.logger.Error(err, "event delivery failed", "event_id", po.EventID)
			status = EventStatusFailed
		}
		now := time.Now()
		update := e.db.WithContext(ctx).Model(po).
			Select("status", "sent_at").
			Updates(&EventPO{Status: status, SentAt: &now})
		if update.Error != nil {
			return update.Error
		}
	}
	return nil
}

func (e *EventBus) cleanEvents(ctx context.Context) error {
	deadline := time.Now().Add(-e.opt.Retention)
	return e.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", EventStatusSent, deadline).
		Delete(&EventPO{}).Error
}
