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

package salework

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-logr/logr"
	"github.com/rs/xid"
	"golang.org/x/sync/errgroup"

	"github.com/bytedance/salework/logger/stdr"
)

var defaultLogger = stdr.NewStdr("salework")

type ILock interface {
	Lock(ctx context.Context, key string) (keyLock interface{}, err error)
	UnLock(ctx context.Context, keyLock interface{}) error
}

type IIDGenerator interface {
	NewID() (string, error)
}

type defaultIDGenerator struct {
}

func (d *defaultIDGenerator) NewID() (string, error) {
	guid := xid.New()
	return guid.String(), nil
}

// NewID 生成全局唯一 ID，单节点内严格自增
func NewID() string {
	return xid.New().String()
}

type Options struct {
	Locker      ILock
	EventBus    IEventBus
	Logger      logr.Logger
	IDGenerator IIDGenerator
}

type Option interface {
	ApplyToOptions(*Options)
}

type LoggerOption struct {
	logger logr.Logger
}

func (t LoggerOption) ApplyToOptions(opts *Options) {
	opts.Logger = t.logger
}

func WithLogger(logger logr.Logger) LoggerOption {
	return LoggerOption{logger: logger}
}

type LockOption struct {
	lock ILock
}

func (t LockOption) ApplyToOptions(opts *Options) {
	opts.Locker = t.lock
}

func WithLock(lock ILock) LockOption {
	return LockOption{lock: lock}
}

type EventBusOption struct {
	eventBus IEventBus
}

func (t EventBusOption) ApplyToOptions(opts *Options) {
	opts.EventBus = t.eventBus
}

func WithEventBus(eventBus IEventBus) EventBusOption {
	return EventBusOption{eventBus: eventBus}
}

type IDGeneratorOption struct {
	idGen IIDGenerator
}

func (t IDGeneratorOption) ApplyToOptions(opts *Options) {
	opts.IDGenerator = t.idGen
}

func WithIDGenerator(idGen IIDGenerator) IDGeneratorOption {
	return IDGeneratorOption{idGen: idGen}
}

// Session 一次工作单元：仓储把写操作暂存为 Action 序列，Commit 在单个事务内执行全部
// Action，事务提交成功后收集被跟踪实体上的领域事件并发送，提交失败不发送任何事件
type Session struct {
	executor    IExecutor
	eventBus    IEventBus
	locker      ILock
	logger      logr.Logger
	idGenerator IIDGenerator

	lockKeys []string
	actions  []*Action
	tracked  []IEntity
}

func NewSession(executor IExecutor, opts ...Option) *Session {
	options := Options{
		Logger:      defaultLogger,
		IDGenerator: &defaultIDGenerator{},
		EventBus:    &noEventBus{},
	}
	for _, opt := range opts {
		opt.ApplyToOptions(&options)
	}
	eventBus := options.EventBus
	eventBus.RegisterEventHandler(onEvent)
	return &Session{
		executor:    executor,
		eventBus:    eventBus,
		locker:      options.Locker,
		logger:      options.Logger,
		idGenerator: options.IDGenerator,
	}
}

// Lock 设置提交时需要持有的锁，同一个 key 不允许重复
func (s *Session) Lock(keys ...string) *Session {
	s.lockKeys = keys
	return s
}

// Track 跟踪聚合根实体，提交成功后会从这些实体上收集领域事件
func (s *Session) Track(entities ...IEntity) {
	for _, entity := range entities {
		exists := false
		for _, t := range s.tracked {
			if t == entity {
				exists = true
				break
			}
		}
		if !exists {
			s.tracked = append(s.tracked, entity)
		}
	}
}

func (s *Session) stage(op OpType, models ...IModel) {
	if len(models) == 0 {
		return
	}
	s.actions = append(s.actions, &Action{Op: op, Models: models})
}

// StageInsert 暂存新增，模型没有 ID 时自动生成
func (s *Session) StageInsert(models ...IModel) error {
	for _, m := range models {
		if m.GetID() != "" {
			continue
		}
		setter, ok := m.(interface{ SetID(id string) })
		if !ok {
			return fmt.Errorf("model %T has empty id and no SetID", m)
		}
		id, err := s.idGenerator.NewID()
		if err != nil {
			return err
		}
		setter.SetID(id)
	}
	s.stage(OpInsert, models...)
	return nil
}

func (s *Session) StageUpdate(models ...IModel) {
	s.stage(OpUpdate, models...)
}

func (s *Session) StageDelete(models ...IModel) {
	s.stage(OpDelete, models...)
}

// Query 即时查询，不进入暂存队列
func (s *Session) Query(ctx context.Context, query IModel, result interface{}) error {
	return s.executor.Exec(ctx, &Action{
		Op:          OpQuery,
		Query:       query,
		QueryResult: result,
	})
}

// Dirty 返回是否有待提交的变更
func (s *Session) Dirty() bool {
	return len(s.actions) > 0
}

// collectEvents 收集所有被跟踪实体上的事件，不清空
// 清空在事务提交成功后由 clearEvents 执行，提交失败事件保留在实体上
func (s *Session) collectEvents() []*DomainEvent {
	events := make([]*DomainEvent, 0)
	for _, entity := range s.tracked {
		events = append(events, entity.GetEvents()...)
	}
	// 事件根据发送时间 + id 的顺序排序，id 由 xid 保证单节点严格自增
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt) ||
			(events[i].CreatedAt.Equal(events[j].CreatedAt) && events[i].ID < events[j].ID)
	})
	return events
}

func (s *Session) clearEvents() {
	for _, entity := range s.tracked {
		entity.ClearEvents()
	}
}

func (s *Session) unDirty() {
	for _, entity := range s.tracked {
		entity.UnDirty()
	}
}

// dispatchEvents 并发送出已提交的事件，独立事件之间不保证顺序
// 发送失败只记录日志，送达保证由 EventBus 的实现负责
func (s *Session) dispatchEvents(ctx context.Context, events []*DomainEvent) {
	g, gctx := errgroup.WithContext(ctx)
	for _, evt := range events {
		evt := evt
		g.Go(func() error {
			return s.eventBus.Dispatch(gctx, evt)
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error(err, "dispatch events failed")
	}
}

// Commit 在单个本地事务内提交所有暂存变更，返回值为 true 当且仅当至少一条变更持久化成功
// 任何一步失败整体回滚，事务失败不发送任何事件
func (s *Session) Commit(ctx context.Context) (bool, error) {
	if len(s.actions) == 0 {
		return false, nil
	}

	unlock, err := s.acquireLocks(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	tctx, err := s.executor.Begin(ctx)
	if err != nil {
		return false, err
	}
	for _, action := range s.actions {
		if err := s.executor.Exec(tctx, action); err != nil {
			if rerr := s.executor.RollBack(tctx); rerr != nil {
				s.logger.Error(rerr, "rollback failed")
			}
			return false, err
		}
	}

	// 事务失败的任何一步都不清空实体上的事件，只在提交成功后先清空再发送，
	// 清空先于发送保证同一事件至多发送一次
	events := s.collectEvents()
	if err := s.executor.Commit(tctx); err != nil {
		s.logger.Error(err, "commit failed")
		return false, err
	}

	s.clearEvents()
	s.actions = nil
	s.unDirty()

	if len(events) > 0 {
		s.dispatchEvents(ctx, events)
	}
	return true, nil
}

func (s *Session) acquireLocks(ctx context.Context) (func(), error) {
	if len(s.lockKeys) == 0 || s.locker == nil {
		return func() {}, nil
	}

	lockKeys := append([]string{}, s.lockKeys...)
	sort.Strings(lockKeys)
	for i := 1; i < len(lockKeys); i++ {
		if lockKeys[i] == lockKeys[i-1] {
			return nil, fmt.Errorf("lockKey(%s) repeated", lockKeys[i])
		}
	}

	ls := make([]interface{}, 0)
	unlock := func() {
		for _, l := range ls {
			if err := s.locker.UnLock(ctx, l); err != nil {
				s.logger.Error(err, "unlock failed")
			}
		}
	}
	for _, key := range lockKeys {
		l, err := s.locker.Lock(ctx, fmt.Sprintf("salework_%s", key))
		if err != nil {
			unlock()
			return nil, fmt.Errorf("acquiring locker failed: %v", err)
		}
		ls = append(ls, l)
	}
	return unlock, nil
}
