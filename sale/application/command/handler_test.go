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

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ddd "github.com/bytedance/salework"
	"github.com/bytedance/salework/sale/domain"
)

// recordingBus 同步记录所有经过总线的事件
type recordingBus struct {
	events []*ddd.DomainEvent
}

func (b *recordingBus) Dispatch(ctx context.Context, evts ...*ddd.DomainEvent) error {
	b.events = append(b.events, evts...)
	return nil
}

func (b *recordingBus) RegisterEventHandler(cb ddd.DomainEventHandler) {
}

func (b *recordingBus) notifications() []*ddd.NotificationEvent {
	out := make([]*ddd.NotificationEvent, 0)
	for _, evt := range b.events {
		if evt.Type != ddd.EventTypeNotification {
			continue
		}
		n := &ddd.NotificationEvent{}
		if err := json.Unmarshal(evt.Payload, n); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// fakeRepo 记录仓储调用序列，Commit 成功后转发暂存事件
type fakeRepo struct {
	draft *domain.Order
	bus   ddd.IEventBus

	calls     []string
	commitErr error
	committed bool
	tracked   []*domain.Order
}

func (r *fakeRepo) Add(order *domain.Order) error {
	r.calls = append(r.calls, "Add")
	r.tracked = append(r.tracked, order)
	return nil
}

func (r *fakeRepo) Update(order *domain.Order) error {
	r.calls = append(r.calls, "Update")
	r.tracked = append(r.tracked, order)
	return nil
}

func (r *fakeRepo) AddItem(item *domain.Item) error {
	r.calls = append(r.calls, "AddItem")
	return nil
}

func (r *fakeRepo) UpdateItem(item *domain.Item) error {
	r.calls = append(r.calls, "UpdateItem")
	return nil
}

func (r *fakeRepo) GetDraftOrderByClientID(ctx context.Context, clientID string) (*domain.Order, error) {
	r.calls = append(r.calls, "GetDraftOrderByClientID")
	return r.draft, nil
}

func (r *fakeRepo) Commit(ctx context.Context) (bool, error) {
	r.calls = append(r.calls, "Commit")
	if r.commitErr != nil {
		return false, r.commitErr
	}
	r.committed = true
	for _, order := range r.tracked {
		events := order.GetEvents()
		order.ClearEvents()
		if r.bus != nil {
			_ = r.bus.Dispatch(ctx, events...)
		}
	}
	return true, nil
}

func newHandlerFixture() (*OrderCommandHandler, *fakeRepo, *recordingBus) {
	bus := &recordingBus{}
	repo := &fakeRepo{bus: bus}
	return NewOrderCommandHandler(repo, bus), repo, bus
}

// 无效命令：每条违规一个通知，仓储零交互
func TestHandle_InvalidCommand(t *testing.T) {
	handler, repo, bus := newHandlerFixture()
	cmd := NewAddOrderItemCommand("", "", "", 0, decimal.Zero)

	ok, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, repo.calls)

	notifications := bus.notifications()
	require.Len(t, notifications, 5)
	for _, n := range notifications {
		assert.Equal(t, MessageTypeAddOrderItem, n.MessageType)
	}
}

func TestHandle_NewOrder(t *testing.T) {
	handler, repo, bus := newHandlerFixture()
	cmd := NewAddOrderItemCommand("client-1", "item-1", "item x", 2, decimal.NewFromInt(100))

	ok, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"GetDraftOrderByClientID", "Add", "Commit"}, repo.calls)

	// 提交成功后草稿创建和加购两个事件都已发出
	types := make([]ddd.EventType, 0)
	for _, evt := range bus.events {
		types = append(types, evt.Type)
	}
	assert.Contains(t, types, domain.EventOrderDraftStarted)
	assert.Contains(t, types, domain.EventOrderItemAdded)
}

func TestHandle_ExistingOrderNewItem(t *testing.T) {
	handler, repo, _ := newHandlerFixture()
	draft := domain.NewDraftOrder("client-1")
	draft.ClearEvents()
	repo.draft = draft

	cmd := NewAddOrderItemCommand("client-1", "item-1", "item x", 2, decimal.NewFromInt(100))
	ok, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"GetDraftOrderByClientID", "AddItem", "Update", "Commit"}, repo.calls)
}

func TestHandle_ExistingOrderMergesItem(t *testing.T) {
	handler, repo, _ := newHandlerFixture()
	draft := domain.NewDraftOrder("client-1")
	item, err := domain.NewItem("item-1", "item x", 2, decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, draft.AddItem(item))
	draft.ClearEvents()
	repo.draft = draft

	cmd := NewAddOrderItemCommand("client-1", "item-1", "item x", 1, decimal.NewFromInt(100))
	ok, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"GetDraftOrderByClientID", "UpdateItem", "Update", "Commit"}, repo.calls)
	assert.Equal(t, 3, draft.Item("item-1").Quantity)
	assert.True(t, draft.TotalValue.Equal(decimal.NewFromInt(300)))
}

// 聚合约束被破坏对本次调用是致命的，提交之前就终止
func TestHandle_DomainViolationAbortsBeforeCommit(t *testing.T) {
	handler, repo, _ := newHandlerFixture()
	draft := domain.NewDraftOrder("client-1")
	item, err := domain.NewItem("item-1", "item x", 14, decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, draft.AddItem(item))
	draft.ClearEvents()
	repo.draft = draft

	cmd := NewAddOrderItemCommand("client-1", "item-1", "item x", 2, decimal.NewFromInt(100))
	ok, err := handler.Handle(context.Background(), cmd)
	require.Error(t, err)
	assert.False(t, ok)
	assert.False(t, repo.committed)
	assert.NotContains(t, repo.calls, "Commit")
}

func TestHandle_CommitFailure(t *testing.T) {
	handler, repo, bus := newHandlerFixture()
	repo.commitErr = fmt.Errorf("stale draft order")

	cmd := NewAddOrderItemCommand("client-1", "item-1", "item x", 2, decimal.NewFromInt(100))
	ok, err := handler.Handle(context.Background(), cmd)
	require.Error(t, err)
	assert.False(t, ok)
	assert.Empty(t, bus.events)
}
