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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ddd "github.com/bytedance/salework"
	"github.com/bytedance/salework/testsuit"
)

type orderUpdatedEvent struct {
	OrderID string
}

func (e orderUpdatedEvent) GetType() ddd.EventType {
	return "order_updated"
}

func (e orderUpdatedEvent) GetSender() string {
	return e.OrderID
}

func newTestBus(t *testing.T, opts ...Options) *EventBus {
	db := testsuit.InitSQLite(&EventPO{})
	return NewEventBus(db, opts...)
}

func TestEventBus_DispatchPersists(t *testing.T) {
	ctx := context.Background()
	bus := newTestBus(t)

	evt := ddd.NewDomainEvent(orderUpdatedEvent{OrderID: "o1"})
	require.NoError(t, bus.Dispatch(ctx, evt))

	pos := make([]*EventPO, 0)
	require.NoError(t, bus.db.Find(&pos).Error)
	require.Len(t, pos, 1)
	assert.Equal(t, evt.ID, pos[0].EventID)
	assert.Equal(t, EventStatusToSend, pos[0].Status)
	assert.Nil(t, pos[0].SentAt)
	require.NotNil(t, pos[0].Event)
	assert.Equal(t, ddd.EventType("order_updated"), pos[0].Event.Type)
	assert.Equal(t, "o1", pos[0].Event.Sender)
}

func TestEventBus_HandleEventsDeliversInOrder(t *testing.T) {
	ctx := context.Background()
	bus := newTestBus(t)

	first := ddd.NewDomainEvent(orderUpdatedEvent{OrderID: "o1"})
	second := ddd.NewDomainEvent(orderUpdatedEvent{OrderID: "o2"})
	require.NoError(t, bus.Dispatch(ctx, first, second))

	senders := make([]string, 0)
	bus.RegisterEventHandler(func(ctx context.Context, evt *ddd.DomainEvent) error {
		senders = append(senders, evt.Sender)
		return nil
	})

	require.NoError(t, bus.handleEvents(ctx))
	assert.Equal(t, []string{"o1", "o2"}, senders)

	pos := make([]*EventPO, 0)
	require.NoError(t, bus.db.Order("id").Find(&pos).Error)
	require.Len(t, pos, 2)
	for _, po := range pos {
		assert.Equal(t, EventStatusSent, po.Status)
		assert.NotNil(t, po.SentAt)
	}

	// 已发送的事件不再重复投递
	require.NoError(t, bus.handleEvents(ctx))
	assert.Len(t, senders, 2)
}

func TestEventBus_HandleEventsNoHandler(t *testing.T) {
	bus := newTestBus(t)
	assert.ErrorIs(t, bus.handleEvents(context.Background()), ErrNoHandlerRegistered)
}

func TestEventBus_RetryExhaustedMarksFailed(t *testing.T) {
	ctx := context.Background()
	bus := newTestBus(t, Options{RetryLimit: 2, RetryInterval: time.Millisecond})

	broken := ddd.NewDomainEvent(orderUpdatedEvent{OrderID: "o1"})
	require.NoError(t, bus.Dispatch(ctx, broken))

	calls := 0
	bus.RegisterEventHandler(func(ctx context.Context, evt *ddd.DomainEvent) error {
		calls++
		return fmt.Errorf("downstream unavailable")
	})

	require.NoError(t, bus.handleEvents(ctx))
	assert.Equal(t, 2, calls)

	po := &EventPO{}
	require.NoError(t, bus.db.Where("event_id = ?", broken.ID).First(po).Error)
	assert.Equal(t, EventStatusFailed, po.Status)
}

func TestEventBus_CleanEventsKeepsRecent(t *testing.T) {
	ctx := context.Background()
	bus := newTestBus(t, Options{Retention: time.Hour})

	old := ddd.NewDomainEvent(orderUpdatedEvent{OrderID: "o1"})
	recent := ddd.NewDomainEvent(orderUpdatedEvent{OrderID: "o2"})
	require.NoError(t, bus.Dispatch(ctx, old, recent))

	past := time.Now().Add(-time.Hour * 2)
	require.NoError(t, bus.db.Model(&EventPO{}).
		Where("event_id = ?", old.ID).
		Updates(map[string]interface{}{"status": EventStatusSent, "created_at": past}).Error)
	require.NoError(t, bus.db.Model(&EventPO{}).
		Where("event_id = ?", recent.ID).
		Update("status", EventStatusSent).Error)

	require.NoError(t, bus.cleanEvents(ctx))

	pos := make([]*EventPO, 0)
	require.NoError(t, bus.db.Find(&pos).Error)
	require.Len(t, pos, 1)
	assert.Equal(t, recent.ID, pos[0].EventID)
}
