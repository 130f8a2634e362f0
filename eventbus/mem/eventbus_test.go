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

package mem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ddd "github.com/bytedance/salework"
)

type itemAddedEvent struct {
	OrderID string
}

func (e itemAddedEvent) GetType() ddd.EventType {
	return "order_item_added"
}

func (e itemAddedEvent) GetSender() string {
	return e.OrderID
}

func TestMemoryEventBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewEventBus(16)
	received := make(chan *ddd.DomainEvent, 1)
	bus.RegisterEventHandler(func(ctx context.Context, evt *ddd.DomainEvent) error {
		received <- evt
		return nil
	})
	bus.Start(ctx)

	require.NoError(t, bus.Dispatch(ctx, ddd.NewDomainEvent(itemAddedEvent{OrderID: "o1"})))

	select {
	case evt := <-received:
		assert.Equal(t, ddd.EventType("order_item_added"), evt.Type)
		assert.Equal(t, "o1", evt.Sender)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}
