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

package domain

import (
	"github.com/shopspring/decimal"

	ddd "github.com/bytedance/salework"
)

const EventOrderDraftStarted ddd.EventType = "order_draft_started"
const EventOrderItemAdded ddd.EventType = "order_item_added"
const EventOrderUpdated ddd.EventType = "order_updated"

// OrderDraftStartedEvent 事件定义，建议以 Event 结尾，过去式命名
type OrderDraftStartedEvent struct {
	OrderID  string
	ClientID string
}

func NewOrderDraftStartedEvent(orderID, clientID string) *OrderDraftStartedEvent {
	return &OrderDraftStartedEvent{OrderID: orderID, ClientID: clientID}
}

func (e OrderDraftStartedEvent) GetType() ddd.EventType {
	return EventOrderDraftStarted
}

func (e OrderDraftStartedEvent) GetSender() string {
	return e.OrderID
}

type OrderItemAddedEvent struct {
	ClientID     string
	OrderID      string
	ItemID       string
	ItemName     string
	ItemQuantity int
	ItemValue    decimal.Decimal
}

func NewOrderItemAddedEvent(clientID, orderID, itemID, itemName string, quantity int, value decimal.Decimal) *OrderItemAddedEvent {
	return &OrderItemAddedEvent{
		ClientID:     clientID,
		OrderID:      orderID,
		ItemID:       itemID,
		ItemName:     itemName,
		ItemQuantity: quantity,
		ItemValue:    value,
	}
}

func (e OrderItemAddedEvent) GetType() ddd.EventType {
	return EventOrderItemAdded
}

func (e OrderItemAddedEvent) GetSender() string {
	return e.OrderID
}

type OrderUpdatedEvent struct {
	OrderID    string
	TotalValue decimal.Decimal
}

func NewOrderUpdatedEvent(orderID string, total decimal.Decimal) *OrderUpdatedEvent {
	return &OrderUpdatedEvent{OrderID: orderID, TotalValue: total}
}

func (e OrderUpdatedEvent) GetType() ddd.EventType {
	return EventOrderUpdated
}

func (e OrderUpdatedEvent) GetSender() string {
	return e.OrderID
}
