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

// 单行数量上下限，聚合级约束
const (
	MaxItemQuantity = 15
	MinItemQuantity = 1
)

const (
	ErrKindInvalidQuantity     ddd.ErrKind = "invalid_quantity"
	ErrKindMaxQuantityExceeded ddd.ErrKind = "max_quantity_exceeded"
	ErrKindItemNotFound        ddd.ErrKind = "item_not_found"
)

type OrderStatus int8

const (
	OrderStatusDraft     OrderStatus = 1
	OrderStatusStarted   OrderStatus = 2
	OrderStatusPaid      OrderStatus = 3
	OrderStatusDelivered OrderStatus = 4
	OrderStatusCancelled OrderStatus = 5
)

// Order 聚合根，独占 Item 集合，对 Voucher 只持有不可变快照
// 本核心只产生 Draft 状态，后续状态流转由结算、履约方负责
type Order struct {
	ddd.BaseEntity

	ID            string
	ClientID      string
	TotalValue    decimal.Decimal
	Status        OrderStatus
	Items         []*Item
	Voucher       *Voucher
	VoucherUsed   bool
	DiscountValue decimal.Decimal
}

// NewDraftOrder 草稿订单唯一的创建入口
func NewDraftOrder(clientID string) *Order {
	order := &Order{
		ID:       ddd.NewID(),
		ClientID: clientID,
		Status:   OrderStatusDraft,
	}
	order.AddEvent(NewOrderDraftStartedEvent(order.ID, clientID))
	return order
}

func (o *Order) SetID(id string) {
	o.ID = id
}

func (o *Order) GetID() string {
	return o.ID
}

func (o *Order) itemByID(id string) *Item {
	for _, item := range o.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

func (o *Order) ItemExists(id string) bool {
	return o.itemByID(id) != nil
}

// Item 按 id 返回当前订单行，不存在时返回 nil
func (o *Order) Item(id string) *Item {
	return o.itemByID(id)
}

// AddItem 按 item id 合并订单行，合并后的数量超过上限时整个操作失败，订单保持原状
// 校验先于任何修改执行，不存在部分生效的中间态
func (o *Order) AddItem(item *Item) error {
	existing := o.itemByID(item.ID)

	incoming := item.Quantity
	quantity := incoming
	if existing != nil {
		quantity += existing.Quantity
	}
	if quantity > MaxItemQuantity {
		return ddd.NewDomainError(ErrKindMaxQuantityExceeded,
			"item max quantity allowed: %d. quantity received: %d", MaxItemQuantity, item.Quantity)
	}

	if existing != nil {
		existing.IncreaseQuantity(item.Quantity)
		item = existing
	}
	item.order = o

	// 构造新集合整体替换，避免出现可见的半更新状态
	newItems := make([]*Item, 0, len(o.Items)+1)
	for _, it := range o.Items {
		if it.ID != item.ID {
			newItems = append(newItems, it)
		}
	}
	o.Items = append(newItems, item)

	o.calculateValue()
	// 事件记录本次加购的数量，不是合并后的行总量
	o.AddEvent(NewOrderItemAddedEvent(o.ClientID, o.ID, item.ID, item.Name, incoming, item.Value))
	return nil
}

// UpdateItem 整行替换，数量直接取替换值校验，不与旧行叠加
func (o *Order) UpdateItem(item *Item) error {
	if !o.ItemExists(item.ID) {
		return ddd.NewDomainError(ErrKindItemNotFound, "item %s not in order", item.ID)
	}
	if item.Quantity > MaxItemQuantity {
		return ddd.NewDomainError(ErrKindMaxQuantityExceeded,
			"item max quantity allowed: %d. quantity received: %d", MaxItemQuantity, item.Quantity)
	}
	item.order = o

	newItems := make([]*Item, 0, len(o.Items))
	for _, it := range o.Items {
		if it.ID != item.ID {
			newItems = append(newItems, it)
		}
	}
	o.Items = append(newItems, item)

	o.calculateValue()
	o.AddEvent(NewOrderUpdatedEvent(o.ID, o.TotalValue))
	return nil
}

func (o *Order) RemoveItem(item *Item) error {
	if !o.ItemExists(item.ID) {
		return ddd.NewDomainError(ErrKindItemNotFound, "item %s not in order", item.ID)
	}

	newItems := make([]*Item, 0, len(o.Items))
	for _, it := range o.Items {
		if it.ID != item.ID {
			newItems = append(newItems, it)
		}
	}
	o.Items = newItems

	o.calculateValue()
	o.AddEvent(NewOrderUpdatedEvent(o.ID, o.TotalValue))
	return nil
}

// ApplyVoucher 校验不通过时原样返回校验结果，订单不做任何修改
// 券不可用是预期内的业务结果，调用方根据结果分支，不依赖 error
func (o *Order) ApplyVoucher(voucher *Voucher) *ddd.ValidationResult {
	result := voucher.Validate()
	if !result.IsValid() {
		return result
	}

	o.Voucher = voucher
	o.VoucherUsed = true
	o.calculateValue()
	return result
}

// calculateValue 每次变更后全量重算，折扣不在应用时刻冻结，始终跟随最新总价
func (o *Order) calculateValue() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.CalculateValue())
	}

	if o.VoucherUsed && o.Voucher != nil {
		if o.Voucher.Type == VoucherTypeValue {
			o.DiscountValue = o.Voucher.DiscountValue
		} else {
			o.DiscountValue = total.Mul(o.Voucher.DiscountPercentage).Div(decimal.NewFromInt(100))
		}
		total = total.Sub(o.DiscountValue)
	}

	// 折扣可以超过订单总价，但订单余额永远不为负
	if total.IsNegative() {
		total = decimal.Zero
	}
	o.TotalValue = total
	o.Dirty()
}
