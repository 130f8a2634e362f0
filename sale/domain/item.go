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

// Item 订单行，标识不可变，除数量叠加外不允许修改
type Item struct {
	ddd.BaseEntity

	ID       string
	Name     string          // 商品名
	Quantity int             // 数量
	Value    decimal.Decimal // 单价

	order *Order
}

// NewItem 数量低于下限直接构造失败，不延迟到后续校验
func NewItem(id, name string, quantity int, value decimal.Decimal) (*Item, error) {
	if quantity < MinItemQuantity {
		return nil, ddd.NewDomainError(ErrKindInvalidQuantity,
			"item min quantity allowed: %d. quantity received: %d", MinItemQuantity, quantity)
	}
	return &Item{
		ID:       id,
		Name:     name,
		Quantity: quantity,
		Value:    value,
	}, nil
}

// RestoreItem 从持久化数据重建订单行，数据在写入时已通过校验
func RestoreItem(order *Order, id, name string, quantity int, value decimal.Decimal) *Item {
	return &Item{
		ID:       id,
		Name:     name,
		Quantity: quantity,
		Value:    value,
		order:    order,
	}
}

func (i *Item) SetID(id string) {
	i.ID = id
}

func (i *Item) GetID() string {
	return i.ID
}

// Order 返回行所属的订单，行被加入订单前为 nil
func (i *Item) Order() *Order {
	return i.order
}

// IncreaseQuantity 叠加数量，上限校验由 Order 负责：上限取决于同行合并后的总量
func (i *Item) IncreaseQuantity(quantity int) {
	i.Quantity += quantity
	i.Dirty()
}

// CalculateValue 行金额 = 数量 x 单价
func (i *Item) CalculateValue() decimal.Decimal {
	return i.Value.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
