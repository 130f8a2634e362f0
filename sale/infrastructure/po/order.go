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

package po

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderPO struct {
	ID            string          `gorm:"primaryKey"`
	ClientID      string          `gorm:"index"`
	TotalValue    decimal.Decimal `gorm:"type:decimal(20,2)"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(20,2)"`
	Status        int8            `gorm:"index"`
	VoucherUsed   bool

	// 券快照冗余在订单上，重建聚合时用于折扣重算，券本身的生命周期不归订单管
	VoucherCode               string
	VoucherType               int8
	VoucherDiscountValue      decimal.Decimal `gorm:"type:decimal(20,2)"`
	VoucherDiscountPercentage decimal.Decimal `gorm:"type:decimal(20,2)"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`
}

func (o *OrderPO) GetID() string {
	return o.ID
}

func (o *OrderPO) SetID(id string) {
	o.ID = id
}

func (o *OrderPO) TableName() string {
	return "sale_order"
}

// OrderItemPO 行主键为 (商品ID, 订单ID)，同一商品可以出现在不同订单中
type OrderItemPO struct {
	ID       string          `gorm:"primaryKey"`
	OrderID  string          `gorm:"primaryKey;index"`
	Name     string
	Quantity int
	Value    decimal.Decimal `gorm:"type:decimal(20,2)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o *OrderItemPO) GetID() string {
	return o.ID
}

func (o *OrderItemPO) SetID(id string) {
	o.ID = id
}

func (o *OrderItemPO) TableName() string {
	return "sale_order_item"
}
