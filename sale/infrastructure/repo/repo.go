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

package repo

import (
	"context"
	"fmt"

	ddd "github.com/bytedance/salework"
	"github.com/bytedance/salework/sale/domain"
	"github.com/bytedance/salework/sale/infrastructure/po"
)

// OrderRepository 基于 Session 的订单仓储，写操作全部暂存，Commit 统一落库
type OrderRepository struct {
	session *ddd.Session
}

func NewOrderRepository(session *ddd.Session) *OrderRepository {
	return &OrderRepository{session: session}
}

func (r *OrderRepository) Add(order *domain.Order) error {
	r.session.Track(order)
	if err := r.session.StageInsert(orderToPO(order)); err != nil {
		return err
	}
	for _, item := range order.Items {
		if err := r.session.StageInsert(itemToPO(order.ID, item)); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepository) Update(order *domain.Order) error {
	r.session.Track(order)
	r.session.StageUpdate(orderToPO(order))
	return nil
}

func (r *OrderRepository) AddItem(item *domain.Item) error {
	order := item.Order()
	if order == nil {
		return fmt.Errorf("item %s does not belong to an order", item.ID)
	}
	return r.session.StageInsert(itemToPO(order.ID, item))
}

func (r *OrderRepository) UpdateItem(item *domain.Item) error {
	order := item.Order()
	if order == nil {
		return fmt.Errorf("item %s does not belong to an order", item.ID)
	}
	r.session.StageUpdate(itemToPO(order.ID, item))
	return nil
}

// GetDraftOrderByClientID 客户没有草稿订单时返回 (nil, nil)
// 查询结果可能已经过期，并发写入的冲突由持久层在 Commit 时暴露，这里不做加锁
func (r *OrderRepository) GetDraftOrderByClientID(ctx context.Context, clientID string) (*domain.Order, error) {
	orderPOs := make([]*po.OrderPO, 0)
	query := &po.OrderPO{ClientID: clientID, Status: int8(domain.OrderStatusDraft)}
	if err := r.session.Query(ctx, query, &orderPOs); err != nil {
		return nil, err
	}
	if len(orderPOs) == 0 {
		return nil, nil
	}

	orderPO := orderPOs[0]
	itemPOs := make([]*po.OrderItemPO, 0)
	if err := r.session.Query(ctx, &po.OrderItemPO{OrderID: orderPO.ID}, &itemPOs); err != nil {
		return nil, err
	}

	// 重建的聚合立即跟踪，后续变更即便只暂存行级写入，聚合上的事件也会在提交后发出
	order := orderFromPO(orderPO, itemPOs)
	r.session.Track(order)
	return order, nil
}

func (r *OrderRepository) Commit(ctx context.Context) (bool, error) {
	return r.session.Commit(ctx)
}

func orderToPO(order *domain.Order) *po.OrderPO {
	out := &po.OrderPO{
		ID:            order.ID,
		ClientID:      order.ClientID,
		TotalValue:    order.TotalValue,
		DiscountValue: order.DiscountValue,
		Status:        int8(order.Status),
		VoucherUsed:   order.VoucherUsed,
	}
	if order.Voucher != nil {
		out.VoucherCode = order.Voucher.Code
		out.VoucherType = int8(order.Voucher.Type)
		out.VoucherDiscountValue = order.Voucher.DiscountValue
		out.VoucherDiscountPercentage = order.Voucher.DiscountPercentage
	}
	return out
}

func itemToPO(orderID string, item *domain.Item) *po.OrderItemPO {
	return &po.OrderItemPO{
		ID:       item.ID,
		OrderID:  orderID,
		Name:     item.Name,
		Quantity: item.Quantity,
		Value:    item.Value,
	}
}

func orderFromPO(orderPO *po.OrderPO, itemPOs []*po.OrderItemPO) *domain.Order {
	order := &domain.Order{
		ID:            orderPO.ID,
		ClientID:      orderPO.ClientID,
		TotalValue:    orderPO.TotalValue,
		DiscountValue: orderPO.DiscountValue,
		Status:        domain.OrderStatus(orderPO.Status),
		VoucherUsed:   orderPO.VoucherUsed,
	}
	if orderPO.VoucherUsed {
		order.Voucher = &domain.Voucher{
			Code:               orderPO.VoucherCode,
			Type:               domain.VoucherType(orderPO.VoucherType),
			DiscountValue:      orderPO.VoucherDiscountValue,
			DiscountPercentage: orderPO.VoucherDiscountPercentage,
		}
	}
	for _, itemPO := range itemPOs {
		order.Items = append(order.Items, domain.RestoreItem(order, itemPO.ID, itemPO.Name, itemPO.Quantity, itemPO.Value))
	}
	return order
}
