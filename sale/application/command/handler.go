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

	"github.com/go-logr/logr"

	ddd "github.com/bytedance/salework"
	"github.com/bytedance/salework/logger/stdr"
	"github.com/bytedance/salework/sale/domain"
)

// OrderCommandHandler 编排命令处理：校验命令 → 取或建聚合 → 聚合变更 → 仓储暂存 → 提交
// 校验失败逐条发通知且不触达仓储，聚合约束被破坏对本次调用是致命的，不会有半提交状态
type OrderCommandHandler struct {
	repo     domain.IOrderRepository
	eventBus ddd.IEventBus
	locker   ddd.ILock
	logger   logr.Logger
}

type HandlerOption func(h *OrderCommandHandler)

// WithClientLock 以客户维度对命令处理加锁，同一客户的草稿订单写入被串行化
func WithClientLock(locker ddd.ILock) HandlerOption {
	return func(h *OrderCommandHandler) {
		h.locker = locker
	}
}

func WithLogger(logger logr.Logger) HandlerOption {
	return func(h *OrderCommandHandler) {
		h.logger = logger
	}
}

func NewOrderCommandHandler(repo domain.IOrderRepository, eventBus ddd.IEventBus, opts ...HandlerOption) *OrderCommandHandler {
	h := &OrderCommandHandler{
		repo:     repo,
		eventBus: eventBus,
		logger:   stdr.NewStdr("order_command_handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle 处理加购命令，返回值语义与 IUnitOfWork.Commit 一致
func (h *OrderCommandHandler) Handle(ctx context.Context, cmd *AddOrderItemCommand) (bool, error) {
	if result := cmd.Validate(); !result.IsValid() {
		h.notifyValidationErrors(ctx, cmd, result)
		return false, nil
	}

	if h.locker != nil {
		keyLock, err := h.locker.Lock(ctx, "sale_client_"+cmd.ClientID)
		if err != nil {
			return false, err
		}
		defer func() {
			if err := h.locker.UnLock(ctx, keyLock); err != nil {
				h.logger.Error(err, "unlock failed", "client", cmd.ClientID)
			}
		}()
	}

	item, err := domain.NewItem(cmd.ItemID, cmd.ItemName, cmd.ItemQuantity, cmd.ItemValue)
	if err != nil {
		return false, err
	}

	order, err := h.repo.GetDraftOrderByClientID(ctx, cmd.ClientID)
	if err != nil {
		return false, err
	}

	if order == nil {
		order = domain.NewDraftOrder(cmd.ClientID)
		if err := order.AddItem(item); err != nil {
			return false, err
		}
		if err := h.repo.Add(order); err != nil {
			return false, err
		}
	} else {
		merged := order.ItemExists(item.ID)
		if err := order.AddItem(item); err != nil {
			return false, err
		}
		if merged {
			if err := h.repo.UpdateItem(order.Item(item.ID)); err != nil {
				return false, err
			}
		} else {
			if err := h.repo.AddItem(item); err != nil {
				return false, err
			}
		}
		if err := h.repo.Update(order); err != nil {
			return false, err
		}
	}

	return h.repo.Commit(ctx)
}

func (h *OrderCommandHandler) notifyValidationErrors(ctx context.Context, cmd *AddOrderItemCommand, result *ddd.ValidationResult) {
	for _, e := range result.Errors {
		if err := ddd.Notify(ctx, h.eventBus, cmd.ClientID, cmd.MessageType(), e.Message); err != nil {
			h.logger.Error(err, "notify failed", "message", e.Message)
		}
	}
}
