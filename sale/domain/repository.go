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

import "context"

// IUnitOfWork 工作单元，Commit 为单次本地事务的全有或全无提交
// 返回值为 true 当且仅当至少一条变更持久化成功
type IUnitOfWork interface {
	Commit(ctx context.Context) (bool, error)
}

// IOrderRepository 订单仓储，写操作只做内存暂存，Commit 之前不落库
type IOrderRepository interface {
	IUnitOfWork

	Add(order *Order) error
	Update(order *Order) error
	AddItem(item *Item) error
	UpdateItem(item *Item) error
	// GetDraftOrderByClientID 查询客户当前的草稿订单，不存在时返回 (nil, nil)
	GetDraftOrderByClientID(ctx context.Context, clientID string) (*Order, error)
}
