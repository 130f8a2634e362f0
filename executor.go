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

package salework

import (
	"context"
	"fmt"
)

type OpType int8

const (
	OpUnknown OpType = 0
	OpInsert  OpType = 1
	OpUpdate  OpType = 2
	OpDelete  OpType = 3
	OpQuery   OpType = 4
)

var ErrInvalidAction = fmt.Errorf("invalid action")

type IModel interface {
	GetID() string
}

type Action struct {
	Op OpType

	Models      []IModel    // 当前待操作模型，Session 确保一个 Action 下都是同类的模型
	Query       IModel      // 指定查询字段的数据模型
	QueryResult interface{} // Model 的 slice 的指针，形如 *[]ExampleModel
}

type ITransaction interface {
	// Begin 开启事务，返回带有事务标识的 context，该 context 会原样传递给 Commit 或者 RollBack 方法
	Begin(ctx context.Context) (context.Context, error)
	// Commit 提交事务
	Commit(ctx context.Context) error
	// RollBack 回滚事务
	RollBack(ctx context.Context) error
}

// IExecutor 持久化执行器，仓储层把实体映射为 IModel 后以 Action 形式提交执行
type IExecutor interface {
	ITransaction

	Exec(ctx context.Context, action *Action) error
}
