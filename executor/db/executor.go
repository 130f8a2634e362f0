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
	"reflect"

	"gorm.io/gorm"

	ddd "github.com/bytedance/salework"
)

var ErrInvalidDB = fmt.Errorf("invalid db")
var ErrNoTransaction = fmt.Errorf("no transaction")

// 确保外面拿不到内部的 key
type contextKey string

const txKey contextKey = "salework_tx"

// Executor gorm 执行器，Begin 把事务句柄塞进 context，Exec 按 Action 操作类型执行
type Executor struct {
	db *gorm.DB
}

func NewExecutor(db *gorm.DB) *Executor {
	return &Executor{db: db}
}

func (e *Executor) Begin(ctx context.Context) (context.Context, error) {
	if e.db == nil {
		return ctx, ErrInvalidDB
	}
	tx := e.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return ctx, tx.Error
	}
	return context.WithValue(ctx, txKey, tx), nil
}

func (e *Executor) Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok {
		return ErrNoTransaction
	}
	return tx.Commit().Error
}

func (e *Executor) RollBack(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok {
		return ErrNoTransaction
	}
	return tx.Rollback().Error
}

// getDB 事务内返回事务句柄，事务外返回原始连接，查询允许在事务外执行
func (e *Executor) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return e.db.WithContext(ctx)
}

func (e *Executor) Exec(ctx context.Context, action *ddd.Action) error {
	db := e.getDB(ctx)

	switch action.Op {
	case ddd.OpInsert:
		if len(action.Models) == 0 {
			return ddd.ErrInvalidAction
		}
		// gorm 的批量插入需要具体类型的 slice，[]IModel 不能直接用
		poType := reflect.ValueOf(action.Models[0]).Type()
		pos := reflect.MakeSlice(reflect.SliceOf(poType), 0, len(action.Models))
		for _, m := range action.Models {
			pos = reflect.Append(pos, reflect.ValueOf(m))
		}
		return db.Create(pos.Interface()).Error
	case ddd.OpUpdate:
		for _, m := range action.Models {
			if err := db.Save(m).Error; err != nil {
				return err
			}
		}
		return nil
	case ddd.OpDelete:
		for _, m := range action.Models {
			if err := db.Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	case ddd.OpQuery:
		if action.Query == nil || action.QueryResult == nil {
			return ddd.ErrInvalidAction
		}
		return db.Where(action.Query).Find(action.QueryResult).Error
	}
	return ddd.ErrInvalidAction
}
