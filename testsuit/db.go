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

package testsuit

import (
	"fmt"
	"os"

	"github.com/rs/xid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitSQLite 内存库，每次调用建独立实例互相隔离，用于仓储和事件表的集成测试
func InitSQLite(models ...interface{}) *gorm.DB {
	// 带名字的共享内存库，同一个连接池内的连接看到同一份数据
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", xid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			panic(err)
		}
	}
	return db
}

// InitMysql 启动测试数据库
// 前提: 在根目录执行 docker-compose up 命令
func InitMysql() *gorm.DB {
	dsn := "root:@tcp(mysql:3306)/salework?parseTime=true&loc=Local"
	if os.Getenv("LOCAL_TEST") == "true" {
		dsn = "root:@tcp(localhost:3308)/salework?parseTime=true&loc=Local"
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	return db.Debug()
}

func InitMysqlWithDatabase(db *gorm.DB, database string) *gorm.DB {
	err := db.Exec("CREATE DATABASE IF NOT EXISTS " + database + ";").Error // ignore_security_alert
	if err != nil {
		panic(err)
	}
	dsn := fmt.Sprintf("root:@tcp(mysql:3306)/%s?parseTime=true&loc=Local", database)
	if os.Getenv("LOCAL_TEST") == "true" {
		dsn = fmt.Sprintf("root:@tcp(localhost:3308)/%s?parseTime=true&loc=Local", database)
	}
	ndb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	return ndb.Debug()
}
