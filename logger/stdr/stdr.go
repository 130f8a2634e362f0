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

package stdr

import (
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// NewStdr 标准输出 logger，name 会作为日志前缀
func NewStdr(name string) logr.Logger {
	return stdr.New(log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)).WithName(name)
}

// SetVerbosity 设置全局日志级别
func SetVerbosity(v int) {
	stdr.SetVerbosity(v)
}
