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
	"errors"
	"fmt"
	"strings"
)

// ErrKind 领域错误分类，聚合用它标识被破坏的业务约束
type ErrKind string

// DomainError 聚合内业务约束被破坏时返回的错误，对当次操作是致命的，不会自动重试
type DomainError struct {
	Kind    ErrKind
	Message string
}

func NewDomainError(kind ErrKind, format string, args ...interface{}) *DomainError {
	return &DomainError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 判断 err 是否为指定分类的领域错误
func IsDomainError(err error, kind ErrKind) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

type ErrList []error

func (e ErrList) Error() string {
	errs := make([]string, 0)
	for _, err := range e {
		errs = append(errs, err.Error())
	}
	return strings.Join(errs, ", ")
}
