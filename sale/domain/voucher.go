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
	"time"

	"github.com/shopspring/decimal"

	ddd "github.com/bytedance/salework"
)

type VoucherType int8

const (
	VoucherTypeValue      VoucherType = 0 // 固定金额折扣
	VoucherTypePercentage VoucherType = 1 // 百分比折扣
)

// 券校验失败的原因文案
const (
	VoucherCodeErrorMsg               = "voucher code must be valid"
	VoucherValidUntilErrorMsg         = "this voucher is expired"
	VoucherActiveErrorMsg             = "invalid voucher"
	VoucherUsedErrorMsg               = "used voucher"
	VoucherQuantityErrorMsg           = "not available voucher"
	VoucherDiscountValueErrorMsg      = "discount value must be greater than 0"
	VoucherDiscountPercentageErrorMsg = "discount percentage must be greater than 0"
)

// Voucher 折扣券快照，构造后不可变，状态变化（比如已使用）由新快照表达
// 券的库存扣减是外部职责，这里不建模
type Voucher struct {
	Code               string
	DiscountValue      decimal.Decimal // Type 为 Value 时生效
	DiscountPercentage decimal.Decimal // Type 为 Percentage 时生效
	Quantity           int
	ValidUntil         time.Time
	Active             bool
	Used               bool
	Type               VoucherType
}

// Validate 执行全部规则并返回所有失败原因，不在第一条失败处短路
// 纯函数，不标记券为已使用
func (v *Voucher) Validate() *ddd.ValidationResult {
	result := &ddd.ValidationResult{}

	if v.Code == "" {
		result.AddError("Code", VoucherCodeErrorMsg)
	}
	if v.ValidUntil.Before(time.Now()) {
		result.AddError("ValidUntil", VoucherValidUntilErrorMsg)
	}
	if !v.Active {
		result.AddError("Active", VoucherActiveErrorMsg)
	}
	if v.Used {
		result.AddError("Used", VoucherUsedErrorMsg)
	}
	if v.Quantity <= 0 {
		result.AddError("Quantity", VoucherQuantityErrorMsg)
	}
	switch v.Type {
	case VoucherTypeValue:
		if !v.DiscountValue.IsPositive() {
			result.AddError("DiscountValue", VoucherDiscountValueErrorMsg)
		}
	case VoucherTypePercentage:
		if !v.DiscountPercentage.IsPositive() {
			result.AddError("DiscountPercentage", VoucherDiscountPercentageErrorMsg)
		}
	}

	return result
}
