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
	"time"

	"github.com/shopspring/decimal"

	ddd "github.com/bytedance/salework"
	"github.com/bytedance/salework/sale/domain"
)

// 命令字段校验失败的原因文案
const (
	ClientIDErrorMsg   = "client id is invalid"
	ItemIDErrorMsg     = "item id is invalid"
	ItemNameErrorMsg   = "item name was not informed"
	ItemMaxQtyErrorMsg = "item max quantity is 15"
	ItemMinQtyErrorMsg = "item min quantity is 1"
	ItemValueErrorMsg  = "item value must be greater than 0"
)

const MessageTypeAddOrderItem = "AddOrderItemCommand"

// AddOrderItemCommand 自校验的请求对象，字段级规则全部执行完才返回结果
type AddOrderItemCommand struct {
	ClientID     string
	ItemID       string
	ItemName     string
	ItemQuantity int
	ItemValue    decimal.Decimal

	Timestamp time.Time
}

func NewAddOrderItemCommand(clientID, itemID, itemName string, quantity int, value decimal.Decimal) *AddOrderItemCommand {
	return &AddOrderItemCommand{
		ClientID:     clientID,
		ItemID:       itemID,
		ItemName:     itemName,
		ItemQuantity: quantity,
		ItemValue:    value,
		Timestamp:    time.Now(),
	}
}

func (c *AddOrderItemCommand) MessageType() string {
	return MessageTypeAddOrderItem
}

// Validate 收集全部违反的规则，调用方可以一次性上报所有问题
func (c *AddOrderItemCommand) Validate() *ddd.ValidationResult {
	result := &ddd.ValidationResult{}

	if c.ClientID == "" {
		result.AddError("ClientID", ClientIDErrorMsg)
	}
	if c.ItemID == "" {
		result.AddError("ItemID", ItemIDErrorMsg)
	}
	if c.ItemName == "" {
		result.AddError("ItemName", ItemNameErrorMsg)
	}
	if c.ItemQuantity <= 0 {
		result.AddError("ItemQuantity", ItemMinQtyErrorMsg)
	} else if c.ItemQuantity > domain.MaxItemQuantity {
		result.AddError("ItemQuantity", ItemMaxQtyErrorMsg)
	}
	if !c.ItemValue.IsPositive() {
		result.AddError("ItemValue", ItemValueErrorMsg)
	}

	return result
}
