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
	"time"

	ddd "github.com/bytedance/salework"
)

type EventStatus int8

const (
	EventStatusToSend EventStatus = 1
	EventStatusSent   EventStatus = 2
	EventStatusFailed EventStatus = 3
)

// EventPO 事件存储模型，事件先落库再由扫描协程投递，保证 at least once
type EventPO struct {
	ID        int64            `gorm:"primaryKey;autoIncrement"`
	EventID   string           `gorm:"column:event_id;index"`
	Event     *ddd.DomainEvent `gorm:"serializer:json"`
	Status    EventStatus      `gorm:"index"`
	SentAt    *time.Time
	CreatedAt time.Time `gorm:"index"`
}

func (o *EventPO) TableName() string {
	return "salework_domain_event"
}

func (o *EventPO) GetID() string {
	return o.EventID
}
