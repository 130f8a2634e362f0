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

import "context"

const EventTypeNotification EventType = "domain_notification"

// NotificationEvent 业务通知，校验失败等预期内的业务结果以通知形式对外广播，
// 与领域事件共用同一条 EventBus 通道
type NotificationEvent struct {
	MessageType string
	Message     string
	Sender      string
}

func NewNotificationEvent(sender, messageType, message string) *NotificationEvent {
	return &NotificationEvent{
		MessageType: messageType,
		Message:     message,
		Sender:      sender,
	}
}

func (e NotificationEvent) GetType() EventType {
	return EventTypeNotification
}

func (e NotificationEvent) GetSender() string {
	return e.Sender
}

// Notify 立即发送一条业务通知，通知不经过事务暂存
func Notify(ctx context.Context, bus IEventBus, sender, messageType, message string) error {
	if bus == nil {
		return ErrNoEventBusFound
	}
	return bus.Dispatch(ctx, NewDomainEvent(NewNotificationEvent(sender, messageType, message)))
}
