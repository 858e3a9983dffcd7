package model

import "time"

type Subscription struct {
	Id           string    `db:"id"`
	SubscriberId string    `db:"subscriber_id"`
	ChannelId    string    `db:"channel_id"`
	CreatedAt    time.Time `db:"created_at"`
}

// ChannelProfile — профиль канала глазами запрашивающего пользователя
// swagger:model
type ChannelProfile struct {
	PublicUser
	SubscriberCount   int64 `json:"subscriberCount"`
	SubscribedToCount int64 `json:"subscribedToCount"`
	IsSubscribed      bool  `json:"isSubscribed"`
}
