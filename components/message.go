package components

import "github.com/yohamta/donburi"

// FeedLine is one notification on screen
type FeedLine struct {
	Text       string
	Tick       int64
	FramesLeft int
}

// NotificationFeedData is a singleton listing recently shown notifications,
// newest last
type NotificationFeedData struct {
	Lines []FeedLine
}

var NotificationFeed = donburi.NewComponentType[NotificationFeedData]()
