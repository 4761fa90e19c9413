package systems

import (
	"image/color"

	"github.com/automoto/emberwatch/components"
	cfg "github.com/automoto/emberwatch/config"
	"github.com/automoto/emberwatch/fonts"
	"github.com/automoto/emberwatch/netsync"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

// PushNotification appends a first-seen notification to the feed, dropping
// the oldest line once the feed is full.
func PushNotification(feed *components.NotificationFeedData, n netsync.Notification) {
	feed.Lines = append(feed.Lines, components.FeedLine{
		Text:       n.Content,
		Tick:       n.Tick,
		FramesLeft: cfg.HUD.NotificationFrames,
	})
	if over := len(feed.Lines) - cfg.HUD.NotificationLines; over > 0 {
		feed.Lines = feed.Lines[over:]
	}
}

// UpdateNotificationFeed counts feed lines down and drops expired ones
func UpdateNotificationFeed(e *ecs.ECS) {
	feed := getOrCreateFeed(e)
	kept := feed.Lines[:0]
	for _, l := range feed.Lines {
		l.FramesLeft--
		if l.FramesLeft > 0 {
			kept = append(kept, l)
		}
	}
	feed.Lines = kept
}

// DrawNotificationFeed renders the feed in the bottom-left corner, newest at
// the bottom. Lines fade during their last second.
func DrawNotificationFeed(e *ecs.ECS, screen *ebiten.Image) {
	feed := getOrCreateFeed(e)
	if len(feed.Lines) == 0 {
		return
	}

	face := fonts.HUD.Get()
	lineHeight := face.Metrics().Height.Ceil() + 2
	x := hudMargin
	y := screen.Bounds().Dy() - hudMargin - lineHeight*len(feed.Lines)

	vector.FillRect(screen,
		float32(x-4), float32(y-4),
		float32(screen.Bounds().Dx()/2), float32(lineHeight*len(feed.Lines)+8),
		cfg.HUD.FeedBackground, false)

	for i, l := range feed.Lines {
		var c color.Color = cfg.HUD.NotificationColor
		if l.FramesLeft < 60 {
			c = fade(cfg.HUD.NotificationColor, float64(l.FramesLeft)/60)
		}
		text.Draw(screen, l.Text, face, x, y+lineHeight*(i+1)-4, c) //nolint:staticcheck // TODO: migrate to text/v2
	}
}

func getOrCreateFeed(e *ecs.ECS) *components.NotificationFeedData {
	entry, ok := components.NotificationFeed.First(e.World)
	if !ok {
		entry = e.World.Entry(e.World.Create(components.NotificationFeed))
	}
	return components.NotificationFeed.Get(entry)
}
