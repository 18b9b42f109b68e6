// Package ingest implements the /track endpoint: it composes the payload
// codec, client-address resolver, UA classifier, geolocation client, and
// referrer normalizer into a single enriched event and hands it to the
// batching queue without blocking the response.
package ingest

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/trailbeacon/core/internal/clientaddr"
	"github.com/trailbeacon/core/internal/geo"
	"github.com/trailbeacon/core/internal/goals"
	"github.com/trailbeacon/core/internal/logging"
	"github.com/trailbeacon/core/internal/payload"
	"github.com/trailbeacon/core/internal/queue"
	"github.com/trailbeacon/core/internal/referrer"
	"github.com/trailbeacon/core/internal/store"
	"github.com/trailbeacon/core/internal/useragent"
)

// fiberHeader adapts fiber.Ctx's header accessor to clientaddr.Header.
type fiberHeader struct {
	c fiber.Ctx
}

func (h fiberHeader) Get(key string) string {
	return h.c.Get(key)
}

// Handler owns everything the /track endpoint needs downstream of the
// HTTP layer itself.
type Handler struct {
	Queue      *queue.Queue
	GeoClient  *geo.Client
	Goals      *goals.Cache
	IPOverride string
	GeoTimeout time.Duration
}

// Track is the GET /track handler. It always answers 200 OK with an empty
// body; every internal failure is logged, never surfaced to the caller.
func (h *Handler) Track(c fiber.Ctx) error {
	data := c.Query("data")
	if data == "" {
		return c.SendStatus(fiber.StatusOK)
	}

	env, err := payload.Decode(data)
	if err != nil {
		logging.L().Warn("ingest: decode failed", zap.Error(err))
		return c.SendStatus(fiber.StatusOK)
	}

	classification := useragent.Classify(env.Tracking.UA)

	ip, err := clientaddr.Resolve(fiberHeader{c}, c.RequestCtx().RemoteAddr().String(), h.IPOverride)
	if err != nil {
		logging.L().Warn("ingest: client address unresolvable", zap.Error(err))
		return c.SendStatus(fiber.StatusOK)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.GeoTimeout)
	loc := h.GeoClient.Lookup(ctx, ip)
	cancel()

	referrerHost := referrer.Host(env.Tracking.Referrer)

	goalID := ""
	if h.Goals != nil {
		pagePath, eventName := "", ""
		if env.Tracking.IsPageView() {
			pagePath = env.Tracking.Event
		} else {
			eventName = env.Tracking.Event
		}
		goalID = h.Goals.Match(context.Background(), env.SiteID, pagePath, eventName)
	}

	ev := store.Event{
		SiteID:         env.SiteID,
		OccuredAt:      dayBucket(time.Now().UTC()),
		EventName:      env.Tracking.Event,
		Category:       env.Tracking.Category,
		Referrer:       env.Tracking.Referrer,
		ReferrerDomain: referrerHost,
		UserID:         env.Tracking.Identity,
		IsTouch:        env.Tracking.IsTouch,
		BrowserName:    classification.Browser,
		OSName:         classification.OS,
		DeviceType:     classification.Device,
		Country:        loc.Country,
		Region:         loc.Region,
		GoalID:         goalID,
	}

	h.Queue.Enqueue(context.Background(), ev)

	return c.SendStatus(fiber.StatusOK)
}

// dayBucket encodes t as a uint32 YYYYMMDD literal in UTC.
func dayBucket(t time.Time) uint32 {
	return uint32(t.Year())*10000 + uint32(t.Month())*100 + uint32(t.Day())
}
