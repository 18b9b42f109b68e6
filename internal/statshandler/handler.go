// Package statshandler exposes the aggregate reader over HTTP: decode
// request, run the query, marshal rows.
package statshandler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/trailbeacon/core/internal/logging"
	"github.com/trailbeacon/core/internal/stats"
	"go.uber.org/zap"
)

// Handler serves POST /stats/.
type Handler struct {
	Reader *stats.Reader
}

type request struct {
	SiteID string `json:"site_id"`
	Start  uint32 `json:"start"`
	End    uint32 `json:"end"`
	What   string `json:"what"`
}

type point struct {
	OccuredAt uint32 `json:"occured_at"`
	Value     string `json:"value"`
	Count     uint64 `json:"count"`
}

var errMissingSiteID = errors.New("statshandler: site_id is required")

// Query handles POST /stats/: decode the body, run the aggregate query,
// respond with the bucketed rows as JSON.
func (h *Handler) Query(c fiber.Ctx) error {
	var req request
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}

	if req.SiteID == "" {
		return c.Status(fiber.StatusBadRequest).SendString(errMissingSiteID.Error())
	}

	rows, err := h.Reader.Run(c.Context(), stats.Query{
		SiteID: req.SiteID,
		From:   req.Start,
		To:     req.End,
		What:   req.What,
	})
	if err != nil {
		logging.L().Error("statshandler: query failed", zap.String("site_id", req.SiteID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}

	out := make([]point, 0, len(rows))
	for _, r := range rows {
		out = append(out, point{OccuredAt: r.OccuredAt, Value: r.Value, Count: r.Count})
	}

	return c.Status(fiber.StatusOK).JSON(out)
}
