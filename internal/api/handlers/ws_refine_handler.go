package handlers

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/querysmith/backend/internal/sqlgen"
	"github.com/querysmith/backend/pkg/logger"
)

// RefineStreamHandler streams per-item refinement results over a
// websocket so callers can render progress on large batches instead of
// waiting for the whole response.
type RefineStreamHandler struct {
	refiner RefineService
}

func NewRefineStreamHandler(refiner RefineService) *RefineStreamHandler {
	return &RefineStreamHandler{refiner: refiner}
}

type refineStreamFrame struct {
	Type      string                   `json:"type"`
	Index     int                      `json:"index,omitempty"`
	Result    *sqlgen.DateUpdateResult `json:"result,omitempty"`
	Total     int                      `json:"total,omitempty"`
	Succeeded int                      `json:"succeeded,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

// Stream reads one refineRequest from the socket, emits a "result"
// frame per item in input order, then a final "complete" frame.
func (h *RefineStreamHandler) Stream(c *websocket.Conn) {
	defer c.Close()

	var req refineRequest
	if err := c.ReadJSON(&req); err != nil {
		writeFrame(c, refineStreamFrame{Type: "error", Error: "Invalid JSON format"})
		return
	}

	if len(req.Queries) == 0 || req.MinDate == "" || req.MaxDate == "" {
		writeFrame(c, refineStreamFrame{Type: "error", Error: "queries, min_date and max_date are required"})
		return
	}

	ctx := context.Background()
	dialect := sqlgen.ParseDialect(req.DBType)

	succeeded := 0
	for i, item := range req.Queries {
		result := h.refiner.UpdateQueryDateRange(ctx, req.APIKey, item, req.MinDate, req.MaxDate, dialect)
		if result.Success {
			succeeded++
		}

		if !writeFrame(c, refineStreamFrame{Type: "result", Index: i, Result: &result}) {
			return
		}
	}

	writeFrame(c, refineStreamFrame{
		Type:      "complete",
		Total:     len(req.Queries),
		Succeeded: succeeded,
	})
}

func writeFrame(c *websocket.Conn, frame refineStreamFrame) bool {
	if err := c.WriteJSON(frame); err != nil {
		logger.Warn("Websocket write failed", zap.Error(err))
		return false
	}
	return true
}
