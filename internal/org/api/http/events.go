package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orgledger/orgledger/internal/org/domain/event"
)

type eventResponse struct {
	StreamID  string          `json:"stream_id"`
	Version   uint64          `json:"version"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

func toEventResponse(evt event.Event) eventResponse {
	return eventResponse{
		StreamID:  evt.StreamID,
		Version:   evt.Version,
		Type:      string(evt.Type),
		Timestamp: evt.Timestamp,
		Payload:   json.RawMessage(evt.PayloadJSON),
	}
}

// fetchEvents returns a stream's journal in version order. The optional
// max_version query caps the result, reconstructing the stream as of that
// version.
func (a *API) fetchEvents(c *gin.Context) {
	var maxVersion uint64
	if raw := c.Query("max_version"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_QUERY",
				"message": "max_version must be a non-negative integer",
			})
			return
		}
		maxVersion = parsed
	}

	events, err := a.events.FetchEvents(c.Request.Context(), c.Param("streamID"), maxVersion)
	if err != nil {
		a.writeError(c, err)
		return
	}
	out := make([]eventResponse, 0, len(events))
	for _, evt := range events {
		out = append(out, toEventResponse(evt))
	}
	c.JSON(http.StatusOK, out)
}
