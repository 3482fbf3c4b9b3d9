package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aquiferlab/aquifer-console/internal/core/ports"
)

// RunEventDispatcher is the interface the handler uses to enqueue worker events.
type RunEventDispatcher interface {
	Enqueue(event ports.RunEventInput)
	EnqueueBatch(events []ports.RunEventInput)
}

// RunEventHandler ingests simulation status events from the external worker.
type RunEventHandler struct {
	dispatcher RunEventDispatcher
}

// NewRunEventHandler creates a RunEventHandler backed by the given dispatcher.
func NewRunEventHandler(dispatcher RunEventDispatcher) *RunEventHandler {
	return &RunEventHandler{dispatcher: dispatcher}
}

// Receive handles POST /v1/simulations/events — enqueues one event, returns 202.
//
// @Summary      Ingest a single simulation status event
// @Tags         simulations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      runEventRequest  true  "Run event"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/simulations/events [post]
func (h *RunEventHandler) Receive(c echo.Context) error {
	var req runEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	h.dispatcher.Enqueue(toRunEventInput(req))
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "event accepted"})
}

// ReceiveBatch handles POST /v1/simulations/events/batch.
//
// @Summary      Ingest a batch of simulation status events
// @Tags         simulations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []runEventRequest  true  "Array of run events"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/simulations/events/batch [post]
func (h *RunEventHandler) ReceiveBatch(c echo.Context) error {
	var reqs []runEventRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}

	inputs := make([]ports.RunEventInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("event[%d]: %s", i, err.Error()))
		}
		inputs = append(inputs, toRunEventInput(req))
	}

	h.dispatcher.EnqueueBatch(inputs)
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "events accepted",
		Count:   len(inputs),
	})
}

// toRunEventInput maps the HTTP request to the service DTO.
func toRunEventInput(r runEventRequest) ports.RunEventInput {
	in := ports.RunEventInput{
		SimulationID: r.SimulationID,
		Status:       r.Status,
		Timestamp:    r.Timestamp,
		Source:       r.Source,
		Notes:        r.Notes,
	}
	if r.Results != nil {
		in.Results = &ports.ResultSummaryInput{
			RadiusOfInfluenceMeters: r.Results.RadiusOfInfluenceMeters,
			TotalWellsAnalyzed:      r.Results.TotalWellsAnalyzed,
			PumpingLengthSeconds:    r.Results.PumpingLengthSeconds,
			TotalTimeSteps:          r.Results.TotalTimeSteps,
		}
	}
	return in
}
