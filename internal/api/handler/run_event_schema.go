package handler

import "time"

type resultSummaryRequest struct {
	RadiusOfInfluenceMeters float64 `json:"radius_of_influence_meters"`
	TotalWellsAnalyzed      int     `json:"total_wells_analyzed"`
	PumpingLengthSeconds    float64 `json:"pumping_length_seconds"`
	TotalTimeSteps          int     `json:"total_simulation_time_steps"`
}

type runEventRequest struct {
	SimulationID string                `json:"simulation_id" validate:"required"`
	Status       string                `json:"status"        validate:"required,oneof=running completed failed cancelled"`
	Timestamp    time.Time             `json:"timestamp"     validate:"required"`
	Source       string                `json:"source"        validate:"required"`
	Notes        string                `json:"notes"`
	Results      *resultSummaryRequest `json:"results"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}
