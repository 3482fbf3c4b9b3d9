package domain

import "time"

// SimulationStatus represents the lifecycle state of a simulation run.
type SimulationStatus string

const (
	SimulationPending   SimulationStatus = "pending"
	SimulationRunning   SimulationStatus = "running"
	SimulationCompleted SimulationStatus = "completed"
	SimulationFailed    SimulationStatus = "failed"
	SimulationCancelled SimulationStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions. Status
// updates come from the external simulation worker and must never move a
// finished run back to an earlier state.
var validTransitions = map[SimulationStatus][]SimulationStatus{
	SimulationPending: {SimulationRunning, SimulationCancelled},
	SimulationRunning: {SimulationCompleted, SimulationFailed, SimulationCancelled},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s SimulationStatus) CanTransitionTo(next SimulationStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ResultSummary carries the headline numbers the worker reports on completion.
type ResultSummary struct {
	RadiusOfInfluenceMeters float64 `json:"radius_of_influence_meters" bson:"radius_of_influence_meters"`
	TotalWellsAnalyzed      int     `json:"total_wells_analyzed" bson:"total_wells_analyzed"`
	PumpingLengthSeconds    float64 `json:"pumping_length_seconds" bson:"pumping_length_seconds"`
	TotalTimeSteps          int     `json:"total_simulation_time_steps" bson:"total_simulation_time_steps"`
}

// StatusHistoryEntry records a single status transition on a simulation.
type StatusHistoryEntry struct {
	Status    SimulationStatus `json:"status" bson:"status"`
	Timestamp time.Time        `json:"timestamp" bson:"timestamp"`
	Notes     string           `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Simulation is a single run of an aquifer model.
type Simulation struct {
	ID             string               `json:"id" bson:"_id,omitempty"`
	Name           string               `json:"name" bson:"name"`
	Description    string               `json:"description,omitempty" bson:"description,omitempty"`
	SimulationType string               `json:"simulation_type" bson:"simulation_type"`
	ModelID        string               `json:"model_id" bson:"model_id"`
	UserID         string               `json:"user_id" bson:"user_id"`
	Status         SimulationStatus     `json:"status" bson:"status"`
	Results        *ResultSummary       `json:"results,omitempty" bson:"results,omitempty"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updated_at"`
	CompletedAt    *time.Time           `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	StatusHistory  []StatusHistoryEntry `json:"status_history" bson:"status_history"`
}

// RunEvent represents a status update received from the simulation worker.
type RunEvent struct {
	SimulationID string
	Status       SimulationStatus
	Timestamp    time.Time
	Source       string
	Notes        string
	Results      *ResultSummary // only on completion
}
