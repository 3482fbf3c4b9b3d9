package domain

import "time"

// ModelType classifies an aquifer model configuration.
const (
	ModelTypeAquifer      = "aquifer"
	ModelTypeWell         = "well"
	ModelTypeOptimization = "optimization"
)

// Model stores an aquifer-test model configuration. Configuration holds the
// full solver setup as submitted by the console (layer geometry, hydraulic
// conductivity profile, solver options) and is treated as an opaque document.
type Model struct {
	ID            string         `json:"id" bson:"_id,omitempty"`
	Name          string         `json:"name" bson:"name"`
	Description   string         `json:"description,omitempty" bson:"description,omitempty"`
	ModelType     string         `json:"model_type" bson:"model_type"`
	Configuration map[string]any `json:"configuration,omitempty" bson:"configuration,omitempty"`
	Status        string         `json:"status" bson:"status"`
	UserID        string         `json:"user_id" bson:"user_id"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" bson:"updated_at"`
}
