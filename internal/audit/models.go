package audit

import (
	"time"

	"sevsizer/pkg/domain"
)

// Category classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type Category string

const (
	// CategoryCompliance covers events that change or create customer-facing
	// outcomes. These require long retention: a recorded recommendation may
	// need to be explained months later.
	CategoryCompliance Category = "compliance"

	// CategorySecurity covers destructive admin operations on chart data.
	CategorySecurity Category = "security"

	// CategoryOperations covers routine activity useful for debugging.
	// These can be sampled or aggregated with shorter retention.
	CategoryOperations Category = "operations"
)

// Action names every mutating operation the service performs.
type Action string

const (
	// Chart administration
	ActionRuleCreated        Action = "rule_created"
	ActionRuleUpdated        Action = "rule_updated"
	ActionRuleDeleted        Action = "rule_deleted"
	ActionConfigUpdated      Action = "config_updated"
	ActionCatalogSizeCreated Action = "catalog_size_created"
	ActionCatalogSizeDeleted Action = "catalog_size_deleted"
	ActionSetCreated         Action = "set_created"
	ActionSetDeleted         Action = "set_deleted"

	// Measurements
	ActionMeasurementIngested Action = "measurement_ingested"
	ActionMeasurementsMerged  Action = "measurements_merged"

	// Recommendations
	ActionRecommendationRecorded Action = "recommendation_recorded"
)

// actionCategories maps each action to its category.
// Compliance: feeds a customer-facing outcome, long retention.
// Security: destroys chart data an operator may need to account for.
// Operations: routine activity.
var actionCategories = map[Action]Category{
	ActionRecommendationRecorded: CategoryCompliance,
	ActionMeasurementsMerged:     CategoryCompliance,

	ActionRuleDeleted:        CategorySecurity,
	ActionCatalogSizeDeleted: CategorySecurity,
	ActionSetDeleted:         CategorySecurity,

	ActionRuleCreated:         CategoryOperations,
	ActionRuleUpdated:         CategoryOperations,
	ActionConfigUpdated:       CategoryOperations,
	ActionCatalogSizeCreated:  CategoryOperations,
	ActionSetCreated:          CategoryOperations,
	ActionMeasurementIngested: CategoryOperations,
}

// Category returns the category for this action.
// Unknown actions default to CategoryOperations.
func (a Action) Category() Category {
	if cat, ok := actionCategories[a]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out. ID fields are set
// when the action touches the corresponding entity.
type Event struct {
	Category         Category
	Timestamp        time.Time
	Action           Action
	Subject          string
	ChartID          domain.ChartID
	MeasurementID    domain.MeasurementID
	RecommendationID domain.RecommendationID
	RequestID        string
	Detail           string
}
