package models

// FeatureTag is one entry of the fixed feature vocabulary the analyzer
// recognizes in a project description.
type FeatureTag string

const (
	FeatureAuthentication FeatureTag = "authentication"
	FeatureDatabase       FeatureTag = "database"
	FeatureAPI            FeatureTag = "api"
	FeatureFrontend       FeatureTag = "frontend"
	FeatureSecurity       FeatureTag = "security"
	FeatureDeployment     FeatureTag = "deployment"
	FeatureTesting        FeatureTag = "testing"
	FeatureMonitoring     FeatureTag = "monitoring"
)

// AllFeatureTags lists the vocabulary in its canonical order. The analyzer
// emits detected features in this order, which keeps analysis deterministic.
var AllFeatureTags = []FeatureTag{
	FeatureAuthentication,
	FeatureDatabase,
	FeatureAPI,
	FeatureFrontend,
	FeatureSecurity,
	FeatureDeployment,
	FeatureTesting,
	FeatureMonitoring,
}

// Urgency classifies the timeline pressure detected in a request.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// Complexity classifies the scale of the requested project.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// ProjectAnalysis is the structured result of analyzing one free-text
// project request. It is created once per request, never mutated, and
// consumed by the decomposer.
type ProjectAnalysis struct {
	// Goals are the sentences recognized as imperative or need statements,
	// in the order they appear in the request.
	Goals []string `json:"goals"`
	// Features are the detected feature tags, in vocabulary order.
	Features []FeatureTag `json:"features"`
	// Urgency is the detected timeline pressure.
	Urgency Urgency `json:"urgency"`
	// Complexity is the detected project scale.
	Complexity Complexity `json:"complexity"`
	// OriginalText is the request the analysis was derived from.
	OriginalText string `json:"original_text"`
}

// HasFeature reports whether the analysis detected the given feature.
func (p *ProjectAnalysis) HasFeature(tag FeatureTag) bool {
	for _, f := range p.Features {
		if f == tag {
			return true
		}
	}
	return false
}
