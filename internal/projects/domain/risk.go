package domain

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type RiskStatus string

const (
	RiskIdentified RiskStatus = "identified"
	RiskMitigated  RiskStatus = "mitigated"
	RiskOccurred   RiskStatus = "occurred"
)

type Risk struct {
	PublicID       string     `json:"public_id"`
	ProjectID      string     `json:"project_id"`
	Description    string     `json:"description"`
	Probability    RiskLevel  `json:"probability"`
	Impact         RiskLevel  `json:"impact"`
	Status         RiskStatus `json:"status"`
	MitigationPlan string     `json:"mitigation_plan,omitempty"`
	IdentifiedBy   string     `json:"identified_by,omitempty"`
}
