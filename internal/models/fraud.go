package models

// RiskLevel is the categorical reduction of a fraud risk score
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// FraudFlag is a single signal raised during fraud analysis
type FraudFlag struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// FraudAnalysisResult accumulates independent fraud signals for one
// proposed transaction. It is transient and never persisted; the score
// and level are advisory only.
type FraudAnalysisResult struct {
	RiskScore int         `json:"riskScore"`
	RiskLevel RiskLevel   `json:"riskLevel"`
	Flags     []FraudFlag `json:"flags"`
}

func (r *FraudAnalysisResult) AddFlag(code, description string) {
	r.Flags = append(r.Flags, FraudFlag{Code: code, Description: description})
}

func (r *FraudAnalysisResult) IncreaseRiskScore(points int) {
	r.RiskScore += points
}

// DetermineRiskLevel reduces the cumulative score to a level
func (r *FraudAnalysisResult) DetermineRiskLevel() {
	switch {
	case r.RiskScore >= 80:
		r.RiskLevel = RiskCritical
	case r.RiskScore >= 60:
		r.RiskLevel = RiskHigh
	case r.RiskScore >= 40:
		r.RiskLevel = RiskMedium
	default:
		r.RiskLevel = RiskLow
	}
}

// HasFlag reports whether a signal with the given code was raised
func (r *FraudAnalysisResult) HasFlag(code string) bool {
	for _, f := range r.Flags {
		if f.Code == code {
			return true
		}
	}
	return false
}
