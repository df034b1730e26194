package report

// Variant mirrors the badge variants of the dashboard.
type Variant uint8

const (
	VariantDefault Variant = iota
	VariantSecondary
	VariantDestructive
)

// Level is an overall risk level for a headline score.
type Level struct {
	Name    string
	Variant Variant
}

// RiskLevel maps a headline score to Critical, High, Medium, Low or Safe.
func RiskLevel(score float64) Level {
	switch {
	case score >= 80:
		return Level{Name: "Critical", Variant: VariantDestructive}
	case score >= 60:
		return Level{Name: "High", Variant: VariantDestructive}
	case score >= 40:
		return Level{Name: "Medium", Variant: VariantSecondary}
	case score >= 20:
		return Level{Name: "Low", Variant: VariantSecondary}
	}
	return Level{Name: "Safe", Variant: VariantDefault}
}

// ScoreBadge maps an indicator score to High, Medium or Low.
func ScoreBadge(score float64) Level {
	switch {
	case score >= 70:
		return Level{Name: "High", Variant: VariantDestructive}
	case score >= 40:
		return Level{Name: "Medium", Variant: VariantSecondary}
	}
	return Level{Name: "Low", Variant: VariantDefault}
}
