package rewards

// Tier labels, in ascending order of balance.
const (
	TierNeedsImprovement = "Needs Improvement"
	TierFair             = "Fair"
	TierSatisfactory     = "Satisfactory"
	TierGood             = "Good"
	TierExcellent        = "Excellent"
)

// Tier maps a balance to its label. Boundaries are inclusive on the low
// side: exactly 50 is still "Needs Improvement", exactly 200 is still
// "Good". Existing threshold reasoning depends on these exact cutoffs.
func Tier(balance int) string {
	switch {
	case balance <= 50:
		return TierNeedsImprovement
	case balance <= 100:
		return TierFair
	case balance <= 150:
		return TierSatisfactory
	case balance <= 200:
		return TierGood
	default:
		return TierExcellent
	}
}
