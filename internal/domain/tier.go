package domain

// MaxScore is the maximum reachable quiz score (13 questions, 3 points each).
const MaxScore = 39

// Tier is one score classification bucket with its result asset.
type Tier struct {
	Label    string
	ImageURL string
}

// The four ordered result tiers published by the quiz.
var (
	TierHidden = Tier{
		Label:    "Прихований потенціал",
		ImageURL: "https://raw.githubusercontent.com/molfartaro/molfa-webapp/main/result1.png",
	}
	TierModerate = Tier{
		Label:    "Помірні здібності",
		ImageURL: "https://raw.githubusercontent.com/molfartaro/molfa-webapp/main/result2.png",
	}
	TierStrong = Tier{
		Label:    "Сильні здібності",
		ImageURL: "https://raw.githubusercontent.com/molfartaro/molfa-webapp/main/result3.png",
	}
	TierExceptional = Tier{
		Label:    "Виняткові здібності",
		ImageURL: "https://raw.githubusercontent.com/molfartaro/molfa-webapp/main/result4.png",
	}
)

// ClassifyScore maps a quiz score to its result tier.
//
// Scores below 13 land in the exceptional tier: the published scale starts
// at 13 and the live funnel has always classified out-of-range values this
// way, so the behavior is kept instead of adding a separate low bucket.
// See DESIGN.md before changing these boundaries.
func ClassifyScore(score int) Tier {
	switch {
	case score >= 13 && score <= 19:
		return TierHidden
	case score >= 20 && score <= 29:
		return TierModerate
	case score >= 30 && score <= 35:
		return TierStrong
	default:
		return TierExceptional
	}
}
