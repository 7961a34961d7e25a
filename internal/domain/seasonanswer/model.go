package seasonanswer

import "time"

// Question identifies one of the four season-long prediction types.
type Question string

const (
	QuestionLeagueWinner       Question = "league_winner"
	QuestionTopScorer          Question = "top_scorer"
	QuestionBestGoalDifference Question = "best_goal_difference"
	QuestionLastPlace          Question = "last_place"
)

// Questions lists the four types in scoring order.
func Questions() []Question {
	return []Question{
		QuestionLeagueWinner,
		QuestionTopScorer,
		QuestionBestGoalDifference,
		QuestionLastPlace,
	}
}

// IsTeamQuestion reports whether the question is answered with a team.
// Top scorer is the only player-answered question.
func IsTeamQuestion(q Question) bool {
	return q != QuestionTopScorer
}

// Answer is one user's season-long prediction. Exactly one of TeamID and
// PlayerID is populated, and both hold internal identifiers, never
// provider identifiers.
type Answer struct {
	ID       int64
	UserID   int64
	SeasonID int64
	Question Question
	TeamID   *int64
	PlayerID *int64
	LockedAt *time.Time
}

// AnsweredID returns whichever identifier the answer carries.
func (a Answer) AnsweredID() (int64, bool) {
	if a.TeamID != nil {
		return *a.TeamID, true
	}
	if a.PlayerID != nil {
		return *a.PlayerID, true
	}
	return 0, false
}

// DynamicPointsRow is one row of the atomic dynamic-points batch:
// a user's total for the round plus the four per-question verdicts.
type DynamicPointsRow struct {
	UserID             int64
	RoundID            int64
	TotalPoints        int
	LeagueWinner       bool
	TopScorer          bool
	BestGoalDifference bool
	LastPlace          bool
}
