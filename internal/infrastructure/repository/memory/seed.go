package memory

import (
	"time"

	"github.com/matchday/prediction-league/internal/domain/fixture"
	"github.com/matchday/prediction-league/internal/domain/idmap"
	"github.com/matchday/prediction-league/internal/domain/round"
	"github.com/matchday/prediction-league/internal/domain/seasonanswer"
	"github.com/matchday/prediction-league/internal/domain/user"
)

const (
	SeedSeasonID      = int64(1)
	SeedCompetitionID = int64(2021)
	SeedSeasonYear    = 2025
	SeedRoundID       = int64(1)
)

func SeedRounds() []round.Round {
	return []round.Round{
		{
			ID:            SeedRoundID,
			SeasonID:      SeedSeasonID,
			CompetitionID: SeedCompetitionID,
			SeasonYear:    SeedSeasonYear,
			Name:          "Matchday 1",
			Status:        round.StatusClosed,
		},
	}
}

func SeedFixtures() []fixture.Fixture {
	kickoff := time.Date(2025, time.August, 16, 14, 0, 0, 0, time.UTC)
	two, one, zero := 2, 1, 0

	return []fixture.Fixture{
		{
			ID: 101, HomeTeamID: 57, AwayTeamID: 61,
			HomeTeam: "Arsenal", AwayTeam: "Chelsea",
			KickoffAt: kickoff, HomeScore: &two, AwayScore: &one,
			Status: fixture.StatusFinished,
		},
		{
			ID: 102, HomeTeamID: 64, AwayTeamID: 65,
			HomeTeam: "Liverpool", AwayTeam: "Manchester City",
			KickoffAt: kickoff.Add(2 * time.Hour), HomeScore: &one, AwayScore: &one,
			Status: fixture.StatusFinished,
		},
		{
			ID: 103, HomeTeamID: 66, AwayTeamID: 73,
			HomeTeam: "Manchester United", AwayTeam: "Tottenham",
			KickoffAt: kickoff.Add(4 * time.Hour), HomeScore: &zero, AwayScore: &two,
			Status: fixture.StatusFinished,
		},
	}
}

func SeedUsers() []user.User {
	return []user.User{
		{ID: 1, DisplayName: "alice"},
		{ID: 2, DisplayName: "bob"},
		{ID: 3, DisplayName: "carol"},
	}
}

func SeedSeasonAnswers() []seasonanswer.Answer {
	arsenal := int64(57)
	sunderland := int64(71)
	haaland := int64(129011)

	return []seasonanswer.Answer{
		{ID: 1, UserID: 1, SeasonID: SeedSeasonID, Question: seasonanswer.QuestionLeagueWinner, TeamID: &arsenal},
		{ID: 2, UserID: 1, SeasonID: SeedSeasonID, Question: seasonanswer.QuestionTopScorer, PlayerID: &haaland},
		{ID: 3, UserID: 2, SeasonID: SeedSeasonID, Question: seasonanswer.QuestionLastPlace, TeamID: &sunderland},
	}
}

func SeedIDMappings() []idmap.Mapping {
	return []idmap.Mapping{
		{Kind: idmap.KindTeam, InternalID: 57, ProviderID: 57},
		{Kind: idmap.KindTeam, InternalID: 71, ProviderID: 71},
		{Kind: idmap.KindPlayer, InternalID: 129011, ProviderID: 129011},
	}
}
