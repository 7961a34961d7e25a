package fixture

import (
	"strings"
	"time"
)

const (
	StatusNotStarted = "NS"
	StatusLive       = "LIVE"
	StatusFinished   = "FT"
	StatusCancelled  = "CANCELLED"
	StatusPostponed  = "POSTPONED"
)

// Outcome is the 1X2 symbol derived from a finished fixture.
type Outcome string

const (
	OutcomeHome    Outcome = "HOME"
	OutcomeDraw    Outcome = "DRAW"
	OutcomeAway    Outcome = "AWAY"
	OutcomeUnknown Outcome = ""
)

// Fixture represents one scheduled match.
type Fixture struct {
	ID         int64
	HomeTeamID int64
	AwayTeamID int64
	HomeTeam   string
	AwayTeam   string
	KickoffAt  time.Time
	HomeScore  *int
	AwayScore  *int
	Status     string
}

// Outcome derives the 1X2 result. It is only defined for a finished fixture
// with both scores present; anything else is OutcomeUnknown.
func (f Fixture) Outcome() Outcome {
	if !IsFinishedStatus(f.Status) {
		return OutcomeUnknown
	}
	if f.HomeScore == nil || f.AwayScore == nil {
		return OutcomeUnknown
	}
	switch {
	case *f.HomeScore > *f.AwayScore:
		return OutcomeHome
	case *f.HomeScore < *f.AwayScore:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusNotStarted
	}
	return status
}

func IsLiveStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusLive, "IN_PLAY", "HT", "1H", "2H", "ET":
		return true
	default:
		return false
	}
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "FINISHED", "AET", "PEN", "FT_PEN":
		return true
	default:
		return false
	}
}

func IsCancelledLikeStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCancelled, StatusPostponed, "ABANDONED":
		return true
	default:
		return false
	}
}

// ValidOutcome reports whether the symbol is one a user may predict.
func ValidOutcome(value Outcome) bool {
	switch value {
	case OutcomeHome, OutcomeDraw, OutcomeAway:
		return true
	default:
		return false
	}
}
