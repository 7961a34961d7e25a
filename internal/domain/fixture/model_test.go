package fixture

import "testing"

func intPtr(v int) *int { return &v }

func TestFixture_Outcome(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		f    Fixture
		want Outcome
	}{
		{name: "home win", f: Fixture{Status: StatusFinished, HomeScore: intPtr(2), AwayScore: intPtr(1)}, want: OutcomeHome},
		{name: "away win", f: Fixture{Status: StatusFinished, HomeScore: intPtr(0), AwayScore: intPtr(2)}, want: OutcomeAway},
		{name: "draw", f: Fixture{Status: StatusFinished, HomeScore: intPtr(1), AwayScore: intPtr(1)}, want: OutcomeDraw},
		{name: "goalless draw", f: Fixture{Status: StatusFinished, HomeScore: intPtr(0), AwayScore: intPtr(0)}, want: OutcomeDraw},
		{name: "not started", f: Fixture{Status: StatusNotStarted, HomeScore: intPtr(2), AwayScore: intPtr(1)}, want: OutcomeUnknown},
		{name: "live", f: Fixture{Status: StatusLive, HomeScore: intPtr(2), AwayScore: intPtr(1)}, want: OutcomeUnknown},
		{name: "finished without home score", f: Fixture{Status: StatusFinished, AwayScore: intPtr(1)}, want: OutcomeUnknown},
		{name: "finished without away score", f: Fixture{Status: StatusFinished, HomeScore: intPtr(1)}, want: OutcomeUnknown},
		{name: "provider finished alias", f: Fixture{Status: "FINISHED", HomeScore: intPtr(3), AwayScore: intPtr(1)}, want: OutcomeHome},
		{name: "after extra time", f: Fixture{Status: "AET", HomeScore: intPtr(2), AwayScore: intPtr(2)}, want: OutcomeDraw},
		{name: "cancelled", f: Fixture{Status: StatusCancelled, HomeScore: intPtr(1), AwayScore: intPtr(0)}, want: OutcomeUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.f.Outcome(); got != tc.want {
				t.Fatalf("outcome: got=%q want=%q", got, tc.want)
			}
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	t.Parallel()

	if got := NormalizeStatus("  ft "); got != StatusFinished {
		t.Fatalf("normalize: got=%q want=%q", got, StatusFinished)
	}
	if got := NormalizeStatus(""); got != StatusNotStarted {
		t.Fatalf("empty status: got=%q want=%q", got, StatusNotStarted)
	}
}

func TestStatusClassifiers(t *testing.T) {
	t.Parallel()

	if !IsFinishedStatus("ft") || !IsFinishedStatus("FINISHED") || !IsFinishedStatus("PEN") {
		t.Fatalf("finished aliases not recognized")
	}
	if IsFinishedStatus(StatusLive) {
		t.Fatalf("live must not classify as finished")
	}
	if !IsLiveStatus("IN_PLAY") || !IsLiveStatus("HT") {
		t.Fatalf("live aliases not recognized")
	}
	if !IsCancelledLikeStatus(StatusPostponed) || !IsCancelledLikeStatus("ABANDONED") {
		t.Fatalf("cancelled-like aliases not recognized")
	}
}

func TestValidOutcome(t *testing.T) {
	t.Parallel()

	for _, outcome := range []Outcome{OutcomeHome, OutcomeDraw, OutcomeAway} {
		if !ValidOutcome(outcome) {
			t.Fatalf("%q must be a valid prediction", outcome)
		}
	}
	if ValidOutcome(OutcomeUnknown) || ValidOutcome("X") {
		t.Fatalf("unknown symbols must be invalid")
	}
}
