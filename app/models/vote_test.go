package models

import "testing"

func TestNextVoteAction(t *testing.T) {
	tests := []struct {
		existing  string
		requested string
		want      voteAction
	}{
		{existing: "", requested: VoteTypeUp, want: voteInsert},
		{existing: "", requested: VoteTypeDown, want: voteInsert},
		{existing: VoteTypeUp, requested: VoteTypeUp, want: voteRemove},
		{existing: VoteTypeDown, requested: VoteTypeDown, want: voteRemove},
		{existing: VoteTypeUp, requested: VoteTypeDown, want: voteSwitch},
		{existing: VoteTypeDown, requested: VoteTypeUp, want: voteSwitch},
	}

	for _, tt := range tests {
		if got := nextVoteAction(tt.existing, tt.requested); got != tt.want {
			t.Fatalf("nextVoteAction(%q, %q) = %d, want %d", tt.existing, tt.requested, got, tt.want)
		}
	}
}

func TestValidVoteType(t *testing.T) {
	if !ValidVoteType(VoteTypeUp) || !ValidVoteType(VoteTypeDown) {
		t.Fatalf("expected up/down to be valid vote types")
	}
	for _, invalid := range []string{"", "UP", "sideways", "upvote"} {
		if ValidVoteType(invalid) {
			t.Fatalf("expected %q to be invalid", invalid)
		}
	}
}
