package services

import "testing"

func TestCalculateEloEqualRatings(t *testing.T) {
	if got := CalculateElo(1200, 1200, true); got != 1216 {
		t.Errorf("winner at equal ratings: got %d, want 1216", got)
	}
	if got := CalculateElo(1200, 1200, false); got != 1184 {
		t.Errorf("loser at equal ratings: got %d, want 1184", got)
	}
}

func TestCalculateEloAsymmetry(t *testing.T) {
	underdogGain := EloChange(1000, 1400, true)
	favoriteGain := EloChange(1400, 1000, true)
	if underdogGain <= favoriteGain {
		t.Errorf("underdog gain %d should exceed favorite gain %d", underdogGain, favoriteGain)
	}
	if favoriteGain < 1 {
		t.Errorf("favorite should still gain something, got %d", favoriteGain)
	}
}

func TestCalculateEloZeroSum(t *testing.T) {
	cases := [][2]int{
		{1200, 1200},
		{1000, 1400},
		{1550, 1300},
		{800, 2000},
	}
	for _, c := range cases {
		winGain := EloChange(c[0], c[1], true)
		lossDrop := EloChange(c[1], c[0], false)
		if winGain != -lossDrop {
			t.Errorf("ratings %v: winner +%d vs loser %d, want zero sum", c, winGain, lossDrop)
		}
	}
}

func TestCalculateEloBounded(t *testing.T) {
	if gain := EloChange(800, 2000, true); gain > 32 {
		t.Errorf("gain %d exceeds K", gain)
	}
	if drop := EloChange(2000, 800, false); drop < -32 {
		t.Errorf("drop %d exceeds K", drop)
	}
}
