package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/lol-dataset/internal/domain/player"
	playermock "github.com/riskibarqy/lol-dataset/internal/mocks/domain/player"
)

func TestPlayerSyncService_Refresh_FillsFromApexTiersUsingMockery(t *testing.T) {
	t.Parallel()

	provider := newStubMatchProvider()
	provider.standings[player.TierChallenger] = []RawLeagueEntry{
		{PUUID: "c-low", LeaguePoints: 900},
		{PUUID: "c-high", LeaguePoints: 1500},
	}
	provider.standings[player.TierGrandmaster] = []RawLeagueEntry{
		{PUUID: "gm-1", LeaguePoints: 700},
		{PUUID: "gm-2", LeaguePoints: 800},
		{PUUID: "gm-3", LeaguePoints: 600},
	}
	provider.standings[player.TierMaster] = []RawLeagueEntry{{PUUID: "m-1", LeaguePoints: 400}}

	repo := playermock.NewRepository(t)
	repo.
		On("Replace", mock.Anything, mock.MatchedBy(func(players []player.Player) bool {
			if len(players) != 3 {
				return false
			}
			return players[0].PUUID == "c-high" && players[0].Rank == 1 &&
				players[1].PUUID == "c-low" && players[1].Rank == 2 &&
				players[2].PUUID == "gm-2" && players[2].Rank == 3 && players[2].Tier == player.TierGrandmaster
		})).
		Return(nil).
		Once()

	svc := NewPlayerSyncService(provider, repo, PlayerSyncConfig{Amount: 3}, nil)
	roster, err := svc.Refresh(t.Context())
	if err != nil {
		t.Fatalf("refresh roster: %v", err)
	}
	if len(roster) != 3 {
		t.Fatalf("unexpected roster size: %d", len(roster))
	}
}

func TestPlayerSyncService_Refresh_ProviderErrorKeepsRosterUsingMockery(t *testing.T) {
	t.Parallel()

	provider := newStubMatchProvider()
	provider.standingsErr = ErrProviderUnavailable
	repo := playermock.NewRepository(t)

	svc := NewPlayerSyncService(provider, repo, PlayerSyncConfig{Amount: 10}, nil)
	if _, err := svc.Refresh(t.Context()); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	repo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestPlayerSyncService_PUUIDsUsingMockery(t *testing.T) {
	t.Parallel()

	repo := playermock.NewRepository(t)
	repo.On("ListPUUIDs", mock.Anything).Return([]string{"a", "b"}, nil).Once()

	svc := NewPlayerSyncService(newStubMatchProvider(), repo, PlayerSyncConfig{}, nil)
	got, err := svc.PUUIDs(t.Context())
	if err != nil {
		t.Fatalf("list puuids: %v", err)
	}
	if len(got) != 2 || got[0] != "a" {
		t.Fatalf("unexpected puuids: %v", got)
	}
}
