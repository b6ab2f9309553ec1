package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/lol-dataset/internal/domain/mastery"
	"github.com/riskibarqy/lol-dataset/internal/infrastructure/repository/memory"
)

func TestMasterySyncService_Sync(t *testing.T) {
	ctx := t.Context()
	matchRepo := memory.NewMatchRepository()
	seedNormalizedMatch(t, matchRepo, newRawMatch("M1", "14.20.1", time.Now()))

	masteryRepo := memory.NewMasteryRepository()
	if err := masteryRepo.InsertMany(ctx, []mastery.ChampionMastery{{PUUID: "M1-p0", ChampionID: 1, ChampionLevel: 2}}); err != nil {
		t.Fatalf("seed mastery: %v", err)
	}

	provider := newStubMatchProvider()
	provider.masteries["M1-p1"] = []RawMastery{
		{ChampionID: 101, ChampionLevel: 7, ChampionPoints: 90000, MilestoneGrades: []string{"S+", "S-"}},
		{ChampionID: 5, ChampionLevel: 1, ChampionPoints: 100},
	}
	provider.masteryErr["M1-p2"] = ErrRateLimited

	svc := NewMasterySyncService(provider, matchRepo, masteryRepo, nil)
	result, err := svc.Sync(ctx)
	if err != nil {
		t.Fatalf("sync mastery: %v", err)
	}
	if result.Candidates != 9 || result.Failed != 1 || result.Stored != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	for _, puuid := range provider.masteryCalls {
		if puuid == "M1-p0" {
			t.Fatalf("player with stored mastery was fetched again")
		}
	}

	items, _ := masteryRepo.ListByPUUID(ctx, "M1-p1")
	if len(items) != 2 {
		t.Fatalf("unexpected mastery rows: %+v", items)
	}
	if items[0].PUUID != "M1-p1" || items[0].MilestoneGrade != "S" || items[1].MilestoneGrade != mastery.GradeMissing {
		t.Fatalf("unexpected mastery mapping: %+v", items)
	}

	// The rate-limited player is retried on the next run; stored players are not.
	provider.masteryCalls = nil
	if _, err := svc.Sync(ctx); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	for _, puuid := range provider.masteryCalls {
		if puuid == "M1-p1" {
			t.Fatalf("stored mastery should not be refetched")
		}
	}
}
