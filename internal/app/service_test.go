package service_test

import (
	"context"
	"os"
	"testing"
	"time"

	service "github.com/okian/matcha/internal/app"
	"github.com/okian/matcha/internal/domain/catalog"
	"github.com/okian/matcha/internal/domain/model"
	"github.com/okian/matcha/internal/domain/rules"
	"github.com/okian/matcha/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// seedRecords resolves seed catalog ids to full records for posting payloads.
func seedRecords(t *testing.T, ids ...int64) []catalog.KeywordRecord {
	t.Helper()
	byID := make(map[int64]catalog.KeywordRecord)
	for _, r := range catalog.Seed() {
		byID[r.ID] = r
	}
	out := make([]catalog.KeywordRecord, 0, len(ids))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			t.Fatalf("unknown seed id %d", id)
		}
		out = append(out, r)
	}
	return out
}

// awaitMatches polls the board until the seeker has want entries.
func awaitMatches(ctx context.Context, svc *service.Service, seekerID string, want int) []model.MatchEntry {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		entries, err := svc.TopMatches(ctx, seekerID, 100)
		if err == nil && len(entries) >= want {
			return entries
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func newStartedService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("failed to start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		ctx := context.Background()

		Convey("When started", func() {
			err := svc.Start(ctx)
			So(err, ShouldBeNil)
			defer svc.Stop()

			Convey("Then stats should reflect the running state", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["workerCount"], ShouldEqual, 2)
				So(stats, ShouldContainKey, "queueLength")
				So(stats, ShouldContainKey, "totalSeekers")
				So(stats, ShouldContainKey, "totalPostings")
				So(stats, ShouldContainKey, "memoSize")
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})

		Convey("When stopped twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()
			svc.Stop()

			Convey("Then it should report stopped", func() {
				So(svc.GetStats()["started"], ShouldBeFalse)
			})
		})
	})
}

func TestService_Evaluate(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newStartedService(t, service.WithWorkerCount(1))

		Convey("When evaluating a seeker against a location-only posting", func() {
			result := svc.Evaluate(ctx, []int64{101, 301}, seedRecords(t, 101))

			Convey("Then all unlisted categories should grant full credit", func() {
				So(result.Score, ShouldEqual, 91)
				So(result.Level, ShouldEqual, rules.TierPerfect)
			})
		})

		Convey("When the seeker misses the posting's location", func() {
			result := svc.Evaluate(ctx, []int64{102}, seedRecords(t, 101))

			Convey("Then the location gate should collapse the score", func() {
				So(result.Level, ShouldEqual, rules.TierLow)
				So(result.Details.MissingRequiredCategories, ShouldContain, "location")
			})
		})
	})
}

func TestService_Postings(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newStartedService(t, service.WithWorkerCount(1))

		Convey("When registering a posting", func() {
			created := svc.AddPosting(ctx, model.Posting{ID: "p1", Title: "kitchen staff", Keywords: seedRecords(t, 101, 301)})

			Convey("Then it should be created and retrievable", func() {
				So(created, ShouldBeTrue)

				p, err := svc.Posting(ctx, "p1")
				So(err, ShouldBeNil)
				So(p.Title, ShouldEqual, "kitchen staff")
			})

			Convey("And re-registering should replace it", func() {
				created := svc.AddPosting(ctx, model.Posting{ID: "p1", Title: "head cook"})
				So(created, ShouldBeFalse)
			})
		})
	})
}

func TestService_MatchPipeline(t *testing.T) {
	Convey("Given a started service with registered postings", t, func() {
		ctx := context.Background()
		svc := newStartedService(t, service.WithWorkerCount(2), service.WithShardCount(2))

		// seoul/service posting is a stronger match than the busan one
		svc.AddPosting(ctx, model.Posting{ID: "p-seoul", Keywords: seedRecords(t, 101, 301)})
		svc.AddPosting(ctx, model.Posting{ID: "p-busan", Keywords: seedRecords(t, 102, 301)})

		Convey("When enqueuing matches for a seoul seeker", func() {
			count, ok := svc.EnqueueMatches(ctx, "seeker-1", []int64{101, 301})

			Convey("Then one task per posting should be accepted", func() {
				So(ok, ShouldBeTrue)
				So(count, ShouldEqual, 2)
			})

			Convey("And the board should rank the seoul posting first", func() {
				entries := awaitMatches(ctx, svc, "seeker-1", 2)
				So(entries, ShouldNotBeNil)
				So(entries[0].PostingID, ShouldEqual, "p-seoul")
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[0].Score, ShouldBeGreaterThan, entries[1].Score)

				Convey("And the single-pair lookup should agree", func() {
					entry, err := svc.Match(ctx, "seeker-1", "p-seoul")
					So(err, ShouldBeNil)
					So(entry.Score, ShouldEqual, entries[0].Score)
				})
			})
		})

		Convey("When enqueuing for a seeker with no postings registered", func() {
			empty := newStartedService(t, service.WithWorkerCount(1))
			count, ok := empty.EnqueueMatches(ctx, "seeker-2", []int64{101})

			Convey("Then nothing should be enqueued and no failure reported", func() {
				So(ok, ShouldBeTrue)
				So(count, ShouldEqual, 0)
			})
		})
	})
}

func TestService_RescoreAfterPostingReplace(t *testing.T) {
	Convey("Given a scored match whose posting is then re-registered", t, func() {
		ctx := context.Background()
		svc := newStartedService(t, service.WithWorkerCount(1))

		svc.AddPosting(ctx, model.Posting{ID: "p1", Keywords: seedRecords(t, 101)})

		_, ok := svc.EnqueueMatches(ctx, "seeker-1", []int64{101})
		So(ok, ShouldBeTrue)

		entries := awaitMatches(ctx, svc, "seeker-1", 1)
		So(entries, ShouldNotBeNil)
		So(entries[0].Score, ShouldEqual, 91)

		Convey("When the posting is replaced with a different location", func() {
			created := svc.AddPosting(ctx, model.Posting{ID: "p1", Keywords: seedRecords(t, 102)})
			So(created, ShouldBeFalse)

			_, ok := svc.EnqueueMatches(ctx, "seeker-1", []int64{101})
			So(ok, ShouldBeTrue)

			Convey("Then the board should reflect the new keyword set, not a cached score", func() {
				rescored := func() bool {
					entry, err := svc.Match(ctx, "seeker-1", "p1")
					return err == nil && entry.Score != 91
				}
				deadline := time.Now().Add(3 * time.Second)
				for !rescored() && time.Now().Before(deadline) {
					time.Sleep(10 * time.Millisecond)
				}

				entry, err := svc.Match(ctx, "seeker-1", "p1")
				So(err, ShouldBeNil)
				So(entry.Score, ShouldEqual, 16)
				So(entry.Level, ShouldEqual, "low")
			})
		})
	})
}

func TestService_UnstartedEvaluate(t *testing.T) {
	Convey("Given a constructed but unstarted service", t, func() {
		ctx := context.Background()
		svc := service.New()

		Convey("When evaluating a pair", func() {
			result := svc.Evaluate(ctx, []int64{101, 301}, seedRecords(t, 101))

			Convey("Then it should score without the async machinery", func() {
				So(result.Score, ShouldEqual, 91)
				So(result.Level, ShouldEqual, rules.TierPerfect)
			})
		})

		Convey("When swapping rules before start", func() {
			cfg := rules.Default()
			cfg.ScoreLevels = rules.ScoreLevels{Perfect: 95, Excellent: 92, Good: 80, Fair: 50}

			So(func() { svc.ReplaceRules(ctx, cfg) }, ShouldNotPanic)
			So(svc.Rules().ScoreLevels.Perfect, ShouldEqual, 95)
		})
	})
}

func TestService_ReplaceRules(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newStartedService(t, service.WithWorkerCount(1))

		Convey("When swapping in stricter thresholds", func() {
			cfg := rules.Default()
			cfg.ScoreLevels = rules.ScoreLevels{Perfect: 95, Excellent: 92, Good: 80, Fair: 50}
			svc.ReplaceRules(ctx, cfg)

			Convey("Then the active configuration should change", func() {
				So(svc.Rules().ScoreLevels.Perfect, ShouldEqual, 95)
			})

			Convey("And classification should follow the new thresholds", func() {
				result := svc.Evaluate(ctx, []int64{101, 301}, seedRecords(t, 101))
				So(result.Score, ShouldEqual, 91)
				So(result.Level, ShouldEqual, rules.TierGood)
			})

			Convey("And the memo cache should be empty", func() {
				So(svc.GetStats()["memoSize"], ShouldEqual, int64(0))
			})
		})

		Convey("When replacing with nil", func() {
			before := svc.Rules()
			svc.ReplaceRules(ctx, nil)

			Convey("Then the active configuration should be unchanged", func() {
				So(svc.Rules(), ShouldEqual, before)
			})
		})
	})
}
