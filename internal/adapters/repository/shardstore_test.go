package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	repository "github.com/okian/matcha/internal/adapters/repository"
	"github.com/okian/matcha/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestShardedStore_Postings(t *testing.T) {
	Convey("Given a sharded store", t, func() {
		ctx := context.Background()
		store := repository.NewShardedStore(ctx)

		Convey("When upserting a new posting", func() {
			created := store.UpsertPosting(ctx, model.Posting{ID: "p1", Title: "first"})

			Convey("Then it should report created", func() {
				So(created, ShouldBeTrue)
				So(store.PostingCount(ctx), ShouldEqual, 1)
			})

			Convey("And upserting the same id again should report replaced", func() {
				created := store.UpsertPosting(ctx, model.Posting{ID: "p1", Title: "second"})
				So(created, ShouldBeFalse)
				So(store.PostingCount(ctx), ShouldEqual, 1)

				p, err := store.Posting(ctx, "p1")
				So(err, ShouldBeNil)
				So(p.Title, ShouldEqual, "second")
			})
		})

		Convey("When fetching an unknown posting", func() {
			_, err := store.Posting(ctx, "missing")

			Convey("Then it should return ErrNotFound", func() {
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})

		Convey("When listing postings", func() {
			store.UpsertPosting(ctx, model.Posting{ID: "p3"})
			store.UpsertPosting(ctx, model.Posting{ID: "p1"})
			store.UpsertPosting(ctx, model.Posting{ID: "p2"})

			postings := store.Postings(ctx)

			Convey("Then they should come back in stable id order", func() {
				So(len(postings), ShouldEqual, 3)
				So(postings[0].ID, ShouldEqual, "p1")
				So(postings[1].ID, ShouldEqual, "p2")
				So(postings[2].ID, ShouldEqual, "p3")
			})
		})
	})
}

func TestShardedStore_Matches(t *testing.T) {
	Convey("Given a sharded store with scored matches", t, func() {
		ctx := context.Background()
		store := repository.NewShardedStore(ctx, repository.WithShardCount(4))

		_, _ = store.UpdateMatch(ctx, "seeker-1", "p1", 83, "excellent")
		_, _ = store.UpdateMatch(ctx, "seeker-1", "p2", 95, "perfect")
		_, _ = store.UpdateMatch(ctx, "seeker-1", "p3", 47, "fair")

		Convey("When fetching top matches", func() {
			entries, err := store.TopMatches(ctx, "seeker-1", 10)

			Convey("Then entries should rank by score descending", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 3)
				So(entries[0].PostingID, ShouldEqual, "p2")
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[1].PostingID, ShouldEqual, "p1")
				So(entries[2].PostingID, ShouldEqual, "p3")
				So(entries[2].Rank, ShouldEqual, 3)
			})
		})

		Convey("When fetching with a smaller limit", func() {
			entries, err := store.TopMatches(ctx, "seeker-1", 2)

			Convey("Then only the best entries should come back", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
				So(entries[0].PostingID, ShouldEqual, "p2")
			})
		})

		Convey("When the limit is invalid", func() {
			_, err := store.TopMatches(ctx, "seeker-1", 0)

			Convey("Then it should return ErrInvalidLimit", func() {
				So(err, ShouldEqual, repository.ErrInvalidLimit)
			})
		})

		Convey("When two postings share a score", func() {
			_, _ = store.UpdateMatch(ctx, "seeker-1", "p0", 83, "excellent")
			entries, err := store.TopMatches(ctx, "seeker-1", 10)

			Convey("Then posting id should break the tie", func() {
				So(err, ShouldBeNil)
				So(entries[1].PostingID, ShouldEqual, "p0")
				So(entries[2].PostingID, ShouldEqual, "p1")
			})
		})

		Convey("When fetching one pair", func() {
			entry, err := store.Match(ctx, "seeker-1", "p1")

			Convey("Then the entry should carry its rank", func() {
				So(err, ShouldBeNil)
				So(entry.Score, ShouldEqual, 83)
				So(entry.Level, ShouldEqual, "excellent")
				So(entry.Rank, ShouldEqual, 2)
			})
		})

		Convey("When fetching an unscored pair", func() {
			_, err := store.Match(ctx, "seeker-1", "p99")

			Convey("Then it should return ErrNotFound", func() {
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})

		Convey("When fetching matches for an unknown seeker", func() {
			_, err := store.TopMatches(ctx, "nobody", 5)

			Convey("Then it should return ErrNotFound", func() {
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})

		Convey("When rescoring a pair with the same values", func() {
			changed, err := store.UpdateMatch(ctx, "seeker-1", "p1", 83, "excellent")

			Convey("Then it should report no change", func() {
				So(err, ShouldBeNil)
				So(changed, ShouldBeFalse)
			})
		})

		Convey("When rescoring a pair with new values", func() {
			changed, err := store.UpdateMatch(ctx, "seeker-1", "p1", 90, "perfect")

			Convey("Then it should report a change", func() {
				So(err, ShouldBeNil)
				So(changed, ShouldBeTrue)

				entry, err := store.Match(ctx, "seeker-1", "p1")
				So(err, ShouldBeNil)
				So(entry.Score, ShouldEqual, 90)
			})
		})

		Convey("Then seeker count should track distinct seekers", func() {
			So(store.SeekerCount(ctx), ShouldEqual, 1)

			_, _ = store.UpdateMatch(ctx, "seeker-2", "p1", 10, "low")
			So(store.SeekerCount(ctx), ShouldEqual, 2)
		})
	})
}

func TestShardedStore_Concurrency(t *testing.T) {
	Convey("Given concurrent writers across many seekers", t, func() {
		ctx := context.Background()
		store := repository.NewShardedStore(ctx, repository.WithShardCount(8))

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				seekerID := fmt.Sprintf("seeker-%d", n)
				for j := 0; j < 50; j++ {
					postingID := fmt.Sprintf("p%d", j)
					_, _ = store.UpdateMatch(ctx, seekerID, postingID, j, "low")
				}
			}(i)
		}
		wg.Wait()

		Convey("Then every seeker should have a complete ranked board", func() {
			So(store.SeekerCount(ctx), ShouldEqual, 16)
			for i := 0; i < 16; i++ {
				entries, err := store.TopMatches(ctx, fmt.Sprintf("seeker-%d", i), 100)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 50)
				So(entries[0].Score, ShouldEqual, 49)
			}
		})
	})
}
