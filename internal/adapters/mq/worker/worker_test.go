package worker_test

import (
	"context"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/okian/matcha/internal/adapters/mq/queue"
	"github.com/okian/matcha/internal/adapters/mq/worker"
	"github.com/okian/matcha/internal/adapters/repository"
	"github.com/okian/matcha/internal/domain/memo"
	"github.com/okian/matcha/internal/domain/model"
	"github.com/okian/matcha/internal/domain/rules"
	"github.com/okian/matcha/internal/domain/suitability"
	"github.com/okian/matcha/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/matcha/internal/domain/catalog"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// stubEvaluator returns a fixed result and counts invocations.
type stubEvaluator struct {
	mu     sync.Mutex
	calls  int
	result suitability.Result
}

func (e *stubEvaluator) Evaluate(_ context.Context, _ []int64, _ []catalog.KeywordRecord) suitability.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	return e.result
}

func (e *stubEvaluator) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// stubPostings serves postings from a fixed map.
type stubPostings struct {
	postings map[string]model.Posting
}

func (s stubPostings) Posting(_ context.Context, id string) (model.Posting, error) {
	p, ok := s.postings[id]
	if !ok {
		return model.Posting{}, repository.ErrNotFound
	}
	return p, nil
}

type matchUpdate struct {
	seekerID  string
	postingID string
	score     int
	level     string
}

// recordingUpdater pushes every board update onto a channel.
type recordingUpdater struct {
	updates chan matchUpdate
}

func newRecordingUpdater() *recordingUpdater {
	return &recordingUpdater{updates: make(chan matchUpdate, 100)}
}

func (u *recordingUpdater) UpdateMatch(_ context.Context, seekerID, postingID string, score int, level string) (bool, error) {
	u.updates <- matchUpdate{seekerID: seekerID, postingID: postingID, score: score, level: level}
	return true, nil
}

func awaitUpdate(t *testing.T, u *recordingUpdater) matchUpdate {
	t.Helper()
	select {
	case update := <-u.updates:
		return update
	case <-time.After(2 * time.Second):
		t.Fatal("no match update arrived")
		return matchUpdate{}
	}
}

func TestInMemoryWorker_ProcessTask(t *testing.T) {
	Convey("Given a worker wired to a queue and a board", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(10), queue.WithBufferSize(10))
		evaluator := &stubEvaluator{result: suitability.Result{Score: 83, Level: rules.TierExcellent}}
		postings := stubPostings{postings: map[string]model.Posting{
			"p1": {ID: "p1", Title: "cook"},
		}}
		updater := newRecordingUpdater()

		w := worker.NewInMemoryWorker(q, evaluator, postings, updater)
		go w.Run(ctx)
		Reset(func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			_ = w.Shutdown(shutdownCtx)
		})

		Convey("When a task is enqueued", func() {
			ok := q.Enqueue(ctx, queue.Task{TaskID: "t1", SeekerID: "s1", PostingID: "p1", KeywordIDs: []int64{101, 301}})
			So(ok, ShouldBeTrue)

			Convey("Then the scored result should land on the board", func() {
				update := awaitUpdate(t, updater)
				So(update.seekerID, ShouldEqual, "s1")
				So(update.postingID, ShouldEqual, "p1")
				So(update.score, ShouldEqual, 83)
				So(update.level, ShouldEqual, "excellent")
				So(evaluator.callCount(), ShouldEqual, 1)
			})
		})

		Convey("When the posting does not exist", func() {
			ok := q.Enqueue(ctx, queue.Task{TaskID: "t2", SeekerID: "s1", PostingID: "ghost"})
			So(ok, ShouldBeTrue)

			Convey("Then no update should be recorded", func() {
				select {
				case update := <-updater.updates:
					t.Fatalf("unexpected update for posting %s", update.postingID)
				case <-time.After(200 * time.Millisecond):
				}
				So(evaluator.callCount(), ShouldEqual, 0)
			})
		})
	})
}

func TestInMemoryWorker_Memoization(t *testing.T) {
	Convey("Given a worker with a memo cache", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(10), queue.WithBufferSize(10))
		evaluator := &stubEvaluator{result: suitability.Result{Score: 61, Level: rules.TierGood}}
		postings := stubPostings{postings: map[string]model.Posting{
			"p1": {ID: "p1"},
		}}
		updater := newRecordingUpdater()
		cache := memo.NewInMemoryCache()

		w := worker.NewInMemoryWorker(q, evaluator, postings, updater, worker.WithCache(cache))
		go w.Run(ctx)
		Reset(func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			_ = w.Shutdown(shutdownCtx)
		})

		seekerIDs := []int64{101, 301}

		Convey("When the pair was already scored", func() {
			cache.Put(ctx, memo.Key(seekerIDs, "p1"), suitability.Result{Score: 95, Level: rules.TierPerfect})

			q.Enqueue(ctx, queue.Task{TaskID: "t1", SeekerID: "s1", PostingID: "p1", KeywordIDs: seekerIDs})

			Convey("Then the cached result should be used without rescoring", func() {
				update := awaitUpdate(t, updater)
				So(update.score, ShouldEqual, 95)
				So(update.level, ShouldEqual, "perfect")
				So(evaluator.callCount(), ShouldEqual, 0)
			})
		})

		Convey("When the pair is new", func() {
			q.Enqueue(ctx, queue.Task{TaskID: "t1", SeekerID: "s1", PostingID: "p1", KeywordIDs: seekerIDs})

			Convey("Then the result should be scored and cached", func() {
				update := awaitUpdate(t, updater)
				So(update.score, ShouldEqual, 61)
				So(evaluator.callCount(), ShouldEqual, 1)

				cached, ok := cache.Get(ctx, memo.Key(seekerIDs, "p1"))
				So(ok, ShouldBeTrue)
				So(cached.Score, ShouldEqual, 61)
			})
		})
	})
}

func TestInMemoryWorker_Shutdown(t *testing.T) {
	Convey("Given a running worker", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue()
		evaluator := &stubEvaluator{}
		updater := newRecordingUpdater()

		w := worker.NewInMemoryWorker(q, evaluator, stubPostings{}, updater)
		go w.Run(ctx)

		Convey("When shutdown is requested", func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			err := w.Shutdown(shutdownCtx)

			Convey("Then it should stop cleanly", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a pool of workers over one queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(100), queue.WithBufferSize(100))
		evaluator := &stubEvaluator{result: suitability.Result{Score: 47, Level: rules.TierFair}}
		postingMap := make(map[string]model.Posting)
		for i := 0; i < 20; i++ {
			id := "p" + strconv.Itoa(i)
			postingMap[id] = model.Posting{ID: id}
		}
		updater := newRecordingUpdater()

		pool := worker.NewPool(4, q, evaluator, stubPostings{postings: postingMap}, updater, nil)
		pool.Start(ctx)
		Reset(pool.Stop)

		Convey("When many tasks are enqueued", func() {
			for i := 0; i < 20; i++ {
				ok := q.Enqueue(ctx, queue.Task{
					TaskID:    "t" + strconv.Itoa(i),
					SeekerID:  "s1",
					PostingID: "p" + strconv.Itoa(i),
				})
				So(ok, ShouldBeTrue)
			}

			Convey("Then every task should produce a board update", func() {
				seen := make(map[string]bool)
				for i := 0; i < 20; i++ {
					update := awaitUpdate(t, updater)
					seen[update.postingID] = true
				}
				So(len(seen), ShouldEqual, 20)
			})
		})
	})
}
