package queue_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/okian/matcha/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given an in-memory queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(10), queue.WithBufferSize(10))

		Convey("When enqueuing a task", func() {
			ok := q.Enqueue(ctx, queue.Task{TaskID: "t1", SeekerID: "s1", PostingID: "p1"})

			Convey("Then the task should be accepted", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)
			})

			Convey("And it should flow out the dequeue channel", func() {
				task := <-q.Dequeue(ctx)
				So(task.TaskID, ShouldEqual, "t1")
				So(task.EnqueuedAt.IsZero(), ShouldBeFalse)
			})
		})

		Convey("When the queue is full", func() {
			for i := 0; i < 10; i++ {
				So(q.Enqueue(ctx, queue.Task{TaskID: strconv.Itoa(i)}), ShouldBeTrue)
			}

			Convey("Then further enqueues should be rejected", func() {
				So(q.Enqueue(ctx, queue.Task{TaskID: "overflow"}), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 10)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then it should report closed and reject enqueues", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, queue.Task{TaskID: "late"}), ShouldBeFalse)
			})

			Convey("And closing again should be a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})

			Convey("And the dequeue channel should drain and close", func() {
				ch := q.Dequeue(ctx)
				select {
				case _, open := <-ch:
					So(open, ShouldBeFalse)
				case <-time.After(time.Second):
					t.Fatal("dequeue channel did not close")
				}
			})
		})

		Convey("When tasks are enqueued before a consumer attaches", func() {
			for i := 0; i < 5; i++ {
				So(q.Enqueue(ctx, queue.Task{TaskID: strconv.Itoa(i)}), ShouldBeTrue)
			}
			So(q.Close(), ShouldBeNil)

			Convey("Then the consumer should receive all of them in order", func() {
				var got []string
				for task := range q.Dequeue(ctx) {
					got = append(got, task.TaskID)
				}
				So(got, ShouldResemble, []string{"0", "1", "2", "3", "4"})
			})
		})
	})
}
