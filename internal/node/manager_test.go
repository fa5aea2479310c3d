package node

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mksync/mksync/internal/events"
)

type fakeNode struct {
	name          string
	setupCalls    atomic.Int32
	teardownCalls atomic.Int32
}

func (f *fakeNode) Name() string { return f.name }
func (f *fakeNode) Setup(ctx context.Context) error {
	f.setupCalls.Add(1)
	return nil
}
func (f *fakeNode) Teardown(ctx context.Context) error {
	f.teardownCalls.Add(1)
	return nil
}

type fakeProducer struct {
	fakeNode
	out chan Event
}

func newFakeProducer(name string) *fakeProducer {
	return &fakeProducer{fakeNode: fakeNode{name: name}, out: make(chan Event, 4)}
}

func (f *fakeProducer) Events() <-chan Event { return f.out }

type fakeConsumer struct {
	fakeNode
	types    []events.TypeID
	received []Event
}

func (f *fakeConsumer) Subscribes() []events.TypeID { return f.types }
func (f *fakeConsumer) HandleEvent(ctx context.Context, ev Event) error {
	f.received = append(f.received, ev)
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestManagerDispatchesToSubscribers(t *testing.T) {
	m := NewManager()
	producer := newFakeProducer("capture")
	consumer := &fakeConsumer{fakeNode: fakeNode{name: "controller"}, types: []events.TypeID{events.TypeBorder}}

	if err := m.Add(producer); err != nil {
		t.Fatalf("Add producer: %v", err)
	}
	if err := m.Add(consumer); err != nil {
		t.Fatalf("Add consumer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := m.Setup(ctx); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	producer.out <- Event{Type: events.TypeBorder, Payload: events.BorderEvent{Which: events.BorderLeft}}

	waitFor(t, func() bool { return len(consumer.received) == 1 })
	if consumer.received[0].Origin != "capture" {
		t.Fatalf("origin = %q, want capture", consumer.received[0].Origin)
	}

	tctx, tcancel := context.WithTimeout(context.Background(), time.Second)
	defer tcancel()
	if err := m.Teardown(tctx); err != nil {
		t.Fatalf("Teardown: %v", err)
	}
	if producer.teardownCalls.Load() != 1 {
		t.Fatalf("producer teardown calls = %d, want 1", producer.teardownCalls.Load())
	}
	if consumer.teardownCalls.Load() != 1 {
		t.Fatalf("consumer teardown calls = %d, want 1", consumer.teardownCalls.Load())
	}
}

func TestManagerSkipsEventsOwnOrigin(t *testing.T) {
	m := NewManager()
	self := &struct {
		fakeConsumer
	}{}
	self.name = "both"
	self.types = []events.TypeID{events.TypeAppStatusChanged}

	if err := m.Add(self); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := m.Setup(ctx); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	if err := m.Dispatch(ctx, "both", events.AppStatusChanged{Status: events.StatusStarted}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	if len(self.received) != 0 {
		t.Fatalf("expected self-originated event to be skipped, got %d deliveries", len(self.received))
	}
}

func TestTeardownOneUnsubscribesConsumer(t *testing.T) {
	m := NewManager()
	producer := newFakeProducer("capture")
	consumer := &fakeConsumer{fakeNode: fakeNode{name: "controller"}, types: []events.TypeID{events.TypeBorder}}

	if err := m.Add(producer); err != nil {
		t.Fatalf("Add producer: %v", err)
	}
	if err := m.Add(consumer); err != nil {
		t.Fatalf("Add consumer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := m.Setup(ctx); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	// Subscribe to a type beyond the declared Subscribes() set, as a node
	// might do dynamically at runtime.
	m.Subscribe(consumer, events.TypeAppStatusChanged)

	tctx, tcancel := context.WithTimeout(context.Background(), time.Second)
	defer tcancel()
	if err := m.TeardownNode(tctx, "controller"); err != nil {
		t.Fatalf("TeardownNode: %v", err)
	}

	producer.out <- Event{Type: events.TypeBorder, Payload: events.BorderEvent{Which: events.BorderLeft}}
	if err := m.Dispatch(ctx, "other", events.AppStatusChanged{Status: events.StatusStarted}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	if len(consumer.received) != 0 {
		t.Fatalf("torn-down consumer still received %d events, want 0", len(consumer.received))
	}
}

func TestAddDuplicateNameFails(t *testing.T) {
	m := NewManager()
	if err := m.Add(&fakeNode{name: "dup"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := m.Add(&fakeNode{name: "dup"}); err != ErrNodeExists {
		t.Fatalf("Add duplicate: err = %v, want ErrNodeExists", err)
	}
}

func TestRemoveRunningNodeFails(t *testing.T) {
	m := NewManager()
	n := &fakeNode{name: "running"}
	if err := m.Add(n); err != nil {
		t.Fatalf("Add: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := m.Setup(ctx); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	if err := m.Remove("running"); err != ErrNodeRunning {
		t.Fatalf("Remove: err = %v, want ErrNodeRunning", err)
	}

	tctx, tcancel := context.WithTimeout(context.Background(), time.Second)
	defer tcancel()
	m.Teardown(tctx)
}

func TestQueueTryPushReturnsFalseWhenFull(t *testing.T) {
	q := newQueue(1)
	if !q.TryPush(Event{}) {
		t.Fatal("first TryPush should succeed")
	}
	if q.TryPush(Event{}) {
		t.Fatal("second TryPush should fail, queue is full")
	}
}
