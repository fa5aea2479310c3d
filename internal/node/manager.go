package node

import (
	"context"
	"errors"
	"sync"

	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/logging"
)

var log = logging.L("node")

var (
	// ErrNodeExists is returned by Add when a node with the same name is
	// already registered.
	ErrNodeExists = errors.New("node: a node with this name already exists")
	// ErrNodeNotFound is returned by operations naming a node that was
	// never added or was already removed.
	ErrNodeNotFound = errors.New("node: node not found")
	// ErrNodeRunning is returned by Remove when the named node has not
	// been torn down first.
	ErrNodeRunning = errors.New("node: node is still running")
	// ErrTearingDown is returned by Add and Remove while Teardown is in
	// progress, mirroring the original's _isInProcess guard.
	ErrTearingDown = errors.New("node: manager is tearing down")
)

type status int

const (
	statusStopped status = iota
	statusRunning
)

type entry struct {
	node   Node
	status status
}

// Manager owns every Node in the process, runs one producer-driver
// goroutine per Producer, and a single dispatcher goroutine that delivers
// each Event to the Consumers subscribed to its type, skipping the node
// that produced it. It is the Go counterpart of NodeManager.
type Manager struct {
	mu         sync.Mutex
	order      []string
	byName     map[string]*entry
	subs       map[events.TypeID]map[Consumer]struct{}
	queue      *queue
	inTeardown bool

	wg           sync.WaitGroup
	dispatchCtx  context.Context
	dispatchStop context.CancelFunc
	producerStop map[string]context.CancelFunc
}

// NewManager creates a Manager with the default dispatch queue capacity.
func NewManager() *Manager {
	return NewManagerWithCapacity(defaultQueueCapacity)
}

// NewManagerWithCapacity creates a Manager whose dispatch queue holds at
// most capacity events before Push blocks.
func NewManagerWithCapacity(capacity int) *Manager {
	return &Manager{
		byName:       make(map[string]*entry),
		subs:         make(map[events.TypeID]map[Consumer]struct{}),
		queue:        newQueue(capacity),
		producerStop: make(map[string]context.CancelFunc),
	}
}

// Add registers a node. The node is not started until Setup is called.
func (m *Manager) Add(n Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inTeardown {
		return ErrTearingDown
	}
	name := n.Name()
	if _, exists := m.byName[name]; exists {
		return ErrNodeExists
	}
	m.byName[name] = &entry{node: n, status: statusStopped}
	m.order = append(m.order, name)
	log.Info("node added", "name", name)
	return nil
}

// GetNode returns the node registered under name, if any.
func (m *Manager) GetNode(name string) (Node, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return e.node, true
}

// Nodes returns the names of every registered node, in the order they were
// added.
func (m *Manager) Nodes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Subscribe registers consumer to receive events of the given types.
func (m *Manager) Subscribe(consumer Consumer, types ...events.TypeID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range types {
		set, ok := m.subs[t]
		if !ok {
			set = make(map[Consumer]struct{})
			m.subs[t] = set
		}
		set[consumer] = struct{}{}
	}
}

// Unsubscribe removes consumer's subscription to the given types.
func (m *Manager) Unsubscribe(consumer Consumer, types ...events.TypeID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range types {
		if set, ok := m.subs[t]; ok {
			delete(set, consumer)
		}
	}
}

// unsubscribeAll removes consumer from every type it is subscribed to,
// including any subscribed dynamically at runtime beyond its declared
// Subscribes() set.
func (m *Manager) unsubscribeAll(consumer Consumer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, set := range m.subs {
		delete(set, consumer)
	}
}

// Setup starts the dispatcher goroutine, calls Setup on every node in the
// order it was added, subscribes every Consumer to its declared types, and
// starts a producer-driver goroutine for every Producer.
func (m *Manager) Setup(ctx context.Context) error {
	m.mu.Lock()
	m.dispatchCtx, m.dispatchStop = context.WithCancel(ctx)
	order := make([]string, len(m.order))
	copy(order, m.order)
	m.mu.Unlock()

	m.wg.Add(1)
	go m.dispatchLoop(m.dispatchCtx)

	for _, name := range order {
		if err := m.setupOne(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// SetupNode starts a single node that was added after the manager's own
// Setup already ran, e.g. a capture or inject node a Controller adds on
// demand when it takes on the server or client role (§4.5). The manager
// must already be set up.
func (m *Manager) SetupNode(ctx context.Context, name string) error {
	return m.setupOne(ctx, name)
}

// TeardownNode stops and removes a single node previously started with
// SetupNode, the counterpart a Controller uses to give up a role.
func (m *Manager) TeardownNode(ctx context.Context, name string) error {
	if err := m.teardownOne(ctx, name); err != nil {
		return err
	}
	return m.Remove(name)
}

func (m *Manager) setupOne(ctx context.Context, name string) error {
	m.mu.Lock()
	e, ok := m.byName[name]
	m.mu.Unlock()
	if !ok {
		return ErrNodeNotFound
	}

	if err := e.node.Setup(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	e.status = statusRunning
	m.mu.Unlock()

	if consumer, ok := e.node.(Consumer); ok {
		m.Subscribe(consumer, consumer.Subscribes()...)
	}

	if producer, ok := e.node.(Producer); ok {
		pctx, cancel := context.WithCancel(m.dispatchCtx)
		m.mu.Lock()
		m.producerStop[name] = cancel
		m.mu.Unlock()

		m.wg.Add(1)
		go m.producerLoop(pctx, name, producer)
	}

	log.Info("node started", "name", name)
	return nil
}

// producerLoop forwards everything a Producer emits into the dispatch
// queue, tagging each Event with the producer's name, until the producer
// closes its channel or ctx is cancelled.
func (m *Manager) producerLoop(ctx context.Context, name string, producer Producer) {
	defer m.wg.Done()
	for {
		select {
		case ev, ok := <-producer.Events():
			if !ok {
				return
			}
			ev.Origin = name
			if err := m.queue.Push(ctx, ev); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// dispatchLoop pops events from the queue and delivers each one, in order,
// to every subscribed consumer except the one that produced it.
func (m *Manager) dispatchLoop(ctx context.Context) {
	defer m.wg.Done()
	for {
		ev, err := m.queue.Pop(ctx)
		if err != nil {
			return
		}
		m.deliver(ctx, ev)
	}
}

func (m *Manager) deliver(ctx context.Context, ev Event) {
	m.mu.Lock()
	set := m.subs[ev.Type]
	consumers := make([]Consumer, 0, len(set))
	for c := range set {
		consumers = append(consumers, c)
	}
	m.mu.Unlock()

	for _, c := range consumers {
		if c.Name() == ev.Origin {
			continue
		}
		if err := c.HandleEvent(ctx, ev); err != nil {
			log.Warn("consumer handle_event failed", "consumer", c.Name(), "type", ev.Type.String(), "error", err)
		}
	}
}

// Dispatch injects an event directly onto the bus, for events that do not
// originate from a Producer's own channel (e.g. one posted by a command).
// It blocks until there is room in the dispatch queue or ctx is cancelled.
func (m *Manager) Dispatch(ctx context.Context, origin string, msg any) error {
	return m.queue.Push(ctx, Event{Type: events.TypeOf(msg), Origin: origin, Payload: msg})
}

// TryDispatch is the non-blocking form of Dispatch.
func (m *Manager) TryDispatch(origin string, msg any) bool {
	return m.queue.TryPush(Event{Type: events.TypeOf(msg), Origin: origin, Payload: msg})
}

// Teardown stops every producer-driver goroutine, stops the dispatcher,
// and calls Teardown on every node in reverse add order. No node may be
// added or removed while Teardown is running.
func (m *Manager) Teardown(ctx context.Context) error {
	m.mu.Lock()
	m.inTeardown = true
	order := make([]string, len(m.order))
	copy(order, m.order)
	m.mu.Unlock()

	for i := len(order) - 1; i >= 0; i-- {
		if err := m.teardownOne(ctx, order[i]); err != nil {
			log.Warn("node teardown failed", "name", order[i], "error", err)
		}
	}

	if m.dispatchStop != nil {
		m.dispatchStop()
	}
	m.wg.Wait()

	m.mu.Lock()
	m.inTeardown = false
	m.mu.Unlock()
	return nil
}

func (m *Manager) teardownOne(ctx context.Context, name string) error {
	m.mu.Lock()
	e, ok := m.byName[name]
	cancel, hasCancel := m.producerStop[name]
	m.mu.Unlock()
	if !ok {
		return ErrNodeNotFound
	}
	if hasCancel {
		cancel()
	}

	if err := e.node.Teardown(ctx); err != nil {
		return err
	}

	if consumer, ok := e.node.(Consumer); ok {
		m.unsubscribeAll(consumer)
	}

	m.mu.Lock()
	e.status = statusStopped
	m.mu.Unlock()
	log.Info("node stopped", "name", name)
	return nil
}

// Remove unregisters a stopped node. It returns ErrNodeRunning if the node
// has not been torn down.
func (m *Manager) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inTeardown {
		return ErrTearingDown
	}
	e, ok := m.byName[name]
	if !ok {
		return ErrNodeNotFound
	}
	if e.status == statusRunning {
		return ErrNodeRunning
	}

	delete(m.byName, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
