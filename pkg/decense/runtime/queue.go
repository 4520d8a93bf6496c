package runtime

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/code-payments/decense/pkg/solana"
	decensesync "github.com/code-payments/decense/pkg/sync"
)

var (
	ErrQueueFull   = errors.New("transaction queue is full")
	ErrQueueClosed = errors.New("transaction queue is closed")
)

type queuedTransaction struct {
	ctx    context.Context
	txn    solana.Transaction
	result chan error
}

// Queue submits transactions to the runtime from a fixed pool of workers.
// Transactions from the same fee payer execute in the order they were
// enqueued.
type Queue struct {
	runtime *Runtime
	channel *decensesync.StripedChannel[*queuedTransaction]

	closeMu sync.RWMutex
	closed  bool
	workers sync.WaitGroup
}

// NewQueue starts workers goroutines, each draining its own queue of up to
// queueSize transactions.
func NewQueue(runtime *Runtime, workers, queueSize uint) *Queue {
	q := &Queue{
		runtime: runtime,
		channel: decensesync.NewStripedChannel[*queuedTransaction](workers, queueSize),
	}

	for _, c := range q.channel.GetChannels() {
		q.workers.Add(1)
		go q.worker(c)
	}

	return q
}

// Enqueue schedules the transaction for execution. The returned channel
// receives the result of SubmitTransaction once it completes.
func (q *Queue) Enqueue(ctx context.Context, txn solana.Transaction) (<-chan error, error) {
	if len(txn.Message.Accounts) == 0 {
		return nil, solana.TransactionErrorSanitizeFailure
	}

	q.closeMu.RLock()
	defer q.closeMu.RUnlock()

	if q.closed {
		return nil, ErrQueueClosed
	}

	queued := &queuedTransaction{
		ctx:    ctx,
		txn:    txn,
		result: make(chan error, 1),
	}
	if !q.channel.Send(txn.Message.Accounts[0], queued) {
		return nil, ErrQueueFull
	}
	return queued.result, nil
}

// Close stops accepting transactions and waits for the queued ones to finish.
func (q *Queue) Close() {
	q.closeMu.Lock()
	if q.closed {
		q.closeMu.Unlock()
		return
	}
	q.closed = true
	q.channel.Close()
	q.closeMu.Unlock()

	q.workers.Wait()
}

func (q *Queue) worker(c <-chan *queuedTransaction) {
	defer q.workers.Done()

	for queued := range c {
		if err := queued.ctx.Err(); err != nil {
			queued.result <- err
			continue
		}
		queued.result <- q.runtime.SubmitTransaction(queued.ctx, queued.txn)
	}
}
