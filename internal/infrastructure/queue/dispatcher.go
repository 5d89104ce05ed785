package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes incoming transactions to a fixed set of workers using
// consistent hashing on the account number, so each account's transactions
// apply in arrival order and balance updates never interleave across workers.
type Dispatcher struct {
	workers []chan ports.IngestTransactionInput
	service ports.TransactionService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.TransactionService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.IngestTransactionInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.IngestTransactionInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a transaction to the worker responsible for its account.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(txn ports.IngestTransactionInput) {
	d.workers[d.shardIndex(txn.AccountNumber)] <- txn
}

// EnqueueBatch enqueues multiple transactions preserving per-account ordering.
func (d *Dispatcher) EnqueueBatch(txns []ports.IngestTransactionInput) {
	for _, t := range txns {
		d.Enqueue(t)
	}
}

// shardIndex maps an account number deterministically to a worker index.
func (d *Dispatcher) shardIndex(accountNumber string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(accountNumber))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.IngestTransactionInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case txn, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Ingest(ctx, txn); err != nil {
				d.log.Error().Err(err).
					Str("account_number", txn.AccountNumber).
					Str("reference", txn.Reference).
					Int("worker_id", id).
					Msg("transaction ingestion failed")
			}
		}
	}
}
