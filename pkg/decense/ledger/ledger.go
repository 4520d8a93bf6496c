package ledger

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mr-tron/base58"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/decense/pkg/app"
	"github.com/code-payments/decense/pkg/decense/data"
	"github.com/code-payments/decense/pkg/decense/processor"
	"github.com/code-payments/decense/pkg/decense/runtime"
	"github.com/code-payments/decense/pkg/metrics"
	"github.com/code-payments/decense/pkg/retry"
	"github.com/code-payments/decense/pkg/retry/backoff"
	"github.com/code-payments/decense/pkg/solana"
	"github.com/code-payments/decense/pkg/solana/decense"
)

const (
	submittedTransactionsMetricName = "Ledger/submitted_transactions"
	failedTransactionsMetricName    = "Ledger/failed_transactions"
	replayDurationMetricName        = "Ledger/replay_duration"
)

// Ledger is an app.App that replays a stream of transactions into a runtime
// with the decense program registered, then shuts down.
type Ledger struct {
	log *logrus.Entry

	dataConfig      data.ConfigProvider
	runtimeConfig   runtime.ConfigProvider
	processorConfig processor.ConfigProvider

	// input overrides reading standard input for StdinTransactions
	input io.Reader

	ctx      context.Context
	cancel   context.CancelFunc
	provider data.Provider
	runtime  *runtime.Runtime
	queue    *runtime.Queue

	submitted atomic.Uint64
	failed    atomic.Uint64

	doneCh     chan struct{}
	replayDone sync.WaitGroup
	stopOnce   sync.Once
}

func New(dataConfig data.ConfigProvider, runtimeConfig runtime.ConfigProvider, processorConfig processor.ConfigProvider) *Ledger {
	return &Ledger{
		log:             logrus.StandardLogger().WithField("type", "decense/ledger"),
		dataConfig:      dataConfig,
		runtimeConfig:   runtimeConfig,
		processorConfig: processorConfig,
		input:           os.Stdin,
		doneCh:          make(chan struct{}),
	}
}

// Init implements app.App.Init
func (l *Ledger) Init(rawConfig app.Config, metricsProvider *newrelic.Application) error {
	config, err := decodeConfig(rawConfig)
	if err != nil {
		return err
	}

	l.ctx, l.cancel = context.WithCancel(metrics.NewContext(context.Background(), metricsProvider))

	l.provider, err = data.NewDataProvider(l.ctx, config.Postgres.toClientConfig(), l.dataConfig)
	if err != nil {
		return errors.Wrap(err, "error opening data provider")
	}

	l.runtime = runtime.New(l.provider, l.runtimeConfig)
	if err := l.runtime.RegisterProgram(decense.PROGRAM_ID, processor.NewProcessor(l.processorConfig)); err != nil {
		return err
	}

	if len(config.Genesis) > 0 {
		raw, err := app.LoadFile(l.ctx, config.Genesis)
		if err != nil {
			return errors.Wrap(err, "error loading genesis")
		}

		accounts, err := parseGenesis(raw)
		if err != nil {
			return err
		}

		funded, err := applyGenesis(l.ctx, l.provider, l.runtime, accounts)
		if err != nil {
			return err
		}
		l.log.WithFields(logrus.Fields{
			"accounts": len(accounts),
			"funded":   funded,
		}).Info("applied genesis")
	}

	input, err := l.openTransactions(config.Transactions)
	if err != nil {
		return err
	}

	l.queue = runtime.NewQueue(l.runtime, config.Workers, config.QueueSize)

	l.replayDone.Add(1)
	go func() {
		defer l.replayDone.Done()
		defer close(l.doneCh)

		if err := l.replay(input); err != nil {
			l.log.WithError(err).Warn("transaction replay stopped")
		}
	}()

	return nil
}

// ShutdownChan implements app.App.ShutdownChan
func (l *Ledger) ShutdownChan() <-chan struct{} {
	return l.doneCh
}

// Stop implements app.App.Stop
func (l *Ledger) Stop() {
	l.stopOnce.Do(func() {
		if l.cancel != nil {
			l.cancel()
		}

		l.replayDone.Wait()

		if l.queue != nil {
			l.queue.Close()
		}

		if l.provider != nil {
			if err := l.provider.Close(); err != nil {
				l.log.WithError(err).Warn("failure closing data provider")
			}
		}

		l.log.WithFields(logrus.Fields{
			"submitted": l.submitted.Load(),
			"failed":    l.failed.Load(),
		}).Info("ledger stopped")
	})
}

func (l *Ledger) openTransactions(source string) (io.Reader, error) {
	if source == StdinTransactions {
		return l.input, nil
	}

	raw, err := app.LoadFile(l.ctx, source)
	if err != nil {
		return nil, errors.Wrap(err, "error loading transactions")
	}
	return bytes.NewReader(raw), nil
}

// replay submits every transaction read from r, preserving the order of
// transactions with the same fee payer, and waits for all of them to finish.
func (l *Ledger) replay(r io.Reader) error {
	start := time.Now()
	defer func() {
		metrics.RecordDuration(l.ctx, replayDurationMetricName, time.Since(start))
	}()

	var pending sync.WaitGroup
	defer pending.Wait()

	lines, scanErr := scanLines(l.ctx, r)

	var lineNumber int
	for {
		var line string
		var ok bool
		select {
		case <-l.ctx.Done():
			return l.ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			return <-scanErr
		}

		lineNumber++

		line = strings.TrimSpace(line)
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		log := l.log.WithField("line", lineNumber)

		txn, err := decodeTransaction(line)
		if err != nil {
			log.WithError(err).Warn("skipping malformed transaction")
			l.failed.Add(1)
			continue
		}

		log = log.WithField("signature", base58.Encode(txn.Signature()))

		var resultCh <-chan error
		_, err = retry.Retry(
			func() error {
				var err error
				resultCh, err = l.queue.Enqueue(l.ctx, txn)
				return err
			},
			retry.RetriableErrors(runtime.ErrQueueFull),
			retry.Context(l.ctx),
			retry.Backoff(backoff.Constant(10*time.Millisecond), 10*time.Millisecond),
		)
		if err != nil {
			return errors.Wrapf(err, "error enqueueing transaction on line %d", lineNumber)
		}

		pending.Add(1)
		go func() {
			defer pending.Done()
			l.onResult(log, <-resultCh)
		}()
	}
}

// scanLines reads r in the background, so a blocked read never holds up a
// shutdown.
func scanLines(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
		errCh <- scanner.Err()
	}()

	return lines, errCh
}

func (l *Ledger) onResult(log *logrus.Entry, err error) {
	if err == nil {
		l.submitted.Add(1)
		metrics.RecordCount(l.ctx, submittedTransactionsMetricName, 1)
		log.Debug("transaction committed")
		return
	}

	l.failed.Add(1)
	metrics.RecordCount(l.ctx, failedTransactionsMetricName, 1)

	if custom := solana.GetCustomError(err); custom != nil {
		log = log.WithField("custom_error", decense.GetErrorName(*custom))
	}
	log.WithError(err).Info("transaction failed")
}

func decodeTransaction(line string) (solana.Transaction, error) {
	var txn solana.Transaction

	raw, err := base58.Decode(line)
	if err != nil {
		return txn, errors.Wrap(err, "invalid base58")
	}

	if err := txn.Unmarshal(raw); err != nil {
		return txn, err
	}
	return txn, nil
}
