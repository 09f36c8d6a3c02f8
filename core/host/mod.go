// Package host implements a minimal ledger host running native contracts on
// top of a key/value database.
//
// Every state-changing invocation runs in a single database transaction: the
// writes of a contract are committed together with the new height of the
// ledger, or not at all. Invocations are serialized. Observers are notified of
// every committed invocation.
package host

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"go.dedis.ch/cwcounter"
	"go.dedis.ch/cwcounter/contracts/version"
	"go.dedis.ch/cwcounter/core"
	"go.dedis.ch/cwcounter/core/access"
	"go.dedis.ch/cwcounter/core/execution"
	"go.dedis.ch/cwcounter/core/execution/native"
	"go.dedis.ch/cwcounter/core/store/kv"
	"go.dedis.ch/cwcounter/core/store/prefixed"
	"golang.org/x/xerrors"
)

var (
	// stateBucket is the bucket holding the storage of the contracts.
	stateBucket = []byte("state")

	// hostBucket is the bucket holding the bookkeeping of the host.
	hostBucket = []byte("host")

	heightKey = []byte("height")
)

type template struct {
	chainID string
	clock   func() time.Time
	logger  zerolog.Logger
}

// Option is the type to set some fields when instantiating a host.
type Option func(*template)

// WithChainID is an option to set the chain identifier given to the contracts.
func WithChainID(id string) Option {
	return func(tmpl *template) {
		tmpl.chainID = id
	}
}

// WithClock is an option to set the source of the block time.
func WithClock(clock func() time.Time) Option {
	return func(tmpl *template) {
		tmpl.clock = clock
	}
}

// WithLogger is an option to set the logger of the host.
func WithLogger(logger zerolog.Logger) Option {
	return func(tmpl *template) {
		tmpl.logger = logger
	}
}

// Event is the notification sent to the observers of the host when an
// invocation is committed.
type Event struct {
	CallID   string
	Entry    string
	Contract string
	Sender   access.Address
	Height   uint64
	Response execution.Response
}

// Host invokes the contracts of an execution service and persists their state
// in the database.
type Host struct {
	sync.Mutex

	db      kv.DB
	exec    *native.Service
	chainID string
	clock   func() time.Time
	logger  zerolog.Logger
	watcher *core.Watcher
}

// NewHost returns a new host using the database and the execution service.
func NewHost(db kv.DB, exec *native.Service, opts ...Option) *Host {
	tmpl := template{
		chainID: DefaultChainID,
		clock:   time.Now,
		logger:  cwcounter.Logger.With().Str("service", "host").Logger(),
	}

	for _, opt := range opts {
		opt(&tmpl)
	}

	return &Host{
		db:      db,
		exec:    exec,
		chainID: tmpl.chainID,
		clock:   tmpl.clock,
		logger:  tmpl.logger,
		watcher: core.NewWatcher(),
	}
}

// Watch adds the observer to the list of observers notified of the committed
// invocations. The observer receives events of type host.Event.
func (h *Host) Watch(obs core.Observer) {
	h.watcher.Add(obs)
}

// Unwatch removes the observer.
func (h *Host) Unwatch(obs core.Observer) {
	h.watcher.Remove(obs)
}

// Instantiate runs the instantiate entry point of the contract on behalf of
// the caller.
func (h *Host) Instantiate(caller access.Address, contract string, msg []byte) (execution.Response, error) {
	return h.apply("instantiate", caller, contract, msg, h.exec.Instantiate)
}

// Execute runs the execute entry point of the contract on behalf of the
// caller.
func (h *Host) Execute(caller access.Address, contract string, msg []byte) (execution.Response, error) {
	return h.apply("execute", caller, contract, msg, h.exec.Execute)
}

// Query runs the query entry point of the contract in a read-only
// transaction.
func (h *Host) Query(contract string, msg []byte) ([]byte, error) {
	h.Lock()
	defer h.Unlock()

	var out []byte

	err := h.db.View(func(tx kv.ReadableTx) error {
		height := readHeight(tx.GetBucket(hostBucket))

		ctx := &execution.QueryContext{
			Storage: kv.NewReadable(tx.GetBucket(stateBucket)),
			Env:     h.makeEnv(height),
		}

		var err error
		out, err = h.exec.Query(contract, ctx, msg)

		return err
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Height returns the number of state-changing invocations committed so far.
func (h *Host) Height() (uint64, error) {
	var height uint64

	err := h.db.View(func(tx kv.ReadableTx) error {
		height = readHeight(tx.GetBucket(hostBucket))
		return nil
	})
	if err != nil {
		return 0, xerrors.Errorf("failed to read height: %v", err)
	}

	return height, nil
}

// ContractInfo returns the version record written by the contract when it
// was instantiated.
func (h *Host) ContractInfo(contract string) (version.Info, error) {
	var info version.Info

	err := h.db.View(func(tx kv.ReadableTx) error {
		var err error
		info, err = version.Get(prefixed.NewReadable(contract, kv.NewReadable(tx.GetBucket(stateBucket))))

		return err
	})
	if err != nil {
		return version.Info{}, err
	}

	return info, nil
}

type entryFn func(string, *execution.Context, []byte) (execution.Response, error)

func (h *Host) apply(entry string, caller access.Address, contract string, msg []byte,
	fn entryFn) (execution.Response, error) {

	event, err := h.invoke(entry, caller, contract, msg, fn)
	if err != nil {
		return execution.Response{}, err
	}

	// Observers are notified outside of the lock so that they can use the host.
	h.watcher.Notify(event)

	return event.Response, nil
}

func (h *Host) invoke(entry string, caller access.Address, contract string, msg []byte,
	fn entryFn) (Event, error) {

	h.Lock()
	defer h.Unlock()

	if caller.IsEmpty() {
		return Event{}, xerrors.New("caller is missing")
	}

	event := Event{
		CallID:   xid.New().String(),
		Entry:    entry,
		Contract: contract,
		Sender:   caller,
	}

	logger := h.logger.With().Str("call", event.CallID).Str("contract", contract).Logger()

	committed := false

	err := h.db.Update(func(tx kv.WritableTx) error {
		hb, err := tx.GetBucketOrCreate(hostBucket)
		if err != nil {
			return xerrors.Errorf("host bucket: %v", err)
		}

		sb, err := tx.GetBucketOrCreate(stateBucket)
		if err != nil {
			return xerrors.Errorf("state bucket: %v", err)
		}

		event.Height = readHeight(hb) + 1

		ctx := &execution.Context{
			Storage: kv.NewSnapshot(sb),
			Env:     h.makeEnv(event.Height),
			Info:    execution.Info{Sender: caller},
		}

		event.Response, err = fn(contract, ctx, msg)
		if err != nil {
			return err
		}

		buffer := make([]byte, 8)
		binary.BigEndian.PutUint64(buffer, event.Height)

		err = hb.Set(heightKey, buffer)
		if err != nil {
			return xerrors.Errorf("failed to write height: %v", err)
		}

		tx.OnCommit(func() { committed = true })

		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Msg("call rolled back")
		return Event{}, err
	}

	if !committed {
		return Event{}, xerrors.New("call not committed")
	}

	logger.Info().Uint64("height", event.Height).Stringer("sender", caller).Msg("call committed")

	return event, nil
}

func (h *Host) makeEnv(height uint64) execution.Env {
	return execution.Env{
		ChainID: h.chainID,
		Height:  height,
		Time:    h.clock(),
	}
}

func readHeight(bucket kv.Bucket) uint64 {
	if bucket == nil {
		return 0
	}

	value := bucket.Get(heightKey)
	if len(value) != 8 {
		return 0
	}

	return binary.BigEndian.Uint64(value)
}
