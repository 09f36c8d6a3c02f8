// Package native implements an execution service to run native smart contracts.
//
// A native smart contract is written in Go and packaged with the application.
// The service resolves the contract by name, isolates its storage in its own
// namespace and applies its writes only when the invocation succeeds.
package native

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.dedis.ch/cwcounter"
	"go.dedis.ch/cwcounter/core/access"
	"go.dedis.ch/cwcounter/core/execution"
	"go.dedis.ch/cwcounter/core/store"
	"go.dedis.ch/cwcounter/core/store/mem"
	"go.dedis.ch/cwcounter/core/store/prefixed"
	"golang.org/x/xerrors"
)

const (
	entryInstantiate = "instantiate"
	entryExecute     = "execute"
	entryQuery       = "query"

	statusAccepted = "accepted"
	statusRejected = "rejected"

	// markerPrefix is the namespace of the instantiation markers.
	markerPrefix = "go.dedis.ch/cwcounter.native"
)

var promCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "cwcounter_native_calls_total",
	Help: "total number of contract invocations per entry point and status",
}, []string{"entry", "status"})

func init() {
	cwcounter.PromCollectors = append(cwcounter.PromCollectors, promCalls)
}

// Contract is the interface to implement to register a smart contract that will
// be executed natively. The messages are provided in their encoded form.
type Contract interface {
	// Instantiate initializes the state of the contract.
	Instantiate(ctx *execution.Context, msg []byte) (execution.Response, error)

	// Execute applies a state transition.
	Execute(ctx *execution.Context, msg []byte) (execution.Response, error)

	// Query reads the state and returns the encoded response.
	Query(ctx *execution.QueryContext, msg []byte) ([]byte, error)
}

// Service is an execution service for packaged applications.
type Service struct {
	contracts map[string]Contract
	logger    zerolog.Logger
}

// NewExecution returns a new native execution service without any contract.
func NewExecution() *Service {
	return &Service{
		contracts: map[string]Contract{},
		logger:    cwcounter.Logger.With().Str("service", "native").Logger(),
	}
}

// Set stores the contract using the name as the key. It panics if a contract
// is already registered with the same name.
func (ns *Service) Set(name string, contract Contract) {
	if _, ok := ns.contracts[name]; ok {
		panic(xerrors.Errorf("contract '%s' already registered", name))
	}

	ns.contracts[name] = contract
}

// IsInstantiated returns true if the contract has already been instantiated in
// the store.
func (ns *Service) IsInstantiated(name string, snap store.Readable) (bool, error) {
	value, err := snap.Get(markerKey(name))
	if err != nil {
		return false, xerrors.Errorf("failed to read marker: %w", err)
	}

	return value != nil, nil
}

// Instantiate runs the instantiate entry point of the contract. A contract can
// only be instantiated once. Nothing is written to the snapshot if the
// contract fails.
func (ns *Service) Instantiate(name string, ctx *execution.Context, msg []byte) (execution.Response, error) {
	contract, err := ns.getContract(name)
	if err != nil {
		return execution.Response{}, err
	}

	var res execution.Response

	err = mem.Stage(ctx.Storage, func(snap store.Snapshot) error {
		found, err := ns.IsInstantiated(name, snap)
		if err != nil {
			return err
		}

		if found {
			return xerrors.Errorf("contract '%s' already instantiated", name)
		}

		res, err = contract.Instantiate(ns.makeContext(name, ctx, snap), msg)
		if err != nil {
			return err
		}

		err = snap.Set(markerKey(name), []byte{1})
		if err != nil {
			return xerrors.Errorf("failed to write marker: %w", err)
		}

		return nil
	})

	ns.report(entryInstantiate, name, ctx.Env, ctx.Info.Sender, err)

	if err != nil {
		return execution.Response{}, err
	}

	return res, nil
}

// Execute runs the execute entry point of the contract. Nothing is written to
// the snapshot if the contract fails.
func (ns *Service) Execute(name string, ctx *execution.Context, msg []byte) (execution.Response, error) {
	contract, err := ns.getContract(name)
	if err != nil {
		return execution.Response{}, err
	}

	var res execution.Response

	err = mem.Stage(ctx.Storage, func(snap store.Snapshot) error {
		found, err := ns.IsInstantiated(name, snap)
		if err != nil {
			return err
		}

		if !found {
			return xerrors.Errorf("contract '%s' not instantiated", name)
		}

		res, err = contract.Execute(ns.makeContext(name, ctx, snap), msg)

		return err
	})

	ns.report(entryExecute, name, ctx.Env, ctx.Info.Sender, err)

	if err != nil {
		return execution.Response{}, err
	}

	return res, nil
}

// Query runs the query entry point of the contract on a read-only view of its
// storage.
func (ns *Service) Query(name string, ctx *execution.QueryContext, msg []byte) ([]byte, error) {
	contract, err := ns.getContract(name)
	if err != nil {
		return nil, err
	}

	qctx := &execution.QueryContext{
		Storage: prefixed.NewReadable(name, ctx.Storage),
		Env:     ctx.Env,
	}

	data, err := contract.Query(qctx, msg)

	ns.report(entryQuery, name, ctx.Env, access.Address{}, err)

	if err != nil {
		return nil, err
	}

	return data, nil
}

func (ns *Service) getContract(name string) (Contract, error) {
	contract := ns.contracts[name]
	if contract == nil {
		return nil, xerrors.Errorf("unknown contract '%s'", name)
	}

	return contract, nil
}

func (ns *Service) makeContext(name string, ctx *execution.Context, snap store.Snapshot) *execution.Context {
	return &execution.Context{
		Storage: prefixed.NewSnapshot(name, snap),
		Env:     ctx.Env,
		Info:    ctx.Info,
	}
}

// report updates the metrics and logs the outcome of an invocation. A query
// has no sender.
func (ns *Service) report(entry, name string, env execution.Env, sender access.Address, err error) {
	status := statusAccepted
	event := ns.logger.Debug()

	if err != nil {
		status = statusRejected
		event = ns.logger.Info().Err(err)
	}

	promCalls.WithLabelValues(entry, status).Inc()

	event = event.Str("contract", name).Str("entry", entry).Uint64("height", env.Height)

	if !sender.IsEmpty() {
		event = event.Stringer("sender", sender)
	}

	event.Msgf("invocation %s", status)
}

func markerKey(name string) []byte {
	return prefixed.NewPrefixedKey([]byte(markerPrefix), []byte(name))
}
