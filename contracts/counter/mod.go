// Package counter implements a native contract that holds a counter owned by
// the caller that instantiated it.
//
// Anyone can increment the counter but only the owner can reset it to a given
// value. Every transition reads and writes the state within the snapshot of
// the invocation so that a failure never leaves a partial write.
package counter

import (
	"math/bits"
	"strconv"

	"github.com/rs/zerolog"
	"go.dedis.ch/cwcounter"
	"go.dedis.ch/cwcounter/contracts/version"
	"go.dedis.ch/cwcounter/core/execution"
	"golang.org/x/xerrors"
)

const (
	// ContractName is the name of the contract.
	ContractName = "go.dedis.ch/cwcounter.Counter"

	// ContractVersion is the version of the contract written at
	// instantiation.
	ContractVersion = "0.1.0"

	// MethodAttr is the response attribute holding the name of the transition.
	MethodAttr = "method"
)

// commands defines the transitions of the counter contract. This interface
// helps in testing the contract.
type commands interface {
	increment(ctx *execution.Context, msg ExecuteMsg) (execution.Response, error)
	reset(ctx *execution.Context, msg ExecuteMsg) (execution.Response, error)
	getCount(ctx *execution.QueryContext, msg QueryMsg) (GetCountResponse, error)
}

// Handler maps the typed messages of the contract to state transitions.
type Handler struct {
	cmd    commands
	logger zerolog.Logger
}

// NewHandler creates a new handler of the counter contract.
func NewHandler() *Handler {
	handler := &Handler{
		logger: cwcounter.Logger.With().Str("contract", ContractName).Logger(),
	}

	handler.cmd = counterCommand{Handler: handler}

	return handler
}

// Instantiate creates the state of the contract. The sender becomes the owner
// without any authorization check.
func (h *Handler) Instantiate(ctx *execution.Context, msg InstantiateMsg) (execution.Response, error) {
	if ctx.Info.Sender.IsEmpty() {
		return execution.Response{}, xerrors.Errorf("missing sender: %w", ErrInvalidInput)
	}

	err := version.Set(ctx.Storage, ContractName, ContractVersion)
	if err != nil {
		return execution.Response{}, xerrors.Errorf("failed to set version: %w", err)
	}

	state := State{
		Owner:   ctx.Info.Sender,
		Counter: msg.Counter,
	}

	err = NewStateStore(ctx.Storage).Save(state)
	if err != nil {
		return execution.Response{}, err
	}

	h.logger.Info().Stringer("owner", state.Owner).Msgf("instantiated with count=%d", state.Counter)

	res := execution.NewResponse().
		AddAttribute(MethodAttr, "instantiate").
		AddAttribute("owner", state.Owner.String()).
		AddAttribute("count", strconv.FormatUint(state.Counter, 10))

	return res, nil
}

// Execute applies the transition of the message.
func (h *Handler) Execute(ctx *execution.Context, msg ExecuteMsg) (execution.Response, error) {
	switch msg.(type) {
	case Increment:
		res, err := h.cmd.increment(ctx, msg)
		if err != nil {
			return execution.Response{}, xerrors.Errorf("failed to increment: %w", err)
		}

		return res, nil
	case Reset:
		res, err := h.cmd.reset(ctx, msg)
		if err != nil {
			return execution.Response{}, xerrors.Errorf("failed to reset: %w", err)
		}

		return res, nil
	default:
		return execution.Response{}, xerrors.Errorf("unexpected execute message %T: %w", msg, ErrShouldNotEnter)
	}
}

// Query returns the response of the read-only request.
func (h *Handler) Query(ctx *execution.QueryContext, msg QueryMsg) (interface{}, error) {
	switch msg.(type) {
	case GetCount:
		res, err := h.cmd.getCount(ctx, msg)
		if err != nil {
			return nil, xerrors.Errorf("failed to get count: %w", err)
		}

		return res, nil
	default:
		return nil, xerrors.Errorf("unexpected query message %T: %w", msg, ErrShouldNotEnter)
	}
}

// counterCommand implements the commands of the counter contract
//
// - implements commands
type counterCommand struct {
	*Handler
}

// increment implements commands. Any sender is allowed.
func (c counterCommand) increment(ctx *execution.Context, msg ExecuteMsg) (execution.Response, error) {
	_, ok := msg.(Increment)
	if !ok {
		return execution.Response{}, xerrors.Errorf("increment with %T: %w", msg, ErrShouldNotEnter)
	}

	state, err := NewStateStore(ctx.Storage).Update(func(state State) (State, error) {
		next, carry := bits.Add64(state.Counter, 1, 0)
		if carry != 0 {
			return state, ErrOverflow
		}

		state.Counter = next

		return state, nil
	})
	if err != nil {
		return execution.Response{}, err
	}

	c.logger.Debug().Stringer("sender", ctx.Info.Sender).Msgf("incremented to %d", state.Counter)

	return execution.NewResponse().AddAttribute(MethodAttr, "increment"), nil
}

// reset implements commands. The value is validated before the sender so that
// a missing value is always reported as an invalid input.
func (c counterCommand) reset(ctx *execution.Context, msg ExecuteMsg) (execution.Response, error) {
	reset, ok := msg.(Reset)
	if !ok {
		return execution.Response{}, xerrors.Errorf("reset with %T: %w", msg, ErrShouldNotEnter)
	}

	if reset.Value == nil {
		return execution.Response{}, xerrors.Errorf("missing value: %w", ErrInvalidInput)
	}

	value := *reset.Value

	_, err := NewStateStore(ctx.Storage).Update(func(state State) (State, error) {
		if !ctx.Info.Sender.Equal(state.Owner) {
			return state, xerrors.Errorf("sender '%s' is not the owner: %w",
				ctx.Info.Sender, ErrUnauthorized)
		}

		state.Counter = value

		return state, nil
	})
	if err != nil {
		return execution.Response{}, err
	}

	c.logger.Info().Stringer("sender", ctx.Info.Sender).Msgf("reset to %d", value)

	return execution.NewResponse().AddAttribute(MethodAttr, "reset"), nil
}

// getCount implements commands. It never writes.
func (c counterCommand) getCount(ctx *execution.QueryContext, msg QueryMsg) (GetCountResponse, error) {
	_, ok := msg.(GetCount)
	if !ok {
		return GetCountResponse{}, xerrors.Errorf("get count with %T: %w", msg, ErrShouldNotEnter)
	}

	state, err := LoadState(ctx.Storage)
	if err != nil {
		return GetCountResponse{}, err
	}

	return GetCountResponse{Count: state.Counter}, nil
}
