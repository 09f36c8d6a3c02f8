package counter

import (
	"encoding/json"

	"go.dedis.ch/cwcounter/core/execution"
	"go.dedis.ch/cwcounter/core/execution/native"
	"golang.org/x/xerrors"
)

// RegisterContract registers the counter contract to the given execution
// service.
func RegisterContract(exec *native.Service, c Contract) {
	exec.Set(ContractName, c)
}

// Contract is the counter contract as seen by the host. It decodes the JSON
// messages and hands them to the handler.
//
// - implements native.Contract
type Contract struct {
	handler *Handler
}

// NewContract creates a new counter contract.
func NewContract() Contract {
	return Contract{
		handler: NewHandler(),
	}
}

// Instantiate implements native.Contract.
func (c Contract) Instantiate(ctx *execution.Context, data []byte) (execution.Response, error) {
	msg, err := DecodeInstantiateMsg(data)
	if err != nil {
		return execution.Response{}, err
	}

	return c.handler.Instantiate(ctx, msg)
}

// Execute implements native.Contract.
func (c Contract) Execute(ctx *execution.Context, data []byte) (execution.Response, error) {
	msg, err := DecodeExecuteMsg(data)
	if err != nil {
		return execution.Response{}, err
	}

	return c.handler.Execute(ctx, msg)
}

// Query implements native.Contract. It returns the JSON encoded response.
func (c Contract) Query(ctx *execution.QueryContext, data []byte) ([]byte, error) {
	msg, err := DecodeQueryMsg(data)
	if err != nil {
		return nil, err
	}

	res, err := c.handler.Query(ctx, msg)
	if err != nil {
		return nil, err
	}

	out, err := json.Marshal(res)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode response: %v", err)
	}

	return out, nil
}
