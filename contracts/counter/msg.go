package counter

import (
	"bytes"
	"encoding/json"

	"golang.org/x/xerrors"
)

// InstantiateMsg is the message used to initialize the contract.
type InstantiateMsg struct {
	// Counter is the initial value of the counter.
	Counter uint64 `json:"counter"`
}

// ExecuteMsg is the set of state transitions of the contract. The only
// implementations are Increment and Reset.
type ExecuteMsg interface {
	executeVariant() string
}

// Increment is the transition that adds one to the counter. Anyone can
// execute it.
//
// - implements counter.ExecuteMsg
type Increment struct{}

func (Increment) executeVariant() string {
	return "increment"
}

// Reset is the transition that overwrites the counter. Only the owner can
// execute it.
//
// - implements counter.ExecuteMsg
type Reset struct {
	// Value is the new value of the counter. It is required.
	Value *uint64 `json:"value"`
}

func (Reset) executeVariant() string {
	return "reset"
}

// NewReset returns a reset message with the given value.
func NewReset(value uint64) Reset {
	return Reset{Value: &value}
}

// QueryMsg is the set of read-only requests of the contract. The only
// implementation is GetCount.
type QueryMsg interface {
	queryVariant() string
}

// GetCount is the query returning the current value of the counter.
//
// - implements counter.QueryMsg
type GetCount struct{}

func (GetCount) queryVariant() string {
	return "get_count"
}

// GetCountResponse is the response of the GetCount query.
type GetCountResponse struct {
	Count uint64 `json:"count"`
}

// EncodeInstantiateMsg returns the JSON representation of the message.
func EncodeInstantiateMsg(msg InstantiateMsg) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode: %v", err)
	}

	return data, nil
}

// instantiateJSON is the wire format of the instantiate message. The counter
// is a pointer to tell a missing field from a zero.
type instantiateJSON struct {
	Counter *uint64 `json:"counter"`
}

// DecodeInstantiateMsg parses the JSON representation of an instantiate
// message. The counter is required and unknown fields are rejected.
func DecodeInstantiateMsg(data []byte) (InstantiateMsg, error) {
	var raw instantiateJSON

	err := decodeStrict(data, &raw)
	if err != nil {
		return InstantiateMsg{}, xerrors.Errorf("malformed instantiate message (%v): %w",
			err, ErrInvalidInput)
	}

	if raw.Counter == nil {
		return InstantiateMsg{}, xerrors.Errorf("missing counter: %w", ErrInvalidInput)
	}

	return InstantiateMsg{Counter: *raw.Counter}, nil
}

// EncodeExecuteMsg returns the JSON representation of the message, which is
// an object with a single field named by the variant, like
// {"reset":{"value":10}}.
func EncodeExecuteMsg(msg ExecuteMsg) ([]byte, error) {
	if msg == nil {
		return nil, xerrors.Errorf("missing message: %w", ErrInvalidInput)
	}

	return encodeVariant(msg.executeVariant(), msg)
}

// DecodeExecuteMsg parses the JSON representation of an execute message.
func DecodeExecuteMsg(data []byte) (ExecuteMsg, error) {
	name, body, err := decodeVariant(data)
	if err != nil {
		return nil, err
	}

	switch name {
	case Increment{}.executeVariant():
		var msg Increment

		err = decodeStrict(body, &msg)
		if err != nil {
			return nil, xerrors.Errorf("malformed %s (%v): %w", name, err, ErrInvalidInput)
		}

		return msg, nil
	case Reset{}.executeVariant():
		var msg Reset

		err = decodeStrict(body, &msg)
		if err != nil {
			return nil, xerrors.Errorf("malformed %s (%v): %w", name, err, ErrInvalidInput)
		}

		return msg, nil
	default:
		return nil, xerrors.Errorf("unknown execute message '%s': %w", name, ErrInvalidInput)
	}
}

// EncodeQueryMsg returns the JSON representation of the message.
func EncodeQueryMsg(msg QueryMsg) ([]byte, error) {
	if msg == nil {
		return nil, xerrors.Errorf("missing message: %w", ErrInvalidInput)
	}

	return encodeVariant(msg.queryVariant(), msg)
}

// DecodeQueryMsg parses the JSON representation of a query message.
func DecodeQueryMsg(data []byte) (QueryMsg, error) {
	name, body, err := decodeVariant(data)
	if err != nil {
		return nil, err
	}

	switch name {
	case GetCount{}.queryVariant():
		var msg GetCount

		err = decodeStrict(body, &msg)
		if err != nil {
			return nil, xerrors.Errorf("malformed %s (%v): %w", name, err, ErrInvalidInput)
		}

		return msg, nil
	default:
		return nil, xerrors.Errorf("unknown query message '%s': %w", name, ErrInvalidInput)
	}
}

func encodeVariant(name string, body interface{}) ([]byte, error) {
	data, err := json.Marshal(map[string]interface{}{name: body})
	if err != nil {
		return nil, xerrors.Errorf("failed to encode: %v", err)
	}

	return data, nil
}

func decodeVariant(data []byte) (string, json.RawMessage, error) {
	var fields map[string]json.RawMessage

	err := json.Unmarshal(data, &fields)
	if err != nil {
		return "", nil, xerrors.Errorf("malformed message (%v): %w", err, ErrInvalidInput)
	}

	if len(fields) != 1 {
		return "", nil, xerrors.Errorf("expected one variant but got %d: %w",
			len(fields), ErrInvalidInput)
	}

	for name, body := range fields {
		return name, body, nil
	}

	return "", nil, nil
}

// decodeStrict decodes a JSON object into the value. Unknown fields, a null
// object and trailing data are rejected.
func decodeStrict(data []byte, v interface{}) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return xerrors.New("expected an object but got null")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if err != nil {
		return err
	}

	if dec.More() {
		return xerrors.New("unexpected data after the object")
	}

	return nil
}
