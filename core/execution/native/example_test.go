package native

import (
	"encoding/binary"
	"fmt"

	"go.dedis.ch/cwcounter/core/access"
	"go.dedis.ch/cwcounter/core/execution"
	"go.dedis.ch/cwcounter/core/store/mem"
)

func ExampleService_Execute() {
	srvc := NewExecution()
	srvc.Set("example", exampleContract{})

	ctx := &execution.Context{
		Storage: mem.NewSnapshot(),
		Info:    execution.Info{Sender: access.NewAddress("alice")},
	}

	increment := make([]byte, 8)
	binary.LittleEndian.PutUint64(increment, 5)

	_, err := srvc.Instantiate("example", ctx, nil)
	if err != nil {
		panic("failed to instantiate: " + err.Error())
	}

	for i := 0; i < 2; i++ {
		_, err := srvc.Execute("example", ctx, increment)
		if err != nil {
			panic("failed to execute: " + err.Error())
		}

		fmt.Println("accepted")
	}

	value, err := srvc.Query("example", &execution.QueryContext{Storage: ctx.Storage}, nil)
	if err != nil {
		panic("failed to query: " + err.Error())
	}

	fmt.Println(binary.LittleEndian.Uint64(value))

	// Output: accepted
	// accepted
	// 10
}

// exampleContract is an example contract that reads a counter value in the
// store and increase it with the increment in the message.
//
// - implements native.Contract
type exampleContract struct{}

// Instantiate implements native.Contract. It sets the counter to zero.
func (exampleContract) Instantiate(ctx *execution.Context, msg []byte) (execution.Response, error) {
	return execution.NewResponse(), ctx.Storage.Set([]byte("counter"), make([]byte, 8))
}

// Execute implements native.Contract. It increases the counter with the
// increment in the message.
func (exampleContract) Execute(ctx *execution.Context, msg []byte) (execution.Response, error) {
	value, err := ctx.Storage.Get([]byte("counter"))
	if err != nil {
		return execution.Response{}, err
	}

	counter := binary.LittleEndian.Uint64(value) + binary.LittleEndian.Uint64(msg)

	buffer := make([]byte, 8)
	binary.LittleEndian.PutUint64(buffer, counter)

	return execution.NewResponse(), ctx.Storage.Set([]byte("counter"), buffer)
}

// Query implements native.Contract. It returns the raw counter.
func (exampleContract) Query(ctx *execution.QueryContext, msg []byte) ([]byte, error) {
	return ctx.Storage.Get([]byte("counter"))
}
