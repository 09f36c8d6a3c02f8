package execution

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResponse_AddAttribute(t *testing.T) {
	res := NewResponse()
	require.Empty(t, res.Attributes)

	first := res.AddAttribute("method", "increment")
	second := first.AddAttribute("owner", "alice")

	require.Len(t, first.Attributes, 1)
	require.Len(t, second.Attributes, 2)
	require.Equal(t, Attribute{Key: "owner", Value: "alice"}, second.Attributes[1])
}

func TestResponse_GetAttribute(t *testing.T) {
	res := NewResponse().AddAttribute("method", "reset")

	require.Equal(t, "reset", res.GetAttribute("method"))
	require.Equal(t, "", res.GetAttribute("unknown"))
}
