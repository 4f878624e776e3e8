package utils_test

import (
	"testing"

	"github.com/nlouis56/convivio-web/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestStringsFromClaim(t *testing.T) {
	require.Equal(t, []string{"USER", "ADMIN"}, utils.StringsFromClaim([]any{"USER", 3, "ADMIN"}))
	require.Equal(t, []string{"USER"}, utils.StringsFromClaim([]string{"USER"}))
	require.Nil(t, utils.StringsFromClaim("USER"))
	require.Nil(t, utils.StringsFromClaim(nil))
}

func TestPtr(t *testing.T) {
	name := "alice"
	p := utils.Ptr(name)
	require.Equal(t, "alice", *p)

	*p = "bob"
	require.Equal(t, "alice", name)
}
