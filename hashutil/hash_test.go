package hashutil_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/epfer-chain/sidechain/hashutil"
)

func TestHexDeterministic(t *testing.T) {
	a := hashutil.Hex("a", "b", "c")
	b := hashutil.Hex("a", "b", "c")
	require.Equal(t, a, b)
	require.Len(t, a, 64)
}

func TestHexIgnoresFraming(t *testing.T) {
	// "ab"+"c" concatenates to the same bytes as "a"+"bc"; Hex does not
	// guard against this, callers own framing. Documented by this test so
	// a future "fix" doesn't silently change every hash in the system.
	require.Equal(t, hashutil.Hex("ab", "c"), hashutil.Hex("a", "bc"))
}

func TestPairMatchesHex(t *testing.T) {
	require.Equal(t, hashutil.Hex("l", "r"), hashutil.Pair("l", "r"))
}
