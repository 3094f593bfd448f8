package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	digest, err := Password("qwerty123")
	require.NoError(t, err)
	require.NotEqual(t, "qwerty123", string(digest))

	require.True(t, Verify("qwerty123", digest))
	require.False(t, Verify("qwerty124", digest))
}

func TestVerifyMalformedDigest(t *testing.T) {
	t.Parallel()

	require.False(t, Verify("anything", []byte("not-a-bcrypt-digest")))
}

func TestPasswordDigestsAreSalted(t *testing.T) {
	t.Parallel()

	d1, err := Password("same-password")
	require.NoError(t, err)
	d2, err := Password("same-password")
	require.NoError(t, err)

	require.NotEqual(t, d1, d2)
}
