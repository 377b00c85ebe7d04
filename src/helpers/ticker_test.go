package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTickerAccepts(t *testing.T) {
	for _, ticker := range []string{"AAPL", "BTC-USD", "^GSPC", "EURUSD=X", "BRK.B", "gm"} {
		assert.NoError(t, ValidateTicker(ticker), ticker)
	}
}

func TestValidateTickerRejects(t *testing.T) {
	for _, ticker := range []string{"", "AAPL/../x", "A B", "AAPL?x=1", "ÄPFEL", "ABCDEFGHIJKLMNOP"} {
		err := ValidateTicker(ticker)
		require.Error(t, err, ticker)
		assert.True(t, IsValidationError(err), ticker)
	}
}

func TestEncodeTicker(t *testing.T) {
	encoded, err := EncodeTicker("^GSPC")
	require.NoError(t, err)
	assert.Equal(t, "%5EGSPC", encoded)

	encoded, err = EncodeTicker("BTC-USD")
	require.NoError(t, err)
	assert.Equal(t, "BTC-USD", encoded)

	_, err = EncodeTicker("a/b")
	assert.Error(t, err)
}

func TestJoinEndpoint(t *testing.T) {
	assert.Equal(t, "http://h/get-volume/AAPL", JoinEndpoint("http://h/get-volume", "AAPL"))
	assert.Equal(t, "http://h/get-volume/AAPL", JoinEndpoint("http://h/get-volume/", "AAPL"))
}
