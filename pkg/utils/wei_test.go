package utils_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightsurety-relay/pkg/utils"
)

func TestToWei(t *testing.T) {
	wei, err := utils.ToWei("1.5")
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000000", wei.String())

	wei, err = utils.ToWei("10")
	require.NoError(t, err)
	assert.Equal(t, "10000000000000000000", wei.String())
}

func TestToWeiRejectsBadInput(t *testing.T) {
	_, err := utils.ToWei("ten")
	assert.Error(t, err)

	_, err = utils.ToWei("-1")
	assert.Error(t, err)
}

func TestFromWei(t *testing.T) {
	wei, ok := new(big.Int).SetString("1500000000000000000", 10)
	require.True(t, ok)

	assert.Equal(t, "1.5", utils.FromWei(wei))
	assert.Equal(t, "0", utils.FromWei(nil))
}
