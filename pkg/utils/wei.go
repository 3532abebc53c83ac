package utils

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/params"
)

// ToWei converts a decimal ether amount such as "1.5" into wei
func ToWei(ether string) (*big.Int, error) {
	amount, ok := new(big.Float).SetString(ether)
	if !ok {
		return nil, fmt.Errorf("invalid ether amount %q", ether)
	}

	wei, _ := new(big.Float).Mul(amount, big.NewFloat(params.Ether)).Int(nil)
	if wei.Sign() < 0 {
		return nil, fmt.Errorf("negative ether amount %q", ether)
	}

	return wei, nil
}

// FromWei renders a wei amount as a decimal ether string
func FromWei(wei *big.Int) string {
	if wei == nil {
		return "0"
	}

	ether := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.Ether))
	return ether.Text('f', -1)
}
