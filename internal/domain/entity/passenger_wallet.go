package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PassengerWallet accumulates unclaimed late-flight payouts for one passenger
type PassengerWallet struct {
	Address common.Address
	Balance *big.Int
}

// NewPassengerWallet creates an empty wallet
func NewPassengerWallet(address common.Address) *PassengerWallet {
	return &PassengerWallet{
		Address: address,
		Balance: new(big.Int),
	}
}

// Credit adds the late-flight payout for an insured amount: 1.5x the premium
func (w *PassengerWallet) Credit(insuredAmount *big.Int) {
	payout := new(big.Int).Mul(insuredAmount, big.NewInt(3))
	payout.Div(payout, big.NewInt(2))
	w.Balance.Add(w.Balance, payout)
}

// Reset zeroes the balance after a confirmed withdrawal
func (w *PassengerWallet) Reset() {
	w.Balance = new(big.Int)
}

// Copy returns a copy of the wallet
func (w *PassengerWallet) Copy() *PassengerWallet {
	return &PassengerWallet{
		Address: w.Address,
		Balance: new(big.Int).Set(w.Balance),
	}
}
