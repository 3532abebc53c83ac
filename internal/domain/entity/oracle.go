package entity

import "github.com/ethereum/go-ethereum/common"

// Oracle represents one off-chain oracle worker and the partition indexes
// the backend assigned to it at registration
type Oracle struct {
	Address      common.Address
	Indexes      [3]uint8
	StatusCode   StatusCode
	IsRegistered bool
}

// IsAssigned reports whether the worker holds the given partition index and
// is therefore eligible to answer requests carrying it
func (o *Oracle) IsAssigned(index uint8) bool {
	for _, assigned := range o.Indexes {
		if assigned == index {
			return true
		}
	}
	return false
}
