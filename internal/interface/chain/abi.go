package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// suretyAppABI is the interface of the FlightSurety app contract: the calls
// and commands of the backend boundary plus every domain event it emits.
const suretyAppABI = `[
	{"type":"function","name":"isOperational","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"REGISTRATION_FEE","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getOracleCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"isOracleRegistered","stateMutability":"view","inputs":[{"name":"oracle","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"getMyIndexes","stateMutability":"view","inputs":[{"name":"oracle","type":"address"}],"outputs":[{"name":"","type":"uint8[3]"}]},
	{"type":"function","name":"registerOracle","stateMutability":"payable","inputs":[],"outputs":[]},
	{"type":"function","name":"registerAirline","stateMutability":"nonpayable","inputs":[{"name":"airlineAddress","type":"address"}],"outputs":[]},
	{"type":"function","name":"payAirlineRegistrationFee","stateMutability":"payable","inputs":[{"name":"airlineAddress","type":"address"}],"outputs":[]},
	{"type":"function","name":"registerFlight","stateMutability":"nonpayable","inputs":[{"name":"airlineAddress","type":"address"},{"name":"flight","type":"string"},{"name":"timestamp","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"insurePassenger","stateMutability":"payable","inputs":[{"name":"airlineAddress","type":"address"},{"name":"flight","type":"string"},{"name":"timestamp","type":"uint256"},{"name":"amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"fetchFlightStatus","stateMutability":"nonpayable","inputs":[{"name":"airlineAddress","type":"address"},{"name":"flight","type":"string"},{"name":"timestamp","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"submitOracleResponse","stateMutability":"nonpayable","inputs":[{"name":"index","type":"uint8"},{"name":"airlineAddress","type":"address"},{"name":"flight","type":"string"},{"name":"timestamp","type":"uint256"},{"name":"statusCode","type":"uint8"}],"outputs":[]},
	{"type":"function","name":"withdrawBalance","stateMutability":"nonpayable","inputs":[{"name":"passenger","type":"address"}],"outputs":[]},

	{"type":"event","name":"FirstAirlineRegistered","anonymous":false,"inputs":[{"name":"airlineAddress","type":"address","indexed":false}]},
	{"type":"event","name":"AirlineRegistered","anonymous":false,"inputs":[{"name":"airlineAddress","type":"address","indexed":false}]},
	{"type":"event","name":"AirlineFeeConfirmed","anonymous":false,"inputs":[{"name":"airlineAddress","type":"address","indexed":false}]},
	{"type":"event","name":"FlightRegistered","anonymous":false,"inputs":[{"name":"airlineAddress","type":"address","indexed":false},{"name":"flight","type":"string","indexed":false},{"name":"key","type":"bytes32","indexed":false},{"name":"timestamp","type":"uint256","indexed":false}]},
	{"type":"event","name":"FlightStatusInfo","anonymous":false,"inputs":[{"name":"airline","type":"address","indexed":false},{"name":"flight","type":"string","indexed":false},{"name":"timestamp","type":"uint256","indexed":false},{"name":"status","type":"uint8","indexed":false}]},
	{"type":"event","name":"InsurancePurchased","anonymous":false,"inputs":[{"name":"passenger","type":"address","indexed":false},{"name":"key","type":"bytes32","indexed":false},{"name":"depositedAmount","type":"uint256","indexed":false}]},
	{"type":"event","name":"LateAirlineInsuranceProcessed","anonymous":false,"inputs":[{"name":"key","type":"bytes32","indexed":false}]},
	{"type":"event","name":"WithdrawalConfirmed","anonymous":false,"inputs":[{"name":"passenger","type":"address","indexed":false}]},
	{"type":"event","name":"OracleRequest","anonymous":false,"inputs":[{"name":"index","type":"uint8","indexed":false},{"name":"airline","type":"address","indexed":false},{"name":"flight","type":"string","indexed":false},{"name":"timestamp","type":"uint256","indexed":false},{"name":"key","type":"bytes32","indexed":false}]},
	{"type":"event","name":"OracleReport","anonymous":false,"inputs":[{"name":"airline","type":"address","indexed":false},{"name":"flight","type":"string","indexed":false},{"name":"timestamp","type":"uint256","indexed":false},{"name":"status","type":"uint8","indexed":false}]}
]`

var (
	suretyABI abi.ABI

	// eventsByID maps a log's topic0 to the ABI event it encodes
	eventsByID map[common.Hash]abi.Event
)

func init() {
	parsed, err := abi.JSON(strings.NewReader(suretyAppABI))
	if err != nil {
		panic("chain: invalid surety app ABI: " + err.Error())
	}
	suretyABI = parsed

	eventsByID = make(map[common.Hash]abi.Event, len(suretyABI.Events))
	for _, ev := range suretyABI.Events {
		eventsByID[ev.ID] = ev
	}
}
