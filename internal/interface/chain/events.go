package chain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"flightsurety-relay/internal/domain/entity"
	"flightsurety-relay/internal/domain/event"
)

// decodeLog turns a raw contract log into a typed domain event. Logs whose
// topic0 matches no known event return ok=false; logs that match a known
// event but carry a malformed payload return an error rather than a
// zero-filled event.
func decodeLog(log types.Log) (evt event.Event, ok bool, err error) {
	if len(log.Topics) == 0 {
		return nil, false, nil
	}

	abiEvent, known := eventsByID[log.Topics[0]]
	if !known {
		return nil, false, nil
	}

	values, err := abiEvent.Inputs.Unpack(log.Data)
	if err != nil {
		return nil, true, fmt.Errorf("unpacking %s log: %w", abiEvent.Name, err)
	}
	fields := &fieldReader{event: abiEvent.Name, values: values}

	switch abiEvent.Name {
	case "FirstAirlineRegistered":
		evt = event.FirstAirlineRegistered{Airline: fields.address(0)}
	case "AirlineRegistered":
		evt = event.AirlineRegistered{Airline: fields.address(0)}
	case "AirlineFeeConfirmed":
		evt = event.AirlineFeeConfirmed{Airline: fields.address(0)}
	case "FlightRegistered":
		evt = event.FlightRegistered{
			Airline:   fields.address(0),
			Flight:    fields.str(1),
			Key:       fields.hash(2),
			Timestamp: fields.bigInt(3),
		}
	case "FlightStatusInfo":
		evt = event.FlightStatusInfo{
			Airline:   fields.address(0),
			Flight:    fields.str(1),
			Timestamp: fields.bigInt(2),
			Status:    entity.StatusCode(fields.uint8(3)),
		}
	case "InsurancePurchased":
		evt = event.InsurancePurchased{
			Passenger: fields.address(0),
			Key:       fields.hash(1),
			Amount:    fields.bigInt(2),
		}
	case "LateAirlineInsuranceProcessed":
		evt = event.LateInsuranceProcessed{Key: fields.hash(0)}
	case "WithdrawalConfirmed":
		evt = event.WithdrawalConfirmed{Passenger: fields.address(0)}
	case "OracleRequest":
		evt = event.OracleRequest{
			Index:     fields.uint8(0),
			Airline:   fields.address(1),
			Flight:    fields.str(2),
			Timestamp: fields.bigInt(3),
			Key:       fields.hash(4),
		}
	case "OracleReport":
		evt = event.OracleReport{
			Airline:   fields.address(0),
			Flight:    fields.str(1),
			Timestamp: fields.bigInt(2),
			Status:    entity.StatusCode(fields.uint8(3)),
		}
	default:
		return nil, false, nil
	}

	if fields.err != nil {
		return nil, true, fields.err
	}
	return evt, true, nil
}

// fieldReader reads positional unpacked values with explicit type checks,
// collecting the first mismatch instead of panicking
type fieldReader struct {
	event  string
	values []interface{}
	err    error
}

func (f *fieldReader) value(i int) interface{} {
	if f.err != nil {
		return nil
	}
	if i >= len(f.values) {
		f.err = fmt.Errorf("%s log: missing field %d", f.event, i)
		return nil
	}
	return f.values[i]
}

func (f *fieldReader) address(i int) common.Address {
	v, ok := f.value(i).(common.Address)
	if !ok {
		f.fail(i, "address")
	}
	return v
}

func (f *fieldReader) hash(i int) common.Hash {
	v, ok := f.value(i).([32]byte)
	if !ok {
		f.fail(i, "bytes32")
	}
	return common.Hash(v)
}

func (f *fieldReader) str(i int) string {
	v, ok := f.value(i).(string)
	if !ok {
		f.fail(i, "string")
	}
	return v
}

func (f *fieldReader) bigInt(i int) *big.Int {
	v, ok := f.value(i).(*big.Int)
	if !ok {
		f.fail(i, "uint256")
		return new(big.Int)
	}
	return v
}

func (f *fieldReader) uint8(i int) uint8 {
	v, ok := f.value(i).(uint8)
	if !ok {
		f.fail(i, "uint8")
	}
	return v
}

func (f *fieldReader) fail(i int, want string) {
	if f.err == nil {
		f.err = fmt.Errorf("%s log: field %d is not %s", f.event, i, want)
	}
}
