package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	ethevent "github.com/ethereum/go-ethereum/event"

	"flightsurety-relay/internal/domain/entity"
	"flightsurety-relay/internal/domain/event"
	"flightsurety-relay/internal/domain/fault"
	"flightsurety-relay/pkg/logger"
)

// Client talks to the FlightSurety app contract over an HTTP endpoint for
// calls and transactions and a websocket endpoint for the event stream. It
// implements both the SuretyBackend and the EventSource boundaries.
type Client struct {
	http       *ethclient.Client
	ws         *ethclient.Client
	appAddress common.Address
	chainID    *big.Int
	keys       map[common.Address]*ecdsa.PrivateKey
	logger     logger.Logger
}

// Dial connects to the node on both transports and resolves the chain ID.
// keys are the accounts this client may send transactions from.
func Dial(ctx context.Context, rpcURL, wsURL string, appAddress common.Address, keys []*ecdsa.PrivateKey, logger logger.Logger) (*Client, error) {
	httpClient, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to node: %w", err)
	}

	wsClient, err := ethclient.DialContext(ctx, wsURL)
	if err != nil {
		httpClient.Close()
		return nil, fmt.Errorf("failed to connect to node websocket: %w", err)
	}

	chainID, err := httpClient.ChainID(ctx)
	if err != nil {
		httpClient.Close()
		wsClient.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	keyring := make(map[common.Address]*ecdsa.PrivateKey, len(keys))
	for _, key := range keys {
		keyring[crypto.PubkeyToAddress(key.PublicKey)] = key
	}

	return &Client{
		http:       httpClient,
		ws:         wsClient,
		appAddress: appAddress,
		chainID:    chainID,
		keys:       keyring,
		logger:     logger,
	}, nil
}

// Close releases both node connections
func (c *Client) Close() {
	c.http.Close()
	c.ws.Close()
}

// Accounts returns the addresses the client holds keys for
func (c *Client) Accounts() []common.Address {
	addresses := make([]common.Address, 0, len(c.keys))
	for address := range c.keys {
		addresses = append(addresses, address)
	}
	return addresses
}

// IsOperational reports whether the contract accepts state changes
func (c *Client) IsOperational(ctx context.Context) (bool, error) {
	var operational bool
	if err := c.call(ctx, "isOperational", &operational); err != nil {
		return false, err
	}
	return operational, nil
}

// RegistrationFee returns the oracle registration fee in wei
func (c *Client) RegistrationFee(ctx context.Context) (*big.Int, error) {
	var fee *big.Int
	if err := c.call(ctx, "REGISTRATION_FEE", &fee); err != nil {
		return nil, err
	}
	return fee, nil
}

// OracleCount returns the number of oracles registered on chain
func (c *Client) OracleCount(ctx context.Context) (*big.Int, error) {
	var count *big.Int
	if err := c.call(ctx, "getOracleCount", &count); err != nil {
		return nil, err
	}
	return count, nil
}

// IsOracleRegistered reports whether the address is a registered oracle
func (c *Client) IsOracleRegistered(ctx context.Context, oracle common.Address) (bool, error) {
	var registered bool
	if err := c.call(ctx, "isOracleRegistered", &registered, oracle); err != nil {
		return false, err
	}
	return registered, nil
}

// OracleIndexes returns the partition indexes assigned to an oracle
func (c *Client) OracleIndexes(ctx context.Context, oracle common.Address) ([3]uint8, error) {
	var indexes [3]uint8
	if err := c.call(ctx, "getMyIndexes", &indexes, oracle); err != nil {
		return [3]uint8{}, err
	}
	return indexes, nil
}

// RegisterOracle submits an oracle registration paying the fee
func (c *Client) RegisterOracle(ctx context.Context, oracle common.Address, fee *big.Int) error {
	return c.transact(ctx, oracle, fee, "registerOracle")
}

// RegisterAirline registers an airline from the given sender
func (c *Client) RegisterAirline(ctx context.Context, from, airline common.Address) error {
	return c.transact(ctx, from, nil, "registerAirline", airline)
}

// PayAirlineRegistrationFee pays an airline's stake from its own account
func (c *Client) PayAirlineRegistrationFee(ctx context.Context, airline common.Address, amount *big.Int) error {
	return c.transact(ctx, airline, amount, "payAirlineRegistrationFee", airline)
}

// RegisterFlight registers a flight from the airline's account
func (c *Client) RegisterFlight(ctx context.Context, airline common.Address, flight string, timestamp *big.Int) error {
	return c.transact(ctx, airline, nil, "registerFlight", airline, flight, timestamp)
}

// InsurePassenger deposits insurance from the passenger's account
func (c *Client) InsurePassenger(ctx context.Context, passenger, airline common.Address, flight string, timestamp, amount *big.Int) error {
	return c.transact(ctx, passenger, amount, "insurePassenger", airline, flight, timestamp, amount)
}

// FetchFlightStatus opens an oracle request for the flight
func (c *Client) FetchFlightStatus(ctx context.Context, from, airline common.Address, flight string, timestamp *big.Int) error {
	return c.transact(ctx, from, nil, "fetchFlightStatus", airline, flight, timestamp)
}

// SubmitOracleResponse submits one worker's status claim
func (c *Client) SubmitOracleResponse(ctx context.Context, oracle common.Address, index uint8, airline common.Address, flight string, timestamp *big.Int, status entity.StatusCode) error {
	return c.transact(ctx, oracle, nil, "submitOracleResponse", index, airline, flight, timestamp, uint8(status))
}

// WithdrawBalance withdraws a passenger's accumulated payout balance
func (c *Client) WithdrawBalance(ctx context.Context, passenger common.Address) error {
	return c.transact(ctx, passenger, nil, "withdrawBalance", passenger)
}

// PastEvents replays the contract's event log from genesis to the latest
// block. Any fetch or decode failure aborts the whole replay.
func (c *Client) PastEvents(ctx context.Context) ([]event.Event, error) {
	logs, err := c.http.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: big.NewInt(0),
		Addresses: []common.Address{c.appAddress},
	})
	if err != nil {
		return nil, &fault.Transient{Op: "filter logs", Err: err}
	}

	events := make([]event.Event, 0, len(logs))
	for _, lg := range logs {
		evt, known, err := decodeLog(lg)
		if err != nil {
			return nil, err
		}
		if !known {
			continue
		}
		events = append(events, evt)
	}

	return events, nil
}

// Subscribe streams new contract events over the websocket connection. A
// malformed live log is logged and dropped; it cannot be retried.
func (c *Client) Subscribe(ctx context.Context, sink chan<- event.Event) (ethevent.Subscription, error) {
	logs := make(chan types.Log, 64)
	sub, err := c.ws.SubscribeFilterLogs(ctx, ethereum.FilterQuery{
		Addresses: []common.Address{c.appAddress},
	}, logs)
	if err != nil {
		return nil, &fault.Transient{Op: "subscribe logs", Err: err}
	}

	return ethevent.NewSubscription(func(quit <-chan struct{}) error {
		defer sub.Unsubscribe()
		for {
			select {
			case <-quit:
				return nil
			case err := <-sub.Err():
				return err
			case lg := <-logs:
				evt, known, err := decodeLog(lg)
				if err != nil {
					c.logger.Warn("Dropping malformed event log", "tx", lg.TxHash.Hex(), "error", err)
					continue
				}
				if !known {
					continue
				}
				select {
				case sink <- evt:
				case <-quit:
					return nil
				}
			}
		}
	}), nil
}

// call performs a read-only contract call and unpacks a single result
func (c *Client) call(ctx context.Context, method string, result interface{}, args ...interface{}) error {
	data, err := suretyABI.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("packing %s call: %w", method, err)
	}

	output, err := c.http.CallContract(ctx, ethereum.CallMsg{
		To:   &c.appAddress,
		Data: data,
	}, nil)
	if err != nil {
		return &fault.Transient{Op: method, Err: err}
	}

	values, err := suretyABI.Unpack(method, output)
	if err != nil {
		return fmt.Errorf("unpacking %s result: %w", method, err)
	}
	if len(values) != 1 {
		return fmt.Errorf("unexpected %s result arity %d", method, len(values))
	}

	return abiAssign(result, values[0])
}

// transact signs and submits a transaction from the given sender and waits
// for it to be mined. A mined-but-reverted transaction is a Rejection, a
// transport failure a Transient; nothing is ever retried here.
func (c *Client) transact(ctx context.Context, from common.Address, value *big.Int, method string, args ...interface{}) error {
	key, ok := c.keys[from]
	if !ok {
		return fmt.Errorf("no key for sender %s", from.Hex())
	}

	data, err := suretyABI.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("packing %s: %w", method, err)
	}

	nonce, err := c.http.PendingNonceAt(ctx, from)
	if err != nil {
		return &fault.Transient{Op: method, Err: err}
	}

	msg := ethereum.CallMsg{
		From:  from,
		To:    &c.appAddress,
		Value: value,
		Data:  data,
	}

	gasLimit, err := c.http.EstimateGas(ctx, msg)
	if err != nil {
		// Estimation runs the call; a revert surfaces here with the
		// contract's require reason.
		if strings.Contains(err.Error(), "revert") {
			return &fault.Rejection{Op: method, Reason: err.Error()}
		}
		return &fault.Transient{Op: method, Err: err}
	}

	gasTipCap, err := c.http.SuggestGasTipCap(ctx)
	if err != nil {
		return &fault.Transient{Op: method, Err: err}
	}

	gasFeeCap, err := c.http.SuggestGasPrice(ctx)
	if err != nil {
		return &fault.Transient{Op: method, Err: err}
	}

	tx := &types.DynamicFeeTx{
		ChainID:   c.chainID,
		Nonce:     nonce,
		Gas:       gasLimit,
		To:        &c.appAddress,
		Value:     value,
		Data:      data,
		GasTipCap: gasTipCap,
		GasFeeCap: gasFeeCap,
	}

	signer := types.LatestSignerForChainID(c.chainID)
	signedTx, err := types.SignNewTx(key, signer, tx)
	if err != nil {
		return fmt.Errorf("signing %s transaction: %w", method, err)
	}

	if err := c.http.SendTransaction(ctx, signedTx); err != nil {
		return &fault.Transient{Op: method, Err: err}
	}

	receipt, err := bind.WaitMined(ctx, c.http, signedTx)
	if err != nil {
		return &fault.Transient{Op: method, Err: err}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return &fault.Rejection{Op: method, Reason: fmt.Sprintf("transaction %s reverted", signedTx.Hash().Hex())}
	}

	return nil
}

// abiAssign copies an unpacked ABI value into a typed destination
func abiAssign(dst, src interface{}) error {
	switch d := dst.(type) {
	case *bool:
		v, ok := src.(bool)
		if !ok {
			return fmt.Errorf("expected bool result, got %T", src)
		}
		*d = v
	case **big.Int:
		v, ok := src.(*big.Int)
		if !ok {
			return fmt.Errorf("expected uint256 result, got %T", src)
		}
		*d = v
	case *[3]uint8:
		v, ok := src.([3]uint8)
		if !ok {
			return fmt.Errorf("expected uint8[3] result, got %T", src)
		}
		*d = v
	default:
		return fmt.Errorf("unsupported result type %T", dst)
	}
	return nil
}
