package e2e

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"

	"github.com/txpect/txpect"
	"github.com/txpect/txpect/internal/client"
	"github.com/txpect/txpect/internal/fixtures"
	"github.com/txpect/txpect/internal/logging"
)

const (
	// deployGas ... Gas limit used for fixture deployments and invocations
	deployGas = uint64(2_000_000)

	// deployWait ... Ceiling on waiting for a fixture deployment receipt
	deployWait = 60 * time.Second
)

// NodeClient ... Superset of the assertion client surface needed to drive a
// chain from the suite: nonce/fee discovery and transaction submission
type NodeClient interface {
	client.EthClient

	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// TestSuite ... Stores all the information needed to run an emit matcher
// suite against one environment (embedded simulator or remote node)
type TestSuite struct {
	t *testing.T

	Client  NodeClient
	ChainID *big.Int

	Key  *ecdsa.PrivateKey
	From common.Address

	// Deployed fixtures
	Emitter *txpect.Contract
	Nested  *txpect.Contract

	// Mines pending transactions; nil against a remote node
	commit func()

	Close func()
}

// CreateSimTestSuite ... Boots an in-process simulated chain, funds a dev
// account and deploys both fixture contracts
func CreateSimTestSuite(t *testing.T) *TestSuite {
	logging.New("development")

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	from := crypto.PubkeyToAddress(key.PublicKey)
	balance := new(big.Int).Mul(big.NewInt(1000), big.NewInt(params.Ether))

	backend := simulated.NewBackend(types.GenesisAlloc{
		from: {Balance: balance},
	})

	suite := &TestSuite{
		t:      t,
		Client: backend.Client(),
		Key:    key,
		From:   from,
		commit: func() {
			backend.Commit()
		},
		Close: func() {
			_ = backend.Close()
		},
	}

	suite.init()
	return suite
}

// CreateRemoteTestSuite ... Connects to an externally running node process.
// Skips unless RPC_ENDPOINT and REMOTE_PRIVATE_KEY are configured.
func CreateRemoteTestSuite(t *testing.T) *TestSuite {
	endpoint := os.Getenv("RPC_ENDPOINT")
	if endpoint == "" {
		t.Skip("RPC_ENDPOINT not set; skipping remote node suite")
	}

	keyHex := os.Getenv("REMOTE_PRIVATE_KEY")
	if keyHex == "" {
		t.Skip("REMOTE_PRIVATE_KEY not set; skipping remote node suite")
	}

	logging.New("development")

	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		t.Fatal(err)
	}

	ethClient, err := ethclient.DialContext(context.Background(), endpoint)
	if err != nil {
		t.Fatal(err)
	}

	suite := &TestSuite{
		t:      t,
		Client: ethClient,
		Key:    key,
		From:   crypto.PubkeyToAddress(key.PublicKey),
		Close: func() {
			ethClient.Close()
		},
	}

	suite.init()
	return suite
}

// init ... Resolves the chain id and deploys the fixture contracts
func (ts *TestSuite) init() {
	ctx := context.Background()

	chainID, err := ts.Client.ChainID(ctx)
	if err != nil {
		ts.t.Fatal(err)
	}
	ts.ChainID = chainID

	ts.Emitter = txpect.NewContract(ts.deploy(fixtures.EmitterBytecode()), fixtures.EmitterABI)
	ts.Nested = txpect.NewContract(ts.deploy(fixtures.NestedBytecode()), fixtures.NestedABI)
}

// deploy ... Sends creation code and waits for the contract address
func (ts *TestSuite) deploy(bytecode []byte) common.Address {
	tx := ts.send(nil, bytecode)

	ctx, cancel := context.WithTimeout(context.Background(), deployWait)
	defer cancel()

	for {
		receipt, err := ts.Client.TransactionReceipt(ctx, tx.Hash())
		if err == nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				ts.t.Fatalf("fixture deployment reverted: %s", tx.Hash().Hex())
			}
			return receipt.ContractAddress
		}

		select {
		case <-ctx.Done():
			ts.t.Fatalf("timed out deploying fixture: %s", tx.Hash().Hex())
		case <-time.After(250 * time.Millisecond):
		}
	}
}

// Invoke ... Calls a method on the Emitter fixture and returns the sent tx
func (ts *TestSuite) Invoke(method string, args ...interface{}) *types.Transaction {
	data, err := fixtures.EmitterABI.Pack(method, args...)
	if err != nil {
		ts.t.Fatal(err)
	}

	return ts.send(&ts.Emitter.Address, data)
}

// send ... Signs and submits a dynamic fee transaction, mining it when the
// suite owns the chain
func (ts *TestSuite) send(to *common.Address, data []byte) *types.Transaction {
	ctx := context.Background()

	nonce, err := ts.Client.PendingNonceAt(ctx, ts.From)
	if err != nil {
		ts.t.Fatal(err)
	}

	tip, err := ts.Client.SuggestGasTipCap(ctx)
	if err != nil {
		ts.t.Fatal(err)
	}

	head, err := ts.Client.HeaderByNumber(ctx, nil)
	if err != nil {
		ts.t.Fatal(err)
	}

	feeCap := new(big.Int).Set(tip)
	if head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}

	tx := types.MustSignNewTx(ts.Key, types.LatestSignerForChainID(ts.ChainID), &types.DynamicFeeTx{
		ChainID:   ts.ChainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       deployGas,
		To:        to,
		Data:      data,
	})

	if err := ts.Client.SendTransaction(ctx, tx); err != nil {
		ts.t.Fatal(err)
	}

	if ts.commit != nil {
		ts.commit()
	}

	return tx
}
