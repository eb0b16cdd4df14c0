// Package txpect asserts contract event emissions against finalized
// transactions. An Expectation wraps a transaction subject, accumulates emit
// clauses and evaluates them all against the transaction's receipt logs.
package txpect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/txpect/txpect/internal/client"
	"github.com/txpect/txpect/internal/decode"
	"github.com/txpect/txpect/internal/logging"
	"github.com/txpect/txpect/internal/match"
)

// Anything ... Wildcard argument accepted by WithArgs
var Anything = match.Anything

// receiptPollInterval ... Delay between receipt lookups for not yet mined subjects
const receiptPollInterval = 250 * time.Millisecond

// Contract ... Handle pairing a deployed address with its interface description
type Contract struct {
	Address common.Address
	ABI     abi.ABI
}

// NewContract ... Initializer
func NewContract(address common.Address, cabi abi.ABI) *Contract {
	return &Contract{
		Address: address,
		ABI:     cabi,
	}
}

// TxFunc ... Pending transaction form of an expectation subject
type TxFunc func(ctx context.Context) (*types.Transaction, error)

// emitClause ... One emit assertion against the subject transaction
type emitClause struct {
	contract *Contract
	event    string
	negated  bool

	args    []interface{}
	hasArgs bool
}

// Expectation ... Accumulated emit assertions for one transaction subject.
// The receipt is resolved once and cached, so repeated Check calls against
// the same subject yield identical results.
type Expectation struct {
	client  client.EthClient
	subject interface{}

	receipt *types.Receipt
	clauses []*emitClause

	// Construction faults (eg. WithArgs on a negated clause) surface at Check
	err error
}

// Expect ... Starts an expectation for a transaction subject. The subject may
// be a *types.Transaction, a common.Hash, a 0x prefixed hash string or a
// TxFunc yielding the transaction once sent.
func Expect(ethClient client.EthClient, subject interface{}) *Expectation {
	return &Expectation{
		client:  ethClient,
		subject: subject,
	}
}

// ToEmit ... Asserts that the subject emitted the named event on the contract
func (e *Expectation) ToEmit(contract *Contract, event string) *Expectation {
	e.clauses = append(e.clauses, &emitClause{
		contract: contract,
		event:    event,
	})

	return e
}

// AndEmit ... Chains an additional emit assertion onto the same transaction
func (e *Expectation) AndEmit(contract *Contract, event string) *Expectation {
	return e.ToEmit(contract, event)
}

// NotToEmit ... Asserts that the subject did not emit the named event
func (e *Expectation) NotToEmit(contract *Contract, event string) *Expectation {
	e.clauses = append(e.clauses, &emitClause{
		contract: contract,
		event:    event,
		negated:  true,
	})

	return e
}

// WithArgs ... Refines the most recent emit clause with expected argument
// values. Values match under deep structural equality; indexed dynamic
// parameters match by raw value or precomputed keccak hash; Anything matches
// any single value.
func (e *Expectation) WithArgs(args ...interface{}) *Expectation {
	if len(e.clauses) == 0 {
		e.fault(&AssertionError{msg: danglingWithArgsMsg})
		return e
	}

	clause := e.clauses[len(e.clauses)-1]
	if clause.negated {
		e.fault(&AssertionError{msg: negatedWithArgsMsg})
		return e
	}

	clause.args = args
	clause.hasArgs = true

	return e
}

// Check ... Resolves the subject's receipt and evaluates every clause.
// Assertion failures are returned as *AssertionError values.
func (e *Expectation) Check(ctx context.Context) error {
	if e.err != nil {
		return e.err
	}

	receipt, err := e.resolve(ctx)
	if err != nil {
		return err
	}

	for _, clause := range e.clauses {
		if err := evalClause(receipt, clause); err != nil {
			return err
		}
	}

	return nil
}

// Assert ... Testing adapter; reports a Check failure on t and returns
// whether the expectation held
func (e *Expectation) Assert(t interface {
	Errorf(format string, args ...interface{})
}) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	if err := e.Check(context.Background()); err != nil {
		t.Errorf("%s", err.Error())
		return false
	}

	return true
}

// fault ... Records the first construction fault
func (e *Expectation) fault(err error) {
	if e.err == nil {
		e.err = err
	}
}

// resolve ... Produces the receipt for the subject, caching the first result
func (e *Expectation) resolve(ctx context.Context) (*types.Receipt, error) {
	if e.receipt != nil {
		return e.receipt, nil
	}

	hash, err := e.subjectHash(ctx)
	if err != nil {
		return nil, err
	}

	receipt, err := e.waitReceipt(ctx, hash)
	if err != nil {
		return nil, err
	}

	logging.NoContext().Debug("Resolved transaction receipt",
		zap.String("tx_hash", hash.Hex()),
		zap.Int("log_count", len(receipt.Logs)))

	e.receipt = receipt
	return receipt, nil
}

// subjectHash ... Normalizes the subject forms down to a transaction hash
func (e *Expectation) subjectHash(ctx context.Context) (common.Hash, error) {
	switch subject := e.subject.(type) {
	case *types.Transaction:
		return subject.Hash(), nil

	case common.Hash:
		return subject, nil

	case [32]byte:
		return common.Hash(subject), nil

	case string:
		raw, err := hexutil.Decode(subject)
		if err != nil || len(raw) != common.HashLength {
			return common.Hash{}, fmt.Errorf(invalidHashErr, subject)
		}
		return common.BytesToHash(raw), nil

	case TxFunc:
		tx, err := subject(ctx)
		if err != nil {
			return common.Hash{}, fmt.Errorf(pendingSubjectErr, err)
		}
		return tx.Hash(), nil

	case func(ctx context.Context) (*types.Transaction, error):
		return Expect(e.client, TxFunc(subject)).subjectHash(ctx)
	}

	return common.Hash{}, fmt.Errorf(invalidSubjectErr, e.subject)
}

// waitReceipt ... Polls for the receipt until found or the context expires
func (e *Expectation) waitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := e.client.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}

		if !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf(receiptTimeoutErr, hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// evalClause ... Evaluates one emit clause against the receipt logs
func evalClause(receipt *types.Receipt, clause *emitClause) error {
	event, known := decode.EventByName(clause.contract.ABI, clause.event)
	if !known {
		if clause.negated {
			return &AssertionError{msg: fmt.Sprintf(unknownNegatedMsg, clause.event)}
		}

		return &AssertionError{msg: fmt.Sprintf(unknownEventMsg, clause.event)}
	}

	logs := decode.EmittedBy(receipt.Logs, clause.contract.Address, event)

	if clause.negated {
		if len(logs) > 0 {
			return &AssertionError{msg: fmt.Sprintf(negatedEmittedMsg, clause.event)}
		}

		return nil
	}

	if len(logs) == 0 {
		return &AssertionError{msg: fmt.Sprintf(notEmittedMsg, clause.event)}
	}

	if !clause.hasArgs {
		return nil
	}

	if len(clause.args) != len(event.Inputs) {
		return &AssertionError{
			msg: fmt.Sprintf(argCountMsg, clause.event, len(clause.args), len(event.Inputs)),
		}
	}

	var firstMismatch error

	for _, log := range logs {
		decoded, err := decode.Log(event, log)
		if err != nil {
			return err
		}

		mismatch := matchArgs(clause.args, decoded, event)
		if mismatch == nil {
			return nil
		}

		if firstMismatch == nil {
			firstMismatch = mismatch
		}
	}

	// A lone emission reports the positional mismatch; multiple emissions
	// report that none of them carried the specified args
	if len(logs) == 1 {
		return &AssertionError{msg: firstMismatch.Error()}
	}

	return &AssertionError{
		msg: fmt.Sprintf(noneOfManyMsg, len(logs), clause.event),
	}
}

// matchArgs ... Positional match of expected args against one decoded emission
func matchArgs(expected []interface{}, decoded *decode.Event, event abi.Event) error {
	for i, exp := range expected {
		if err := match.Argument(exp, decoded.Args[i], event.Inputs[i]); err != nil {
			return err
		}
	}

	return nil
}
