package txpect

const (
	notEmittedMsg = `Expected event "%s" to be emitted, but it wasn't`

	unknownEventMsg = `Expected event "%s" to be emitted, but it doesn't exist in the contract. ` +
		`Please make sure you've compiled its latest version before running the test`

	unknownNegatedMsg = `WARNING: Expected event "%s" NOT to be emitted. The event wasn't emitted ` +
		`because it doesn't exist in the contract. Please make sure you've compiled its latest ` +
		`version before running the test`

	negatedEmittedMsg = `Expected event "%s" NOT to be emitted, but it was`

	argCountMsg = `Expected "%s" event to have %d argument(s), but it has %d`

	noneOfManyMsg = `Specified args not emitted in any of %d emitted "%s" events`

	negatedWithArgsMsg = `Do not combine NotToEmit and WithArgs`

	danglingWithArgsMsg = `WithArgs must follow a ToEmit clause`

	invalidHashErr    = "invalid transaction hash: %s"
	invalidSubjectErr = "unsupported transaction subject type: %T"
	receiptTimeoutErr = "timed out waiting for receipt of transaction %s: %w"
	pendingSubjectErr = "could not resolve pending transaction: %w"
)

// AssertionError ... Mismatch between expected and observed on-chain event
// data. Any other error kind out of Check signals an environmental failure
// (transport, decoding) rather than a failed assertion.
type AssertionError struct {
	msg string
}

func (e *AssertionError) Error() string {
	return e.msg
}
