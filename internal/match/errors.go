package match

const (
	notEqualErr     = "expected %s to equal %s"
	lengthErr       = "expected %s to equal %s; lengths differ (%d != %d)"
	badHashMatchErr = "cannot match an indexed dynamic argument against a %T value; pass the raw value or its keccak hash"
	badExpectedErr  = "unsupported expected value of type %T for decoded %T argument"
)
