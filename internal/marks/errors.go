package marks

import "fmt"

// ErrValidation indicates a malformed or missing parameter. It is always
// returned before the store is touched.
type ErrValidation struct {
	Op     Operation
	Reason string
	Err    error
}

func (e *ErrValidation) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *ErrValidation) Unwrap() error { return e.Err }

// ErrQuery indicates the store failed to run an operation.
type ErrQuery struct {
	Op  Operation
	Err error
}

func (e *ErrQuery) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ErrQuery) Unwrap() error { return e.Err }

// ErrBatch reports a grade recompute batch that stopped part way. The first
// Done writes were committed before Err occurred.
type ErrBatch struct {
	Done  int
	Total int
	Err   error
}

func (e *ErrBatch) Error() string {
	return fmt.Sprintf("recompute stopped after %d of %d records: %v", e.Done, e.Total, e.Err)
}

func (e *ErrBatch) Unwrap() error { return e.Err }
