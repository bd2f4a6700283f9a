package run

import "errors"

// Teardown collects errors from shutdown steps. Every step runs even
// when an earlier one fails; the combined error reports them all.
type Teardown struct {
	err error
}

// Add records err. nil is ignored.
func (t *Teardown) Add(err error) {
	t.err = errors.Join(t.err, err)
}

// Err returns the combined error, or nil when every step succeeded.
func (t *Teardown) Err() error {
	return t.err
}
