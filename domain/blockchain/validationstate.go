// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/pkg/errors"
)

// ValidationState collects the outcome of a single validation pass over a
// block or transaction. The zero value reports valid. The first recorded
// failure sticks; later failures never overwrite the code or reason, which
// matches the short-circuit order of the checks that feed it. A state is
// meant for one validation call and must not be shared between goroutines.
type ValidationState struct {
	invalid bool
	code    RejectCode
	reason  string
	err     error
}

// Invalid records a rule violation with the given code and human-readable
// reason. It returns false so rule checks can report and bail out in a
// single statement.
func (state *ValidationState) Invalid(code RejectCode, reason string) bool {
	return state.record(code, reason, ruleError(code, reason))
}

// recordRuleError files err into the state. A RuleError anywhere in err's
// chain keeps its own code; any other error is filed as ErrInternal since a
// non-rule failure during validation means a bug rather than a bad block.
func (state *ValidationState) recordRuleError(err error) bool {
	var ruleErr RuleError
	if errors.As(err, &ruleErr) {
		return state.record(ruleErr.Code, ruleErr.Description, err)
	}
	return state.record(ErrInternal, err.Error(), err)
}

// record files the failure unless an earlier one already did.
func (state *ValidationState) record(code RejectCode, reason string, err error) bool {
	if !state.invalid {
		state.invalid = true
		state.code = code
		state.reason = reason
		state.err = err
	}
	return false
}

// Valid returns whether no failure has been recorded.
func (state *ValidationState) Valid() bool {
	return !state.invalid
}

// RejectCode returns the code of the first recorded failure. It is the
// empty string while the state is valid.
func (state *ValidationState) RejectCode() RejectCode {
	return state.code
}

// RejectReason returns the human-readable reason of the first recorded
// failure, or an empty string while the state is valid.
func (state *ValidationState) RejectReason() string {
	return state.reason
}

// Err returns the error of the first recorded failure, or nil while the
// state is valid. The error is a RuleError, possibly wrapped, unless the
// failure was internal.
func (state *ValidationState) Err() error {
	return state.err
}
