// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "time"

// TimeSource provides the node's view of the current time. It is consulted
// when validating block timestamps against the future-drift bound. A
// deployment that tracks peer clock skew can inject an offset-adjusted
// source; the default source reads the system clock.
type TimeSource interface {
	// AdjustedTime returns the current time in Unix seconds.
	AdjustedTime() int64
}

// systemTimeSource reads the local system clock without adjustment.
type systemTimeSource struct{}

// AdjustedTime returns the current local time in Unix seconds.
func (systemTimeSource) AdjustedTime() int64 {
	return time.Now().Unix()
}

// NewTimeSource returns a time source backed by the local system clock.
func NewTimeSource() TimeSource {
	return systemTimeSource{}
}
