// Copyright (c) 2013-2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

const (
	// MitePerMeridianCent is the number of mite in one meridian cent.
	MitePerMeridianCent = 1e6

	// MitePerMeridian is the number of mite in one meridian (1 MERD).
	MitePerMeridian = 1e8

	// MaxMite is the maximum transaction amount allowed in mite.
	MaxMite = 2718281828 * MitePerMeridian
)
