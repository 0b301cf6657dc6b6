// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/meridiannet/meridiand/infrastructure/logger"
)

var log = logger.RegisterSubSystem(logger.SubsystemTags.BCHN)
