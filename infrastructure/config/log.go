package config

import (
	"github.com/meridiannet/meridiand/infrastructure/logger"
)

var log = logger.RegisterSubSystem(logger.SubsystemTags.CNFG)
