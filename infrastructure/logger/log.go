// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package logger

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// BackendLog is the logging backend used to create all subsystem loggers.
var BackendLog = NewBackend()

var (
	// subsystemLoggers maps each subsystem identifier to its associated
	// logger.
	subsystemLoggers      = make(map[string]*Logger)
	subsystemLoggersMutex sync.Mutex
)

// SubsystemTags is an enum of the loggable subsystems.
var SubsystemTags = struct {
	CNFG,
	BCHN,
	WLLT string
}{
	CNFG: "CNFG",
	BCHN: "BCHN",
	WLLT: "WLLT",
}

// RegisterSubSystem returns the logger for the given subsystem, creating
// and registering it first when needed. A fresh logger starts at LevelOff,
// so a package-level `var log = logger.RegisterSubSystem(...)` stays silent
// until the embedding application configures log levels.
func RegisterSubSystem(subsystem string) *Logger {
	subsystemLoggersMutex.Lock()
	defer subsystemLoggersMutex.Unlock()
	logger, ok := subsystemLoggers[subsystem]
	if !ok {
		logger = BackendLog.Logger(subsystem)
		subsystemLoggers[subsystem] = logger
	}
	return logger
}

// InitLog attaches the log file and error log file to the backend log and
// starts the backend. Messages at LevelTrace and above go to logFile and
// messages at LevelWarn and above go to errLogFile, both behind rotation.
// Standard output receives LevelDebug and above.
func InitLog(logFile, errLogFile string) error {
	err := BackendLog.AddLogWriter(os.Stdout, LevelDebug)
	if err != nil {
		return errors.Wrap(err, "couldn't add stdout to the logger")
	}
	err = BackendLog.AddLogFile(logFile, LevelTrace)
	if err != nil {
		return errors.Wrapf(err, "couldn't add log file %s to the logger", logFile)
	}
	err = BackendLog.AddLogFile(errLogFile, LevelWarn)
	if err != nil {
		return errors.Wrapf(err, "couldn't add error log file %s to the logger", errLogFile)
	}
	return BackendLog.Run()
}

// SetLogLevels sets the logging level for all registered subsystems.
func SetLogLevels(logLevel Level) {
	subsystemLoggersMutex.Lock()
	defer subsystemLoggersMutex.Unlock()
	for _, logger := range subsystemLoggers {
		logger.SetLevel(logLevel)
	}
}

// SupportedSubsystems returns a sorted slice of the registered subsystems.
func SupportedSubsystems() []string {
	subsystemLoggersMutex.Lock()
	defer subsystemLoggersMutex.Unlock()
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

// ParseAndSetLogLevels attempts to parse the specified log level and set
// the levels accordingly. An appropriate error is returned if anything is
// invalid.
//
// The levelStr can be a single level name, which applies to every
// subsystem, or a comma-separated list of subsystem=level pairs.
func ParseAndSetLogLevels(levelStr string) error {
	// When the specified string doesn't have any delimiters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(levelStr, ",") && !strings.Contains(levelStr, "=") {
		// Validate the log level.
		lvl, ok := LevelFromString(levelStr)
		if !ok {
			return errors.Errorf("the specified log level [%s] is invalid",
				levelStr)
		}

		// Change the logging level for all subsystems.
		SetLogLevels(lvl)
		return nil
	}

	// Split the specified string into subsystem/level pairs while
	// detecting issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(levelStr, ",") {
		if !strings.Contains(logLevelPair, "=") {
			return errors.Errorf("the specified log level contains an "+
				"invalid subsystem/level pair [%s]", logLevelPair)
		}

		// Extract the specified subsystem and log level.
		fields := strings.Split(logLevelPair, "=")
		subsysID, levelName := fields[0], fields[1]

		// Validate the log level.
		lvl, ok := LevelFromString(levelName)
		if !ok {
			return errors.Errorf("the specified log level [%s] is invalid",
				levelName)
		}

		// Validate the subsystem and apply the level.
		subsystemLoggersMutex.Lock()
		logger, exists := subsystemLoggers[subsysID]
		subsystemLoggersMutex.Unlock()
		if !exists {
			return errors.Errorf("the specified subsystem [%s] is "+
				"invalid -- supported subsystems %v", subsysID,
				SupportedSubsystems())
		}
		logger.SetLevel(lvl)
	}

	return nil
}
