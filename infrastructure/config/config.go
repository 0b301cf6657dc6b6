// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/meridiannet/meridiand/domain/chaincfg"
	"github.com/meridiannet/meridiand/infrastructure/logger"
	"github.com/meridiannet/meridiand/version"
)

const (
	defaultConfigFilename = "meridiand.conf"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "meridiand.log"
	defaultErrLogFilename = "meridiand_err.log"
)

var (
	// DefaultHomeDir is the default home directory for meridiand.
	DefaultHomeDir = btcutil.AppDataDir("meridiand", false)

	defaultConfigFile = filepath.Join(DefaultHomeDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(DefaultHomeDir, defaultLogDirname)
)

// Flags defines the configuration options for meridiand.
//
// See LoadConfig for details on the configuration load process.
type Flags struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	LogDir      string `long:"logdir" description:"Directory to log output."`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	NetworkFlags
}

// Config defines the configuration options for meridiand.
//
// See LoadConfig for details on the configuration load process.
type Config struct {
	*Flags
}

// defaultFlags returns the default configuration flags.
func defaultFlags() *Flags {
	return &Flags{
		ConfigFile: defaultConfigFile,
		LogDir:     defaultLogDir,
		DebugLevel: defaultLogLevel,
	}
}

// DefaultConfig returns the default configuration: mainnet with the
// standard application directories and info-level logging.
func DefaultConfig() *Config {
	config := &Config{Flags: defaultFlags()}
	config.ActiveNetParams = &chaincfg.MainnetParams
	return config
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(DefaultHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// LoadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
// 	1) Start with a default config with sane settings
// 	2) Pre-parse the command line to check for an alternative config file
// 	3) Load configuration file overwriting defaults with any specified options
// 	4) Parse CLI options and overwrite/add any specified options
//
// The above results in meridiand functioning properly without any config
// settings while still allowing the user to override settings with config
// files and command line options. Command line options always take
// precedence.
func LoadConfig() (*Config, error) {
	cfgFlags := defaultFlags()

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified. Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := *cfgFlags
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
			return nil, err
		}
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	// Load additional config from file.
	var configFileError error
	parser := flags.NewParser(cfgFlags, flags.Default)
	config := &Config{Flags: cfgFlags}
	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		_, isPathError := err.(*os.PathError)
		// A missing config file is fine unless one was named explicitly.
		if !isPathError || preCfg.ConfigFile != defaultConfigFile {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %s\n", err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, err
		}
		configFileError = err
	}

	// Parse command line options again to ensure they take precedence.
	_, err = parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return nil, err
	}

	err = config.ResolveNetwork(parser)
	if err != nil {
		return nil, err
	}

	// Append the network type to the log directory so it is "namespaced"
	// per network.
	config.LogDir = cleanAndExpandPath(config.LogDir)
	config.LogDir = filepath.Join(config.LogDir, config.NetParams().Name)

	// Special show command to list supported subsystems and exit.
	if config.DebugLevel == "show" {
		fmt.Println("Supported subsystems", logger.SupportedSubsystems())
		os.Exit(0)
	}

	// Initialize log rotation. After log rotation has been initialized,
	// the logger variables may be used.
	err = logger.InitLog(filepath.Join(config.LogDir, defaultLogFilename),
		filepath.Join(config.LogDir, defaultErrLogFilename))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing log rotation: %s\n", err)
		return nil, err
	}

	// Parse, validate, and set debug log level(s).
	err = logger.ParseAndSetLogLevels(config.DebugLevel)
	if err != nil {
		err := errors.Wrap(err, "error setting log levels")
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, err
	}

	log.Infof("Version %s", version.Version())

	// Warn about missing config file only after all other configuration is
	// done. This prevents the warning on help messages and invalid
	// options. Note this should go directly before the return.
	if configFileError != nil {
		log.Warnf("%s", configFileError)
	}

	return config, nil
}
