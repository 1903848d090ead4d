package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix is the prefix of the environment variables that set options.
const EnvPrefix = "HBSIM_"

type envOption struct {
	flag string
	set  func(c *Config, value string) error
}

func stringOption(flag string, field func(c *Config) *string) envOption {
	return envOption{flag, func(c *Config, v string) error {
		*field(c) = v
		return nil
	}}
}

func boolOption(flag string, field func(c *Config) *bool) envOption {
	return envOption{flag, func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}

		*field(c) = b

		return nil
	}}
}

func uintOption(flag string, field func(c *Config) *uint64) envOption {
	return envOption{flag, func(c *Config, v string) error {
		n, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			return err
		}

		*field(c) = n

		return nil
	}}
}

func intOption(flag string, field func(c *Config) *int) envOption {
	return envOption{flag, func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}

		*field(c) = n

		return nil
	}}
}

var envOptions = []envOption{
	stringOption("output", func(c *Config) *string { return &c.Output }),
	uintOption("ref-size", func(c *Config) *uint64 { return &c.Reference.SizeKB }),
	uintOption("ref-line", func(c *Config) *uint64 { return &c.Reference.LineSize }),
	intOption("ref-assoc", func(c *Config) *int { return &c.Reference.Assoc }),
	uintOption("cache-size", func(c *Config) *uint64 { return &c.Target.SizeKB }),
	uintOption("line-size", func(c *Config) *uint64 { return &c.Target.LineSize }),
	intOption("assoc", func(c *Config) *int { return &c.Target.Assoc }),
	boolOption("infinite", func(c *Config) *bool { return &c.Unbounded }),
	stringOption("replace", func(c *Config) *string { return &c.ReplaceStrategy }),
	boolOption("no-write-allocate", func(c *Config) *bool { return &c.NoWriteAllocate }),
	boolOption("co", func(c *Config) *bool { return &c.ColdMissOnly }),
	boolOption("tl", func(c *Config) *bool { return &c.TrackLoads }),
	boolOption("ts", func(c *Config) *bool { return &c.TrackStores }),
	uintOption("rh", func(c *Config) *uint64 { return &c.HitThreshold }),
	uintOption("rm", func(c *Config) *uint64 { return &c.MissThreshold }),
	stringOption("epoch-marker", func(c *Config) *string { return &c.EpochMarker }),
	stringOption("energy-model", func(c *Config) *string { return &c.EnergyModel }),
	stringOption("tables", func(c *Config) *string { return &c.TablesFile }),
	stringOption("db", func(c *Config) *string { return &c.DBPath }),
	boolOption("monitor", func(c *Config) *bool { return &c.Monitor }),
	intOption("monitor-port", func(c *Config) *int { return &c.MonitorPort }),
	boolOption("open-browser", func(c *Config) *bool { return &c.OpenBrowser }),
	boolOption("verbose", func(c *Config) *bool { return &c.Verbose }),
}

// EnvName returns the environment variable that sets the option of a flag.
func EnvName(flag string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// ApplyEnv sets options from the environment. Values in the env file, if
// given, are used when the process environment does not set the variable.
// Options for which skip returns true are left alone, so that flags given on
// the command line win.
func ApplyEnv(c *Config, envFile string, skip func(flag string) bool) error {
	fileValues := map[string]string{}

	if envFile != "" {
		var err error

		fileValues, err = godotenv.Read(envFile)
		if err != nil {
			return fmt.Errorf("reading env file: %w", err)
		}
	}

	for _, o := range envOptions {
		if skip != nil && skip(o.flag) {
			continue
		}

		name := EnvName(o.flag)

		value, ok := os.LookupEnv(name)
		if !ok {
			value, ok = fileValues[name]
		}

		if !ok {
			continue
		}

		err := o.set(c, value)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", name, value, err)
		}
	}

	return nil
}
