package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Environment variables passed to extensions. SG_DB_PATH and SG_LOG_LEVEL are
// also read by config.Load, so that an extension loading the configuration sees
// the global flags.
const (
	EnvConfigFile = "SG_CONFIG"
	EnvDBPath     = "SG_DB_PATH"
	EnvLogLevel   = "SG_LOG_LEVEL"
)

// RunExtension attempts to find and execute an external sg-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "sg-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Pass global flags as environment variables
	cmd.Env = append(os.Environ(), EnvConfigFile+"="+*configFile)
	if *dbFile != "" {
		cmd.Env = append(cmd.Env, EnvDBPath+"="+*dbFile)
	}
	if *logLevel != "" {
		cmd.Env = append(cmd.Env, EnvLogLevel+"="+*logLevel)
	}

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}
