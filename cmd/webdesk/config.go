package main

import (
	"fmt"
	"os"

	"github.com/1broseidon/webdesk/internal/config"
)

func printConfigUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  webdesk config validate [--path PATH]")
	fmt.Fprintln(os.Stderr, "  webdesk config print [--path PATH] [--defaults]")
	fmt.Fprintln(os.Stderr, "  webdesk config path")
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage()
		return 2
	}

	switch args[0] {
	case "validate":
		fs := newFlagSet("validate", "webdesk config validate [--path PATH]", "Load and validate the configuration.")
		path := fs.String("path", "", "Config file path (default: ~/.config/webdesk/config.yaml)")
		if code, stop := parseFlags(fs, args[1:]); stop {
			return code
		}
		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if !res.Exists {
			fmt.Printf("config: ok (no file at %s, using defaults)\n", res.Path)
			return 0
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := newFlagSet("print", "webdesk config print [--path PATH] [--defaults]", "Print the effective configuration as YAML.")
		path := fs.String("path", "", "Config file path (default: ~/.config/webdesk/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if code, stop := parseFlags(fs, args[1:]); stop {
			return code
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "path":
		path, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(path)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n\n", args[0])
		printConfigUsage()
		return 2
	}
}

func loadConfig(path string) (*config.LoadResult, error) {
	cfgPath, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}
	return config.LoadFromPath(cfgPath)
}
