// ABOUTME: Entry point for the painel business monitor
// ABOUTME: Routes to the monitor, web UI, MCP server or settings commands based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/harperreed/painel/cli"
	"github.com/harperreed/painel/config"
	"github.com/harperreed/painel/logging"
)

const version = "0.2.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	configPath := flag.String("config", "", "Config file (default: ~/.config/painel/config.toml)")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	// Handle version flag
	if *showVersion {
		fmt.Printf("painel version %s\n", version)
		os.Exit(0)
	}

	// Get remaining args after flags
	args := flag.Args()

	// If no command specified, show usage
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	// Route to top-level command
	command := args[0]
	commandArgs := args[1:]

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile := cfg.Log.File
	if logFile == "" && command == "monitor" {
		// The terminal UI owns the screen
		logFile = filepath.Join(xdg.StateHome, config.AppName, "painel.log")
	}
	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format, logFile)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	app := cli.NewApp(cfg, logger)
	defer app.Close()

	switch command {
	case "monitor":
		run(app, cli.MonitorCommand, commandArgs)

	case "serve":
		run(app, cli.ServeCommand, commandArgs)

	case "mcp":
		if err := cli.MCPCommand(app, version); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "seed":
		run(app, cli.SeedCommand, commandArgs)

	case "add-order":
		run(app, cli.AddOrderCommand, commandArgs)
	case "ship-order":
		run(app, cli.ShipOrderCommand, commandArgs)
	case "set-stock":
		run(app, cli.SetStockCommand, commandArgs)

	case "sounds":
		if len(commandArgs) == 0 {
			fmt.Println("Error: sounds requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		soundsArgs := commandArgs[1:]
		switch commandArgs[0] {
		case "list":
			run(app, cli.ListSoundsCommand, soundsArgs)
		case "upload":
			run(app, cli.UploadSoundCommand, soundsArgs)
		case "delete":
			run(app, cli.DeleteSoundCommand, soundsArgs)
		case "prefer":
			run(app, cli.PreferSoundCommand, soundsArgs)
		case "usage":
			run(app, cli.SoundUsageCommand, soundsArgs)
		case "test":
			run(app, cli.TestSoundCommand, soundsArgs)
		default:
			fmt.Printf("Unknown sounds command: %s\n\n", commandArgs[0])
			printUsage()
			os.Exit(1)
		}

	case "alerts":
		if len(commandArgs) == 0 {
			run(app, cli.ShowAlertsCommand, nil)
			return
		}

		alertArgs := commandArgs[1:]
		switch commandArgs[0] {
		case "show":
			run(app, cli.ShowAlertsCommand, alertArgs)
		case "mode":
			run(app, cli.SetAlertModeCommand, alertArgs)
		case "source":
			run(app, cli.SetAudioSourceCommand, alertArgs)
		case "context":
			run(app, cli.SetContextSoundCommand, alertArgs)
		case "reset":
			run(app, cli.ResetAlertsCommand, alertArgs)
		default:
			fmt.Printf("Unknown alerts command: %s\n\n", commandArgs[0])
			printUsage()
			os.Exit(1)
		}

	case "config":
		path := *configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if len(commandArgs) > 0 && commandArgs[0] == "init" {
			if err := cfg.Save(path); err != nil {
				log.Fatalf("Error: %v", err)
			}
			fmt.Printf("✓ Config written: %s\n", path)
			return
		}
		fmt.Printf("Config file: %s\n", path)
		fmt.Printf("Database:    %s (%s)\n", cfg.Database.Driver, describeDatabase(cfg))
		fmt.Printf("Preferences: %s\n", cfg.Preferences.Backend)
		fmt.Printf("Sounds:      %s\n", cfg.Audio.SoundsDir)

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// run executes a command and exits on error, closing the app first so the
// preference store is flushed
func run(app *cli.App, cmd func(*cli.App, []string) error, args []string) {
	if err := cmd(app, args); err != nil {
		_ = app.Close()
		log.Fatalf("Error: %v", err)
	}
}

func describeDatabase(cfg *config.Config) string {
	switch cfg.Database.Driver {
	case "postgres":
		return "dsn from config"
	case "postgrest":
		return cfg.Database.RestURL
	default:
		return cfg.Database.Path
	}
}

func printUsage() {
	fmt.Printf(`painel v%s - Rotating business monitors with sound alerts

USAGE:
  painel [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --config <path>        Config file (default: ~/.config/painel/config.toml)

COMMANDS:
  monitor                Run a rotating monitor screen
  serve                  Run every monitor behind the web UI
  mcp                    Start MCP server for Claude Desktop
  sounds                 Manage alert sounds
  alerts                 Show or change alert settings
  seed                   Fill the local database with demo data
  config                 Show the active config (config init writes it)

MONITOR:
  painel monitor [flags] <management|production|products>
    --once                    Fetch every view once, print it and exit
    --plain                   Print rotating views as text instead of the terminal UI

  Views rotate on their own. Terminal UI keys: a audio settings, t test sound, q quit

WEB UI:
  painel serve
    --port <n>                Port to listen on (default: 8080)
    --screens <list>          Comma-separated screens to run (default: all)

MCP SERVER:
  painel mcp                  Start MCP server (for Claude Desktop integration)

SOUND COMMANDS:
  painel sounds list          List bundled and uploaded sounds
  painel sounds upload [flags] <file>
    --name <name>             Name to store the sound under (default: file name)
    --prefer                  Make the upload the preferred sound
  painel sounds delete <name> Delete an uploaded sound
  painel sounds prefer <name> Play this upload in user-uploaded mode
    --clear                   Clear the preferred sound
  painel sounds usage         Show preference storage usage
  painel sounds test          Play the test sound with the current settings

ALERT COMMANDS:
  painel alerts show                    Show mode, source and sounds per context
  painel alerts mode <mode>             disabled, on-event or interval
  painel alerts source <source>         bundled or user-uploaded
  painel alerts context <ctx> <sound>   Sound for marketplace_new, stock_alert,
                                        expense_urgent or production_monitor
  painel alerts reset --yes             Restore defaults and delete uploaded sounds

DATA COMMANDS:
  painel seed                           Insert demo records
  painel add-order                      Record a pending marketplace order
    --platform <name>                   Marketplace (required)
    --number <n>                        Order number (required)
    --customer <name>                   Customer name
    --total <value>                     Order total
  painel ship-order <id>                Mark a marketplace order shipped
  painel set-stock <product-id> <qty>   Set a product's stock quantity

EXAMPLES:
  painel seed
  painel alerts mode on-event
  painel monitor production
  painel monitor --once products
  painel serve --port 9000
  painel sounds upload --prefer ~/Downloads/sino.mp3

`, version)
}
