// Command negocioctl talks to a running negocio server: it downloads and
// restores backups and prints the statistics.
package main

import (
	"os"
)

const version = "1.0.0"

func main() {
	Run(NewCLI(), os.Args[1:])
}

// Run dispatches a command line.
func Run(cli *CLI, args []string) {
	if len(args) < 1 {
		printUsage(cli)
		cli.Exit(1)
		return
	}

	command := args[0]
	rest := args[1:]
	commands := NewBackupCommands(cli)

	switch command {
	case "backup":
		commands.Backup(rest)
	case "restore":
		commands.Restore(rest)
	case "stats":
		commands.Stats(rest)
	case "version":
		cli.Printf("negocioctl version %s\n", version)
	case "help", "-h", "--help":
		printUsage(cli)
	default:
		cli.Errorf("Unknown command: %s\n", command)
		printUsage(cli)
		cli.Exit(1)
	}
}

func printUsage(cli *CLI) {
	cli.Println("negocioctl - Negocio Server CLI Tool")
	cli.Println()
	cli.Println("Usage: negocioctl <command> [options]")
	cli.Println()
	cli.Println("Commands:")
	cli.Println("  backup [-o file]   Download a backup (default: name chosen by the server)")
	cli.Println("  restore <file>     Replace all data with the content of a backup file")
	cli.Println("  stats              Show sales and expense totals")
	cli.Println("  version            Show version")
	cli.Println("  help               Show this help")
	cli.Println()
	cli.Println("Global Options:")
	cli.Println("  --server <url>     Negocio server URL (default: " + defaultServerURL + ")")
}
