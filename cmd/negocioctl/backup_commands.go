package main

import (
	"flag"
	"os"
)

// BackupCommands handles the backup, restore and stats commands
type BackupCommands struct {
	cli *CLI
}

// NewBackupCommands creates a new backup commands handler
func NewBackupCommands(cli *CLI) *BackupCommands {
	return &BackupCommands{cli: cli}
}

// Backup downloads a backup into a local file.
func (b *BackupCommands) Backup(args []string) {
	var output string
	config, remaining, err := b.cli.ParseGlobalFlags(args, "backup", func(fs *flag.FlagSet) {
		fs.StringVar(&output, "o", "", "Output file (default: name suggested by the server)")
	})
	if err == flag.ErrHelp {
		b.cli.Println("Usage: negocioctl backup [-o file] [--server url]")
		return
	}
	if b.cli.HandleError(err, "parsing flags") || !b.cli.ValidateExactArgs(remaining, 0, "Usage: negocioctl backup [-o file]") {
		return
	}

	data, filename, err := b.cli.CreateClient(config).DownloadBackup()
	if b.cli.HandleError(err, "downloading backup") {
		return
	}
	if output == "" {
		output = filename
	}
	if output == "" {
		output = "backup-negocio.json"
	}
	if b.cli.HandleError(os.WriteFile(output, data, 0o644), "writing backup") {
		return
	}
	b.cli.Printf("Backup saved to %s (%d bytes)\n", output, len(data))
}

// Restore uploads a backup file, replacing all data on the server.
func (b *BackupCommands) Restore(args []string) {
	config, remaining, err := b.cli.ParseGlobalFlags(args, "restore", nil)
	if err == flag.ErrHelp {
		b.cli.Println("Usage: negocioctl restore <backup-file> [--server url]")
		return
	}
	if b.cli.HandleError(err, "parsing flags") || !b.cli.ValidateExactArgs(remaining, 1, "Usage: negocioctl restore <backup-file>") {
		return
	}

	data, err := os.ReadFile(remaining[0])
	if b.cli.HandleError(err, "reading backup") {
		return
	}
	msg, err := b.cli.CreateClient(config).RestoreBackup(data)
	if b.cli.HandleError(err, "restoring backup") {
		return
	}
	b.cli.Printf("%s (%s)\n", msg, remaining[0])
}

// Stats prints the statistics summary.
func (b *BackupCommands) Stats(args []string) {
	config, remaining, err := b.cli.ParseGlobalFlags(args, "stats", nil)
	if err == flag.ErrHelp {
		b.cli.Println("Usage: negocioctl stats [--server url]")
		return
	}
	if b.cli.HandleError(err, "parsing flags") || !b.cli.ValidateExactArgs(remaining, 0, "Usage: negocioctl stats") {
		return
	}

	sum, err := b.cli.CreateClient(config).Stats()
	if b.cli.HandleError(err, "fetching statistics") {
		return
	}
	b.cli.Printf("Total ventas:        %s\n", sum.TotalVentas.StringFixed(2))
	b.cli.Printf("Total gastos:        %s\n", sum.TotalGastos.StringFixed(2))
	b.cli.Printf("Ganancia neta:       %s\n", sum.GananciaNeta.StringFixed(2))
	b.cli.Printf("Pedidos:             %d\n", sum.TotalPedidos)
	b.cli.Printf("Transacciones:       %d\n", sum.TotalTransacciones)
}
