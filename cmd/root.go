package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"uart-shell/pkg/app"
	"uart-shell/pkg/serial"
)

var (
	// Root command flags
	transcriptPath string

	// Root command
	rootCmd = &cobra.Command{
		Use:   "uart-shell <device> <baud>",
		Short: "An interactive bidirectional serial-line terminal",
		Long: `uart-shell opens a serial device and runs an interactive session:
typed lines are transmitted to the device and inbound bytes are shown on
the display or redirected to a file.

Interactive commands (typed at the prompt):
  R>shell    route inbound bytes to the display
  R><path>   route inbound bytes to the file at <path> (created/truncated)
  T<<path>   stream the file at <path> to the device
  <text>     any other non-empty line is sent verbatim

Supported baud rates: 9600, 19200, 38400, 57600, 115200.

Example:
  uart-shell /dev/ttyUSB0 115200`,
		Version:           "1.0.0",
		Args:              cobra.ExactArgs(2),
		RunE:              runSession,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&transcriptPath, "transcript", "t", "", "save the session transcript to this file on exit")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
}

// runSession validates the endpoint arguments and runs the session
func runSession(cmd *cobra.Command, args []string) error {
	device := args[0]

	baudRate, err := serial.ParseBaudRate(args[1])
	if err != nil {
		return err
	}

	serialConfig := serial.Config{
		Device:   device,
		BaudRate: baudRate,
	}

	runner := app.NewRunner(serialConfig, transcriptPath)
	return runner.Run()
}
