package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"uart-shell/pkg/serial"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial devices",
	Long: `List all serial devices present on the system.

On different platforms:
  - Linux: /dev/tty* devices
  - macOS: /dev/cu.* and /dev/tty.* devices`,
	Aliases: []string{"ls", "ports"},
	Run:     runList,
}

func runList(cmd *cobra.Command, args []string) {
	ports, err := serial.ListPorts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing ports: %v\n", err)
		os.Exit(1)
	}

	if len(ports) == 0 {
		fmt.Println("No serial devices found.")
		return
	}

	fmt.Printf("Found %d serial device(s):\n", len(ports))
	for _, port := range ports {
		fmt.Printf("  %s\n", port)
	}

	fmt.Println("\nUse 'uart-shell <device> <baud>' to start a session.")
}
