package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string

	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mural",
	Short: "Mural - panel auction house over Redis",
	Long: `Mural auctions a fixed inventory of uniquely numbered panels, grouped
into ordered pages, to the highest bidder. Winners hold an exclusive,
one-time right to claim ownership; a page's contents stay obscured until
every panel in it has been claimed, then its locator is revealed once.

State lives in Redis; every command reads mural.yml for the instance,
Redis connection and owner identity.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "mural.yml", "Path to the instance configuration file")
}
