package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/interfaces/cli/link"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/interfaces/cli/migrate"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "swirepay",
		Short: "Swirepay payment gateway for WooCommerce stores",
		Long:  `Swirepay gateway service with the checkout server, migration tools and a one-off payment link command.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		link.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
