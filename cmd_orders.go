package main

import (
	"github.com/spf13/cobra"

	"groco-backend/internal/cart"
	"groco-backend/internal/identity"
	"groco-backend/internal/order"
	"groco-backend/internal/storage"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List the orders of the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		backend, err := openBackend(ctx, cfg)
		if err != nil {
			return err
		}
		defer backend.Close()

		store := storage.New(backend, log)
		user, ok := identity.New(ctx, store, log).Current()
		if !ok {
			printWarning(cmd.OutOrStdout(), "Nobody is signed in.")
			return nil
		}
		orders := order.New(store, cart.New(ctx, store, log), log)
		printOrders(cmd.OutOrStdout(), orders.ForUser(ctx, user.ID))
		return nil
	},
}
