package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"flightsurety-relay/pkg/utils"
)

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Check whether the surety contract is operational",
		Flags: commonFlags(),
		Action: func(c *cli.Context) error {
			app, err := setup(c)
			if err != nil {
				return err
			}
			defer app.close()

			operational, err := app.commands.IsOperational(app.ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Operational: %v\n", operational)
			return nil
		},
	}
}

func airlinesCommand() *cli.Command {
	return &cli.Command{
		Name:    "airlines",
		Aliases: []string{"al"},
		Usage:   "List registered airlines rebuilt from the event log",
		Flags:   commonFlags(),
		Action: func(c *cli.Context) error {
			app, err := setup(c)
			if err != nil {
				return err
			}
			defer app.close()

			for _, airline := range app.rebuilder.Airlines() {
				tag := ""
				if airline.IsFirst {
					tag = " (first)"
				}
				fmt.Printf("%s%s fee-paid=%v\n", airline.Address.Hex(), tag, airline.FeePaid)
			}
			return nil
		},
	}
}

func flightsCommand() *cli.Command {
	return &cli.Command{
		Name:    "flights",
		Aliases: []string{"fl"},
		Usage:   "List registered flights with their insured passengers",
		Flags:   commonFlags(),
		Action: func(c *cli.Context) error {
			app, err := setup(c)
			if err != nil {
				return err
			}
			defer app.close()

			for _, flight := range app.rebuilder.Flights() {
				fmt.Printf("%s airline=%s timestamp=%s status=%s key=%s\n",
					flight.FlightNumber,
					flight.AirlineAddress.Hex(),
					flight.Timestamp,
					flight.StatusCode,
					flight.Key.Hex(),
				)
				for _, passenger := range flight.Passengers {
					fmt.Printf("  insured %s amount=%s ETH\n",
						passenger.Address.Hex(),
						utils.FromWei(passenger.InsuredAmount),
					)
				}
			}
			return nil
		},
	}
}

func walletsCommand() *cli.Command {
	return &cli.Command{
		Name:  "wallets",
		Usage: "List passenger wallets with unclaimed payout balances",
		Flags: commonFlags(),
		Action: func(c *cli.Context) error {
			app, err := setup(c)
			if err != nil {
				return err
			}
			defer app.close()

			for _, wallet := range app.rebuilder.Wallets() {
				fmt.Printf("%s balance=%s ETH\n", wallet.Address.Hex(), utils.FromWei(wallet.Balance))
			}
			return nil
		},
	}
}
