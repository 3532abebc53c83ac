package main

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"

	"flightsurety-relay/pkg/utils"
)

func registerAirlineCommand() *cli.Command {
	cfg := struct {
		from    string
		airline string
	}{}
	return &cli.Command{
		Name:  "register-airline",
		Usage: "Register a new airline, sent from an already registered airline",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:        "from",
				Usage:       "Address of the registering airline",
				Required:    true,
				Destination: &cfg.from,
			},
			&cli.StringFlag{
				Name:        "airline",
				Usage:       "Address of the airline to register",
				Required:    true,
				Destination: &cfg.airline,
			},
		),
		Action: func(c *cli.Context) error {
			app, err := setup(c)
			if err != nil {
				return err
			}
			defer app.close()

			err = app.commands.RegisterAirline(app.ctx,
				common.HexToAddress(cfg.from),
				common.HexToAddress(cfg.airline),
			)
			if err != nil {
				return err
			}

			fmt.Println("Airline registered")
			return nil
		},
	}
}

func payFeeCommand() *cli.Command {
	cfg := struct {
		airline string
		amount  string
	}{}
	return &cli.Command{
		Name:  "pay-fee",
		Usage: "Pay an airline's registration fee from its own account",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:        "airline",
				Usage:       "Address of the airline paying its fee",
				Required:    true,
				Destination: &cfg.airline,
			},
			&cli.StringFlag{
				Name:        "amount",
				Usage:       "Fee in ether",
				Value:       "10",
				Destination: &cfg.amount,
			},
		),
		Action: func(c *cli.Context) error {
			app, err := setup(c)
			if err != nil {
				return err
			}
			defer app.close()

			amount, err := utils.ToWei(cfg.amount)
			if err != nil {
				return err
			}

			if err := app.commands.PayAirlineFee(app.ctx, common.HexToAddress(cfg.airline), amount); err != nil {
				return err
			}

			fmt.Println("Registration fee paid")
			return nil
		},
	}
}

func registerFlightCommand() *cli.Command {
	cfg := struct {
		airline   string
		flight    string
		timestamp int64
	}{}
	return &cli.Command{
		Name:  "register-flight",
		Usage: "Register a flight for an airline",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:        "airline",
				Usage:       "Address of the operating airline",
				Required:    true,
				Destination: &cfg.airline,
			},
			&cli.StringFlag{
				Name:        "flight",
				Usage:       "Flight number",
				Required:    true,
				Destination: &cfg.flight,
			},
			&cli.Int64Flag{
				Name:        "timestamp",
				Usage:       "Scheduled departure as a unix timestamp",
				Required:    true,
				Destination: &cfg.timestamp,
			},
		),
		Action: func(c *cli.Context) error {
			app, err := setup(c)
			if err != nil {
				return err
			}
			defer app.close()

			err = app.commands.RegisterFlight(app.ctx,
				common.HexToAddress(cfg.airline),
				cfg.flight,
				big.NewInt(cfg.timestamp),
			)
			if err != nil {
				return err
			}

			fmt.Println("Flight registered")
			return nil
		},
	}
}

func insureCommand() *cli.Command {
	cfg := struct {
		passenger string
		flight    string
		amount    string
	}{}
	return &cli.Command{
		Name:  "insure",
		Usage: "Buy insurance on a flight from the passenger's account",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:        "passenger",
				Usage:       "Address of the passenger",
				Required:    true,
				Destination: &cfg.passenger,
			},
			&cli.StringFlag{
				Name:        "flight",
				Usage:       "Flight number to insure",
				Required:    true,
				Destination: &cfg.flight,
			},
			&cli.StringFlag{
				Name:        "amount",
				Usage:       "Premium in ether",
				Value:       "1",
				Destination: &cfg.amount,
			},
		),
		Action: func(c *cli.Context) error {
			app, err := setup(c)
			if err != nil {
				return err
			}
			defer app.close()

			amount, err := utils.ToWei(cfg.amount)
			if err != nil {
				return err
			}

			err = app.commands.PurchaseInsurance(app.ctx,
				common.HexToAddress(cfg.passenger),
				cfg.flight,
				amount,
			)
			if err != nil {
				return err
			}

			fmt.Println("Insurance purchased")
			return nil
		},
	}
}

func withdrawCommand() *cli.Command {
	cfg := struct {
		passenger string
	}{}
	return &cli.Command{
		Name:  "withdraw",
		Usage: "Withdraw a passenger's accumulated payout balance",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:        "passenger",
				Usage:       "Address of the passenger",
				Required:    true,
				Destination: &cfg.passenger,
			},
		),
		Action: func(c *cli.Context) error {
			app, err := setup(c)
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.commands.Withdraw(app.ctx, common.HexToAddress(cfg.passenger)); err != nil {
				return err
			}

			fmt.Println("Balance withdrawn")
			return nil
		},
	}
}

func fetchStatusCommand() *cli.Command {
	cfg := struct {
		from      string
		airline   string
		flight    string
		timestamp int64
	}{}
	return &cli.Command{
		Name:  "fetch-status",
		Usage: "Ask the oracle network for a flight's status",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:        "from",
				Usage:       "Address the request is sent from",
				Required:    true,
				Destination: &cfg.from,
			},
			&cli.StringFlag{
				Name:        "airline",
				Usage:       "Address of the operating airline",
				Required:    true,
				Destination: &cfg.airline,
			},
			&cli.StringFlag{
				Name:        "flight",
				Usage:       "Flight number",
				Required:    true,
				Destination: &cfg.flight,
			},
			&cli.Int64Flag{
				Name:        "timestamp",
				Usage:       "Scheduled departure as a unix timestamp",
				Required:    true,
				Destination: &cfg.timestamp,
			},
		),
		Action: func(c *cli.Context) error {
			app, err := setup(c)
			if err != nil {
				return err
			}
			defer app.close()

			err = app.commands.FetchFlightStatus(app.ctx,
				common.HexToAddress(cfg.from),
				common.HexToAddress(cfg.airline),
				cfg.flight,
				big.NewInt(cfg.timestamp),
			)
			if err != nil {
				return err
			}

			fmt.Println("Flight status requested")
			return nil
		},
	}
}
