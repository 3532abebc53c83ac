package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "flightctl",
		Usage: "FlightSurety command gateway: inspect rebuilt state and submit ledger commands",
		Commands: []*cli.Command{
			statusCommand(),
			airlinesCommand(),
			flightsCommand(),
			walletsCommand(),
			registerAirlineCommand(),
			payFeeCommand(),
			registerFlightCommand(),
			insureCommand(),
			withdrawCommand(),
			fetchStatusCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
