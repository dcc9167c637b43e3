package main

import "github.com/urfave/cli/v3"

// samplingFlags are shared by serve and chat. Destinations live in the
// command closures; only flags the user actually set override the config
// file (see samplingDefaults).
func samplingFlags(temp, topP, repPenalty *float64, maxNewTokens *int64, greedy *bool, seed *int64) []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:        "temperature",
			Aliases:     []string{"t"},
			Usage:       "sampling temperature (> 0)",
			Value:       0.7,
			Destination: temp,
		},
		&cli.Float64Flag{
			Name:        "top-p",
			Usage:       "nucleus sampling probability mass",
			Value:       0.8,
			Destination: topP,
		},
		&cli.Float64Flag{
			Name:        "repetition-penalty",
			Usage:       "penalty applied to already generated tokens (>= 1)",
			Value:       1.005,
			Destination: repPenalty,
		},
		&cli.Int64Flag{
			Name:        "max-new-tokens",
			Usage:       "maximum tokens to generate per turn",
			Destination: maxNewTokens,
		},
		&cli.BoolFlag{
			Name:        "greedy",
			Usage:       "disable sampling and always pick the most likely token",
			Destination: greedy,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "sampling rng seed",
			Destination: seed,
		},
	}
}
