package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hinwong/salescast/internal/inference"
	"github.com/hinwong/salescast/internal/logger"
	"github.com/hinwong/salescast/internal/persona"
	"github.com/hinwong/salescast/internal/prompt"
	"github.com/hinwong/salescast/internal/toy"
)

func chatCmd() *cli.Command {
	var (
		system  string
		product string

		temp, topP, repPenalty float64
		maxNewTokens, seed     int64
		greedy                 bool
	)

	return &cli.Command{
		Name:  "chat",
		Usage: "Chat with the sales streamer in the terminal",
		Flags: append(samplingFlags(&temp, &topP, &repPenalty, &maxNewTokens, &greedy, &seed),
			&cli.StringFlag{
				Name:        "system",
				Usage:       "override the persona system instruction",
				Destination: &system,
			},
			&cli.StringFlag{
				Name:        "product",
				Usage:       "name of the product being presented",
				Destination: &product,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			defaults := samplingDefaults(cmd, cfg, temp, topP, repPenalty, maxNewTokens, greedy, seed)

			if system == "" {
				host := persona.Streamer{Name: "Lele"}
				var prod *persona.Product
				if product != "" {
					prod = &persona.Product{Name: product}
				}
				system = host.Instruction(prod)
			}

			tok := toy.NewTokenizer()
			engine := inference.NewEngine(toy.NewModel(tok), tok, tok.EOSTokenIDs(), logger.Discard())
			defer engine.Close()

			fmt.Println("salescast chat (type /exit to quit)")
			scanner := bufio.NewScanner(os.Stdin)
			var history []prompt.Message

			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					fmt.Println()
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "/exit" || line == "/quit" {
					return nil
				}

				opts := inference.RequestOptions{
					System:   system,
					History:  history,
					UserTurn: line,
				}
				req := inference.ResolveRequest(opts, defaults)

				// Emissions carry the whole text so far; print only
				// what is new since the previous one.
				var printed string
				result, err := engine.Generate(ctx, &req, func(text string) {
					if strings.HasPrefix(text, printed) {
						fmt.Print(text[len(printed):])
					} else {
						fmt.Print(text)
					}
					printed = text
				})
				fmt.Println()
				if err != nil {
					fmt.Fprintln(os.Stderr, "generation failed:", err)
					continue
				}

				history = append(history,
					prompt.Message{Role: prompt.RoleUser, Content: line},
					prompt.Message{Role: prompt.RoleAssistant, Content: result.Text},
				)
			}
		},
	}
}
