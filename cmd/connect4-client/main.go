// Command connect4-client is a terminal player for the connect four
// server. It connects over TCP with a shared game key, waits for an
// opponent, and prompts for a column whenever it is this player's
// turn.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/mpiech/connect4-server/client"
	"github.com/mpiech/connect4-server/game/board"
	"github.com/mpiech/connect4-server/protocol"
)

func main() {
	cmd := &cli.Command{
		Name:  "connect4-client",
		Usage: "play connect four against another client on the same game key",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: "localhost:12345",
				Usage: "server address",
			},
			&cli.IntFlag{
				Name:     "key",
				Usage:    "game key; two clients with the same key are paired",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "rows",
				Value: board.DefaultRows,
				Usage: "board rows (must match the server)",
			},
			&cli.IntFlag{
				Name:  "cols",
				Value: board.DefaultCols,
				Usage: "board columns (must match the server)",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	codec := protocol.NewCodec(int(cmd.Int("rows")), int(cmd.Int("cols")))

	fmt.Printf("Connecting to %s with game key %d...\n", cmd.String("addr"), cmd.Int("key"))
	fmt.Println("Waiting for an opponent...")

	c, err := client.Dial(cmd.String("addr"), int32(cmd.Int("key")), codec, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer c.Close()

	return c.Run()
}
