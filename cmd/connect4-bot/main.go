// Command connect4-bot joins a game as an automated player. Point it
// at the same game key as a human client (or a second bot) and it
// plays until the game ends.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/mpiech/connect4-server/bot"
	"github.com/mpiech/connect4-server/game/board"
	"github.com/mpiech/connect4-server/protocol"
)

func main() {
	cmd := &cli.Command{
		Name:  "connect4-bot",
		Usage: "automated connect four player",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: "localhost:12345",
				Usage: "server address",
			},
			&cli.IntFlag{
				Name:     "key",
				Usage:    "game key to join",
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
			&cli.DurationFlag{
				Name:  "delay",
				Value: 500 * time.Millisecond,
				Usage: "pause before each move",
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

	log.Printf("joining game %d at %s", cmd.Int("key"), cmd.String("addr"))
	b, err := bot.Dial(cmd.String("addr"), int32(cmd.Int("key")), codec)
	if err != nil {
		return err
	}
	defer b.Close()
	b.Delay = cmd.Duration("delay")

	log.Printf("assigned player %d", b.Number())
	return b.Run()
}
