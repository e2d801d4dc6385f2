package main

import (
	"bufio"
	"context"
	"io"
	"os"

	"within.website/ln"

	"pod-racing/internal/bot"
	"pod-racing/internal/config"
	"pod-racing/internal/protocol"
)

func main() {
	ctx := context.Background()
	cfg := config.Default()

	b := bot.New(cfg)
	in := protocol.NewReader(os.Stdin)
	out := bufio.NewWriter(os.Stdout)

	for {
		turn, err := in.ReadTurn()
		if err == io.EOF {
			return
		}
		if err != nil {
			ln.FatalErr(ctx, err)
		}

		if err := protocol.WriteCommand(out, b.Turn(ctx, turn)); err != nil {
			ln.FatalErr(ctx, err)
		}
		// The referee waits for each line.
		if err := out.Flush(); err != nil {
			ln.FatalErr(ctx, err)
		}
	}
}
