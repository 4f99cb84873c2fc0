// Command moviectl lists and edits the movie catalog through the HTTP API.
//
//	moviectl list
//	moviectl show <id>
//	moviectl add -title T -year Y -actors "A, B"
//	moviectl --admin edit <id> [-title T] [-year Y] [-actors "A, B"]
//	moviectl --admin delete <id>
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gookit/color"

	"cinedex/internal/movie/client"
	"cinedex/internal/platform/config"
)

func main() {
	cfg, err := config.ClientFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, color.Red.Sprint(err.Error()))
		os.Exit(exitUsage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &app{
		api:    client.New(cfg.APIURL, client.WithHTTPClient(httpClient(cfg))),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	os.Exit(app.run(ctx, os.Args[1:]))
}
