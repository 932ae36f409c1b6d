// Command poetry runs the Poetry API and its maintenance commands.
//
//	@title						Poetry API
//	@version					1.0
//	@description				Public catalog of poems, authors and themes with search, a featured poem of the day and per-viewer view and like counters.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						X-API-Key
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/tbourn/go-poetry-api/internal/cli"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
