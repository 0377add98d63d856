package main

import (
	"go.uber.org/fx"

	"github.com/masho-mammad/shadowclean-bot/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
