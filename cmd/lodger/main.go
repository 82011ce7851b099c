package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/lodgerhq/lodger/internal/clock"
	"github.com/lodgerhq/lodger/internal/config"
	"github.com/lodgerhq/lodger/internal/currency"
	"github.com/lodgerhq/lodger/internal/exchange"
	"github.com/lodgerhq/lodger/internal/gateway/flutterwave"
	"github.com/lodgerhq/lodger/internal/license"
	"github.com/lodgerhq/lodger/internal/migration"
	"github.com/lodgerhq/lodger/internal/observability"
	"github.com/lodgerhq/lodger/internal/payment"
	"github.com/lodgerhq/lodger/internal/plan"
	"github.com/lodgerhq/lodger/internal/ratelimit"
	"github.com/lodgerhq/lodger/internal/server"
	"github.com/lodgerhq/lodger/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		currency.Module,
		fx.Provide(flutterwave.New),
		exchange.Module,
		plan.Module,
		license.Module,
		payment.Module,
		ratelimit.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
