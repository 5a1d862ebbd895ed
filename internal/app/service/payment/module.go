package payment

import (
	"go.uber.org/fx"

	"github.com/fatflowers/pledge/internal/platform/gateway"
)

// Module exposes the payment service via Fx. The HTTP gateway client backs
// the Gateway interface.
var Module = fx.Options(
	fx.Provide(
		fx.Annotate(
			func(c *gateway.Client) *gateway.Client { return c },
			fx.As(new(Gateway)),
		),
	),
	fx.Provide(NewService),
)
