package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fatflowers/pledge/internal/app/api/server"
	"github.com/fatflowers/pledge/internal/app/service/campaign"
	"github.com/fatflowers/pledge/internal/app/service/collection"
	"github.com/fatflowers/pledge/internal/app/service/donation"
	notificationhandler "github.com/fatflowers/pledge/internal/app/service/notification_handler"
	notificationlog "github.com/fatflowers/pledge/internal/app/service/notification_log"
	"github.com/fatflowers/pledge/internal/app/service/payment"
	"github.com/fatflowers/pledge/internal/app/service/statistics"
	"github.com/fatflowers/pledge/internal/app/service/translog"
	"github.com/fatflowers/pledge/internal/platform/db"
	"github.com/fatflowers/pledge/internal/platform/gateway"
	"github.com/fatflowers/pledge/pkg/config"
	"github.com/fatflowers/pledge/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

// CoreModule is the service graph without any listeners. Command line
// tools start it for one operation and stop it again.
var CoreModule = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	gateway.Module,
	translog.Module,
	payment.Module,
	campaign.Module,
	donation.Module,
	collection.Module,
	statistics.Module,
	notificationlog.Module,
	notificationhandler.Module,
)

var Module = fx.Options(
	CoreModule,
	collection.SchedulerModule,
	server.Module,
)
