package service

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lodgerhq/lodger/internal/clock"
	"github.com/lodgerhq/lodger/internal/config"
	"github.com/lodgerhq/lodger/internal/currency"
	"github.com/lodgerhq/lodger/internal/exchange"
	"github.com/lodgerhq/lodger/internal/gateway/flutterwave"
	licensedomain "github.com/lodgerhq/lodger/internal/license/domain"
	licenseservice "github.com/lodgerhq/lodger/internal/license/service"
	"github.com/lodgerhq/lodger/internal/observability/metrics"
	plandomain "github.com/lodgerhq/lodger/internal/plan/domain"
)

type Service struct {
	db          *gorm.DB
	cfg         config.Config
	plans       plandomain.Repository
	licenseRepo licensedomain.Repository
	licenses    *licenseservice.Service
	resolver    *currency.Resolver
	rates       *exchange.Service
	gateway     *flutterwave.Client
	clock       clock.Clock
	log         *zap.Logger
	metrics     *metrics.Metrics
}

type Params struct {
	fx.In

	DB          *gorm.DB
	Config      config.Config
	Plans       plandomain.Repository
	LicenseRepo licensedomain.Repository
	Licenses    *licenseservice.Service
	Resolver    *currency.Resolver
	Rates       *exchange.Service
	Gateway     *flutterwave.Client
	Clock       clock.Clock
	Log         *zap.Logger
	Metrics     *metrics.Metrics
}

func New(p Params) *Service {
	return &Service{
		db:          p.DB,
		cfg:         p.Config,
		plans:       p.Plans,
		licenseRepo: p.LicenseRepo,
		licenses:    p.Licenses,
		resolver:    p.Resolver,
		rates:       p.Rates,
		gateway:     p.Gateway,
		clock:       p.Clock,
		log:         p.Log.Named("payment.service"),
		metrics:     p.Metrics,
	}
}
