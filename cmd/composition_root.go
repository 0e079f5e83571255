package cmd

import (
	"log/slog"

	"dispatch/internal/adapters/out/marketplace"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/bus"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	orders       ports.OrderGateway
	listings     ports.ListingGateway
	transporters ports.TransporterGateway
	profiles     ports.ProfileGateway

	publisher ports.EventPublisher
	logger    *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, eventBus *bus.Bus, logger *slog.Logger) CompositionRoot {
	marketplaceClient := marketplace.NewClient(config.MarketplaceBaseURL, config.MarketplaceServiceToken)

	return CompositionRoot{
		gormDB:       gormDB,
		uowFactory:   *postgres.NewGormUnitOfWorkFactory(gormDB),
		orders:       marketplace.NewHTTPOrderGateway(marketplaceClient),
		listings:     marketplace.NewHTTPListingGateway(marketplaceClient),
		transporters: marketplace.NewHTTPTransporterGateway(marketplaceClient),
		profiles:     marketplace.NewHTTPProfileGateway(marketplaceClient),
		publisher:    eventBus,
		logger:       logger,
	}
}

func (c *CompositionRoot) dealUoWFactory() commands.DealUoWFactory {
	return FuncDealUoWFactory(func() commands.DealUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) escrowUoWFactory() commands.EscrowUoWFactory {
	return FuncEscrowUoWFactory(func() commands.EscrowUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateDealCommandHandler() commands.CreateDealCommandHandler {
	return commands.NewCreateDealCommandHandler(c.dealUoWFactory(), c.orders, c.profiles, c.publisher)
}

func (c *CompositionRoot) CreatePayDealCommandHandler() commands.PayDealCommandHandler {
	return commands.NewPayDealCommandHandler(c.escrowUoWFactory(), c.orders, c.publisher)
}

func (c *CompositionRoot) CreateAcceptDealCommandHandler() commands.AcceptDealCommandHandler {
	return commands.NewAcceptDealCommandHandler(c.dealUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateDeclineDealCommandHandler() commands.DeclineDealCommandHandler {
	return commands.NewDeclineDealCommandHandler(c.dealUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateSettleDeliveryCommandHandler() commands.SettleDeliveryCommandHandler {
	return commands.NewSettleDeliveryCommandHandler(c.fullUoWFactory(), c.orders, c.publisher)
}

func (c *CompositionRoot) CreateVerifyOtpCommandHandler() commands.VerifyOtpCommandHandler {
	settler := c.CreateSettleDeliveryCommandHandler()
	return commands.NewVerifyOtpCommandHandler(c.dealUoWFactory(), c.orders, c.listings, settler, c.publisher)
}

func (c *CompositionRoot) CreateUpdateStatusCommandHandler() commands.UpdateStatusCommandHandler {
	settler := c.CreateSettleDeliveryCommandHandler()
	return commands.NewUpdateStatusCommandHandler(c.dealUoWFactory(), c.orders, c.listings, settler, c.publisher)
}

func (c *CompositionRoot) CreatePushLocationCommandHandler() commands.PushLocationCommandHandler {
	return commands.NewPushLocationCommandHandler(c.dealUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateUploadProofPhotoCommandHandler() commands.UploadProofPhotoCommandHandler {
	return commands.NewUploadProofPhotoCommandHandler(c.dealUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateSetLocationSharingCommandHandler() commands.SetLocationSharingCommandHandler {
	return commands.NewSetLocationSharingCommandHandler(c.dealUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateCancelDealCommandHandler() commands.CancelDealCommandHandler {
	return commands.NewCancelDealCommandHandler(c.dealUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateGetAvailableDealsQueryHandler() queries.GetAvailableDealsQueryHandler {
	return queries.NewGetAvailableDealsQueryHandler(c.gormDB, c.transporters)
}

func (c *CompositionRoot) CreateGetTrackingSnapshotQueryHandler() queries.GetTrackingSnapshotQueryHandler {
	return queries.NewGetTrackingSnapshotQueryHandler(c.gormDB, c.orders)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.dealUoWFactory(), c.publisher, c.logger)
}

type FuncDealUoWFactory func() commands.DealUoW

func (f FuncDealUoWFactory) Create() commands.DealUoW {
	return f()
}

type FuncEscrowUoWFactory func() commands.EscrowUoW

func (f FuncEscrowUoWFactory) Create() commands.EscrowUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
