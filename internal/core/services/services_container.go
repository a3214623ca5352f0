package services

import (
	"github.com/SscSPs/orsys_voucher_app/internal/cache"
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	portsrepo "github.com/SscSPs/orsys_voucher_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/orsys_voucher_app/internal/core/ports/services"
	"github.com/SscSPs/orsys_voucher_app/internal/events"
	"github.com/SscSPs/orsys_voucher_app/internal/platform/config"
)

const (
	userCacheSize      = 1000
	dashboardCacheSize = 64
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// Caches are registered with cacheManager so their expired entries are swept.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher events.Publisher, cacheManager *cache.Manager) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The user service answers every permission check, so it comes first
	userCache := cache.NewLRUCache[domain.AppUser](userCacheSize, cfg.UserCacheTTL)
	dashboardCache := cache.NewLRUCache[domain.DashboardSnapshot](dashboardCacheSize, cfg.DashboardCacheTTL)
	if cacheManager != nil {
		cacheManager.Register(userCache)
		cacheManager.Register(dashboardCache)
	}

	container.User = NewUserService(repos.UserRepo, WithUserCache(userCache))
	authorizer := container.User.(portssvc.AccessAuthorizerSvc)

	container.Voucher = NewVoucherService(
		repos.VoucherRepo,
		WithVoucherAuthorizer(authorizer),
		WithEventPublisher(publisher),
		WithVoucherLocation(cfg.Location),
	)

	container.Report = NewReportService(
		container.Voucher,
		WithReportAuthorizer(authorizer),
		WithReportLocation(cfg.Location),
	)

	container.Dashboard = NewDashboardService(
		container.Voucher,
		WithDashboardAuthorizer(authorizer),
		WithDashboardCache(dashboardCache),
		WithDashboardLocation(cfg.Location),
		WithExcludedHeads(cfg.DashboardExcludedHeads),
	)

	container.Head = NewHeadService(repos.HeadRepo, WithHeadAuthorizer(authorizer))

	return container
}
