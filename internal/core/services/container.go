package services

import (
	portsrepo "github.com/creditleaf/credit_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/creditleaf/credit_ledger_app/internal/core/ports/services"
	"github.com/creditleaf/credit_ledger_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Both services share the ledger repository; the reward distributor needs
	// its transaction manager to issue paired grants atomically.
	container.Credit = NewCreditService(repos.CreditRepo, cfg)
	container.Reward = NewRewardService(repos.CreditRepo, cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CreditSvcFacade = (*creditService)(nil)
	_ portssvc.RewardSvcFacade = (*rewardService)(nil)
)
