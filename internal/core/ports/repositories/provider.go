package repositories

// RepositoryProvider bundles the concrete repositories handed to service
// construction.
type RepositoryProvider struct {
	TxnRepo       TransactionRepositoryFacade
	SplitRepo     SplitRepositoryFacade
	AccountRepo   BankAccountRepositoryFacade
	ReconRepo     ReconciliationRepositoryFacade
	InventoryRepo InventoryRepositoryFacade
	MemberRepo    MemberRepositoryFacade
}
