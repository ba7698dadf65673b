package services

// ServiceContainer bundles every service facade handed to route
// registration.
type ServiceContainer struct {
	Txn            TransactionSvcFacade
	Split          SplitSvcFacade
	Account        AccountSvcFacade
	Balance        BalanceSvcFacade
	Reconciliation ReconciliationSvcFacade
	Dues           DuesSvcFacade
	Inventory      InventorySvcFacade
	Reporting      ReportingSvcFacade
}
