package services

type Service struct {
	Transaction *TransactionService
	Discord     *DiscordService
	Notifier    *NotifierService
	Catalog     *CatalogService
	Scheduler   *SchedulerService
}
