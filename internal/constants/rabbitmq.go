package constants

// Обменники
const (
	ExchangeProperties    = "properties_exchange"
	ExchangeNotifications = "notifications_exchange"
)

// Очереди
const (
	QueuePropertyListed = "matching_property_listed"
)

// Ключи маршрутизации
const (
	RoutingKeyPropertyListed = "properties.listed"
	RoutingKeyMatchesFound   = "notify.matches.found"
)

// Заголовки сообщений
const (
	HeaderTraceID      = "x-trace-id"
	HeaderEventType    = "event-type"
	HeaderEventVersion = "event-version"
)
