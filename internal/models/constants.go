package models

const (
	// HeaderUserID carries the id of the acting user on every request.
	HeaderUserID = "X-Sharer-User-Id"

	// HeaderRequestID correlates gateway and server log lines.
	HeaderRequestID = "X-Request-ID"
)

const (
	// DefaultPageFrom начальная позиция выборки по умолчанию
	DefaultPageFrom = 0

	// DefaultPageSize размер страницы по умолчанию
	DefaultPageSize = 10

	// ExportLimit максимальное число заявок в выгрузке
	ExportLimit = 10000

	// RateLimitRequests количество запросов пользователя в окне
	RateLimitRequests = 120

	// RateLimitWindow окно ограничения частоты запросов
	RateLimitWindow = 60 // 1 минута в секундах
)
