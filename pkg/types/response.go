package types

// SuccessEnvelope is the primary response wrapper emitted by the API.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// LegacyEnvelope is the older `{success, data}` wrapper some deployments
// still return. The console gateway accepts both.
type LegacyEnvelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// RecordsEnvelope wraps list payloads that carry server-side pagination.
type RecordsEnvelope struct {
	Records    any       `json:"records"`
	Pagination *PageMeta `json:"pagination,omitempty"`
}

// PageMeta describes server-side pagination counters.
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
