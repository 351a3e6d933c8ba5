package types

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// QueryResponse is the non-streaming answer envelope.
type QueryResponse struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Sources     []Source `json:"sources"`
	Success     bool     `json:"success"`
	ErrorReason string   `json:"error_reason,omitempty"`
}

// GenerationResult is the output of one generation step.
type GenerationResult struct {
	Answer      string   `json:"answer"`
	Sources     []Source `json:"sources"`
	Success     bool     `json:"success"`
	ErrorReason string   `json:"error_reason,omitempty"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	DomainsLoaded int    `json:"domains_loaded"`
}

type ReloadResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// DomainInfo describes one registered corpus.
type DomainInfo struct {
	Name      string   `json:"name"`
	Aliases   []string `json:"aliases,omitempty"`
	Documents int      `json:"documents"`
}

type DomainsResponse struct {
	Domains []DomainInfo `json:"domains"`
	Success bool         `json:"success"`
}
