package types

// QueryRequest is the external query contract. Domain is optional; the
// configured default domain is used when it is empty. Domains may hold one or
// more names for multi-corpus fan-out.
type QueryRequest struct {
	Question    string    `json:"question"`
	ChatHistory []Message `json:"chat_history"`
	Domain      string    `json:"domain,omitempty"`
	Domains     []string  `json:"domains,omitempty"`
	TopK        int       `json:"top_k,omitempty"`
	ChatID      string    `json:"chat_id,omitempty"`
}

// DomainNames returns the requested domains, preferring the multi-domain
// field when both are set.
func (r QueryRequest) DomainNames() []string {
	if len(r.Domains) > 0 {
		return r.Domains
	}
	if r.Domain != "" {
		return []string{r.Domain}
	}
	return nil
}
