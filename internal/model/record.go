package model

// AccessRecord is the structured form of one access-log line.
// It exists only between parse and send; it is never persisted.
type AccessRecord struct {
	IP        string `json:"ip"`
	Ident     string `json:"ident"`
	AuthUser  string `json:"auth_user"`
	Timestamp string `json:"timestamp"`
	Method    string `json:"method,omitempty"`
	Path      string `json:"path,omitempty"`
	Protocol  string `json:"protocol,omitempty"`
	Request   string `json:"request"`
	Status    int    `json:"status"`
	Bytes     *int64 `json:"bytes"` // nil when the line carried "-"
	Referrer  string `json:"referrer"`
	UserAgent string `json:"user_agent"`
}
