package upload

// Envelope is the analysis service's response wrapper.
type Envelope struct {
	Success        bool    `json:"success"`
	GeminiResponse *string `json:"geminiResponse,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// Text returns the analysis text, or "" when the service sent none.
func (e Envelope) Text() string {
	if e.GeminiResponse == nil {
		return ""
	}
	return *e.GeminiResponse
}
