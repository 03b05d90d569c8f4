package contract

type ChatRequest struct {
	Prompt string `json:"prompt" validate:"required,min=1,max=4000"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SummaryResponse is the structured answer requested from the assistant.
type SummaryResponse struct {
	Overview string   `json:"overview"`
	Topics   []string `json:"topics"`
	FAQs     []*FAQ   `json:"faqs"`
}
