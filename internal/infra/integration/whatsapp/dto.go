package whatsapp

type SendMessageInput struct {
	PhoneNumber  string   // Ex: "5511999999999"
	TemplateName string   // Ex: "recuperacao_checkout"
	Language     string   // Ex: "pt_BR"
	Parameters   []string // Ex: []string{"Ana"}
}

type SendMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Contacts []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Error *ErrorResponse `json:"error"`
}

type ErrorResponse struct {
	Message      string `json:"message"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode"`
	Type         string `json:"type"`
}

// Códigos da Graph API que indicam problema na conta/template, não na mensagem.
const (
	CodeTemplatePaused   = 132015
	CodeTemplateDisabled = 132016
)
