package dto

// Flash is a one-shot status message shown once at the top of an admin page.
type Flash struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

func Success(msg string) *Flash { return &Flash{Type: FlashSuccess, Message: msg} }
func Error(msg string) *Flash   { return &Flash{Type: FlashError, Message: msg} }
func Warning(msg string) *Flash { return &Flash{Type: FlashWarning, Message: msg} }
func Info(msg string) *Flash    { return &Flash{Type: FlashInfo, Message: msg} }
