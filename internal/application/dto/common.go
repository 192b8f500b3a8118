package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Detalle del tope de dispositivos (solo en DEVICE_LIMIT).
	CurrentDevices int `json:"current_devices,omitempty"`
	MaxDevices     int `json:"max_devices,omitempty"`
}

// ClientMeta metadatos del cliente que origina la petición (para sesiones y auditoría).
type ClientMeta struct {
	IP        string
	UserAgent string
}
