package settings

import "time"

// Settings es la configuración de la clínica. Registro único, sin historial.
type Settings struct {
	ClinicName    string
	InvoicePrefix string

	// ShareTTLDays pisa el TTL por defecto de los enlaces compartidos de
	// documentos. 0 significa usar el default del módulo de documentos.
	ShareTTLDays int

	UpdatedBy string
	UpdatedAt time.Time
}
