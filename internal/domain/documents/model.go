package documents

import "time"

// Payload es el binario de un documento junto con su media type declarado.
type Payload struct {
	Data      []byte
	MediaType string
}

// Revision es un payload pasado del documento, inmutable una vez empujado.
// Version es el valor de currentVersion que tenía cuando era el payload vivo.
type Revision struct {
	Version   int
	Payload   Payload
	CreatedAt time.Time
	CreatedBy string
	Note      string
}

// ShareGrant es el estado de compartición: un solo token activo por documento.
type ShareGrant struct {
	Token  string
	Expiry time.Time
	Shared bool
}

// ValidAt: compartido y todavía no vencido.
func (g ShareGrant) ValidAt(now time.Time) bool {
	return g.Shared && now.Before(g.Expiry)
}

// Document es la metadata del documento. Los bytes viven en el repo;
// Get/List nunca los cargan (para eso están GetPayload/GetRevisionPayload).
type Document struct {
	ID          string
	Name        string
	Description string
	FileType    string // tag descriptivo (radiografía, consentimiento, etc.)

	Editable  bool
	Printable bool

	// FKs débiles: pueden quedar apuntando a entidades borradas.
	AnimalID       string
	ClientID       string
	OrganizationID string

	MediaType      string
	SizeBytes      int
	CurrentVersion int

	// Revisions viene con metadata solamente (Payload vacío) desde Get.
	Revisions []Revision

	Share *ShareGrant

	CreatedAt time.Time
	UpdatedAt time.Time
}
