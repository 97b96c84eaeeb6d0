package domain

// SearchCriteria holds the optional structured filters of a search request.
// Every field is independent; an empty field means "do not constrain on this
// dimension".
type SearchCriteria struct {
	Nombre                   string `json:"nombre,omitempty"`
	CodigoEstudiante         string `json:"codigoEstudiante,omitempty"`
	IdentificacionEstudiante string `json:"identificacionEstudiante,omitempty"`
	TipoDocumento            string `json:"tipoDocumento,omitempty"`
	Programa                 string `json:"programa,omitempty"`
	Facultad                 string `json:"facultad,omitempty"`
	Sede                     string `json:"sede,omitempty"`
	Firmante                 string `json:"firmante,omitempty"`
	Estado                   string `json:"estado,omitempty"`
	DiaDocumento             string `json:"diaDocumento,omitempty"`
	MesDocumento             string `json:"mesDocumento,omitempty"`
	AnoDocumento             string `json:"anoDocumento,omitempty"`
}

// IsZero reports whether no criteria field is set.
func (c SearchCriteria) IsZero() bool {
	return c == SearchCriteria{}
}

// HasDateCriteria reports whether any request-date component is constrained.
func (c SearchCriteria) HasDateCriteria() bool {
	return c.DiaDocumento != "" || c.MesDocumento != "" || c.AnoDocumento != ""
}
