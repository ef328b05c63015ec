package models

// Provenance tells where the currently displayed collections came from
type Provenance string

const (
	ProvenanceUnknown Provenance = "unknown"
	ProvenanceAPI     Provenance = "api"
	ProvenanceLocal   Provenance = "local"
	ProvenanceMixed   Provenance = "mixed"
	ProvenanceError   Provenance = "error"
)

func (p Provenance) String() string {
	return string(p)
}
