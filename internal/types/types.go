// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles:
// the validators, the remote client, the workflows and the stub API
// handlers can all import types without depending on each other.
package types

// Form field names. They double as the JSON keys of a StudentRecord and
// as the keys of a Form.
const (
	FieldID            = "id"
	FieldName          = "name"
	FieldLastName      = "lastName"
	FieldBornPlace     = "bornPlace"
	FieldDegree        = "degree"
	FieldPlace         = "place"
	FieldScoreAdmision = "scoreAdmision"
)

// FormFields lists every StudentRecord field in display order.
var FormFields = []string{
	FieldID,
	FieldName,
	FieldLastName,
	FieldBornPlace,
	FieldDegree,
	FieldPlace,
	FieldScoreAdmision,
}

// Form is the raw, untrimmed text a user entered for each field,
// keyed by field name.
type Form map[string]string

// StudentRecord is the only domain entity. The id is supplied by the
// caller and is the natural key for every remote operation.
//
// Struct tags serve two purposes:
//
//  1. json:"..."     the wire shape expected by the remote API.
//  2. validate:"..." rules checked by go-playground/validator when the
//     stub API receives a record on /save.
type StudentRecord struct {
	ID            int64  `json:"id"            validate:"gt=0"`
	Name          string `json:"name"          validate:"required,personname"`
	LastName      string `json:"lastName"      validate:"required,personname"`
	BornPlace     string `json:"bornPlace"     validate:"required,notblank"`
	Degree        string `json:"degree"        validate:"required,notblank"`
	Place         string `json:"place"         validate:"required,notblank"`
	ScoreAdmision int    `json:"scoreAdmision" validate:"gte=0,lte=500"`
}

// Campuses is the closed set of places offered by selection prompts.
// The core only requires the value to be non-empty.
var Campuses = []string{
	"MEDELLIN",
	"ANDES",
	"APARTADO",
	"CAUCASIA",
	"CARMEN_DE_VIBORAL",
	"SEGOVIA",
	"SONSON",
	"YARUMAL",
}

// Degrees is the closed set of degree programmes offered by selection prompts.
var Degrees = []string{
	"Ingeniería de Sistemas",
	"Ingeniería Civil",
	"Medicina",
	"Derecho",
	"Psicología",
	"Administración de Empresas",
}
