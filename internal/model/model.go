// Package model defines domain entities used by services and repositories.
package model

import "time"

// HealthRecord is a single patient record. ID and CreatedAt never change after creation.
type HealthRecord struct {
	ID          uint64
	PatientName string
	Symptoms    string // comma-separated symptom tokens
	Diagnosis   string // comma-separated diagnosis tokens
	Treatment   string
	CreatedAt   time.Time
	UpdatedAt   *time.Time // nil until the first successful update
}

// HealthRecordPayload is the client-supplied content of a record on create/update.
type HealthRecordPayload struct {
	PatientName string
	Symptoms    string
	Diagnosis   string
	Treatment   string
}

// Serialized size accounting: fixed-width id and timestamps, a presence byte for the
// optional update time, and a 4-byte length prefix per string field.
const (
	idWidth        = 8
	timestampWidth = 8
	presenceWidth  = 1
	lengthPrefix   = 4
)

// EncodedSize estimates the serialized size of the record in bytes. It does not depend on
// any particular wire encoding and is used to enforce the configured record size bound.
func (r HealthRecord) EncodedSize() int {
	n := idWidth + timestampWidth + presenceWidth
	if r.UpdatedAt != nil {
		n += timestampWidth
	}
	for _, s := range []string{r.PatientName, r.Symptoms, r.Diagnosis, r.Treatment} {
		n += lengthPrefix + len(s)
	}
	return n
}

// Apply replaces the mutable content fields with the payload values.
func (r *HealthRecord) Apply(p HealthRecordPayload) {
	r.PatientName = p.PatientName
	r.Symptoms = p.Symptoms
	r.Diagnosis = p.Diagnosis
	r.Treatment = p.Treatment
}
