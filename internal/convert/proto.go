// Package convert maps domain records to and from protobuf well-known types.
//
// Records travel as google.protobuf.Struct using proto3 JSON conventions: 64-bit ids as
// decimal strings and timestamps as RFC 3339 strings.
package convert

import (
	"fmt"
	"strconv"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/and161185/healthrec/internal/model"
)

// Field names of the record and payload structs.
const (
	FieldID          = "id"
	FieldPatientName = "patient_name"
	FieldSymptoms    = "symptoms"
	FieldDiagnosis   = "diagnosis"
	FieldTreatment   = "treatment"
	FieldCreatedAt   = "created_at"
	FieldUpdatedAt   = "updated_at"
)

// --- helpers ---

func ts(t time.Time) *structpb.Value {
	return structpb.NewStringValue(t.UTC().Format(time.RFC3339Nano))
}

func parseTS(v *structpb.Value) (time.Time, error) {
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp must be a string")
	}
	return time.Parse(time.RFC3339Nano, s.StringValue)
}

// FormatID renders an id the way it travels on the wire.
func FormatID(id uint64) string { return strconv.FormatUint(id, 10) }

// ParseID accepts a decimal string id, or a whole non-negative number for clients that
// send ids as JSON numbers.
func ParseID(v *structpb.Value) (uint64, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return strconv.ParseUint(k.StringValue, 10, 64)
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n < 0 || n != float64(uint64(n)) {
			return 0, fmt.Errorf("id %v is not a non-negative integer", n)
		}
		return uint64(n), nil
	default:
		return 0, fmt.Errorf("missing id")
	}
}

// optString reads a string field; a missing or null field reads as "".
func optString(s *structpb.Struct, key string) (string, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return "", nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue, nil
	case *structpb.Value_NullValue:
		return "", nil
	default:
		return "", fmt.Errorf("field %q must be a string", key)
	}
}

// --- payload (client -> server) ---

// ToProtoPayload converts a payload to a Struct.
func ToProtoPayload(p model.HealthRecordPayload) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldPatientName: structpb.NewStringValue(p.PatientName),
		FieldSymptoms:    structpb.NewStringValue(p.Symptoms),
		FieldDiagnosis:   structpb.NewStringValue(p.Diagnosis),
		FieldTreatment:   structpb.NewStringValue(p.Treatment),
	}}
}

// FromProtoPayload reads the four content fields. Missing fields read as empty strings and
// are left to service validation; non-string values are rejected here.
func FromProtoPayload(in *structpb.Struct) (model.HealthRecordPayload, error) {
	if in == nil {
		return model.HealthRecordPayload{}, fmt.Errorf("nil payload")
	}
	var (
		p   model.HealthRecordPayload
		err error
	)
	if p.PatientName, err = optString(in, FieldPatientName); err != nil {
		return p, err
	}
	if p.Symptoms, err = optString(in, FieldSymptoms); err != nil {
		return p, err
	}
	if p.Diagnosis, err = optString(in, FieldDiagnosis); err != nil {
		return p, err
	}
	if p.Treatment, err = optString(in, FieldTreatment); err != nil {
		return p, err
	}
	return p, nil
}

// ToProtoUpdateRequest packs an id and payload into one Struct.
func ToProtoUpdateRequest(id uint64, p model.HealthRecordPayload) *structpb.Struct {
	s := ToProtoPayload(p)
	s.Fields[FieldID] = structpb.NewStringValue(FormatID(id))
	return s
}

// FromProtoUpdateRequest unpacks an update request.
func FromProtoUpdateRequest(in *structpb.Struct) (uint64, model.HealthRecordPayload, error) {
	if in == nil {
		return 0, model.HealthRecordPayload{}, fmt.Errorf("nil request")
	}
	id, err := ParseID(in.GetFields()[FieldID])
	if err != nil {
		return 0, model.HealthRecordPayload{}, fmt.Errorf("invalid id: %w", err)
	}
	p, err := FromProtoPayload(in)
	return id, p, err
}

// --- records (server -> client) ---

// ToProtoRecord converts a record to a Struct; an absent UpdatedAt becomes null.
func ToProtoRecord(r model.HealthRecord) *structpb.Struct {
	upd := structpb.NewNullValue()
	if r.UpdatedAt != nil {
		upd = ts(*r.UpdatedAt)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldID:          structpb.NewStringValue(FormatID(r.ID)),
		FieldPatientName: structpb.NewStringValue(r.PatientName),
		FieldSymptoms:    structpb.NewStringValue(r.Symptoms),
		FieldDiagnosis:   structpb.NewStringValue(r.Diagnosis),
		FieldTreatment:   structpb.NewStringValue(r.Treatment),
		FieldCreatedAt:   ts(r.CreatedAt),
		FieldUpdatedAt:   upd,
	}}
}

// FromProtoRecord converts a Struct produced by ToProtoRecord back to a record.
func FromProtoRecord(in *structpb.Struct) (model.HealthRecord, error) {
	if in == nil {
		return model.HealthRecord{}, fmt.Errorf("nil record")
	}
	f := in.GetFields()
	id, err := ParseID(f[FieldID])
	if err != nil {
		return model.HealthRecord{}, fmt.Errorf("invalid id: %w", err)
	}
	p, err := FromProtoPayload(in)
	if err != nil {
		return model.HealthRecord{}, err
	}
	created, err := parseTS(f[FieldCreatedAt])
	if err != nil {
		return model.HealthRecord{}, fmt.Errorf("created_at: %w", err)
	}
	rec := model.HealthRecord{ID: id, CreatedAt: created}
	rec.Apply(p)

	if v, ok := f[FieldUpdatedAt]; ok {
		if _, isNull := v.GetKind().(*structpb.Value_NullValue); !isNull {
			upd, err := parseTS(v)
			if err != nil {
				return model.HealthRecord{}, fmt.Errorf("updated_at: %w", err)
			}
			rec.UpdatedAt = &upd
		}
	}
	return rec, nil
}

// ToProtoRecords converts records to a ListValue of Structs.
func ToProtoRecords(rs []model.HealthRecord) *structpb.ListValue {
	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(rs))}
	for _, r := range rs {
		out.Values = append(out.Values, structpb.NewStructValue(ToProtoRecord(r)))
	}
	return out
}

// FromProtoRecords converts a ListValue of record Structs.
func FromProtoRecords(in *structpb.ListValue) ([]model.HealthRecord, error) {
	out := make([]model.HealthRecord, 0, len(in.GetValues()))
	for i, v := range in.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("record[%d]: not an object", i)
		}
		r, err := FromProtoRecord(s)
		if err != nil {
			return nil, fmt.Errorf("record[%d]: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}
