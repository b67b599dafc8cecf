package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/and161185/healthrec/internal/model"
)

func TestToProtoRecord_Encoding(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 600, time.UTC)
	r := model.HealthRecord{ID: 1 << 60, PatientName: "Alice", Symptoms: "fever,cough", Diagnosis: "flu", Treatment: "rest", CreatedAt: created}

	s := ToProtoRecord(r)
	f := s.GetFields()
	require.Equal(t, "1152921504606846976", f[FieldID].GetStringValue(), "64-bit id must travel as string")
	require.Equal(t, "2026-01-02T03:04:05.0000006Z", f[FieldCreatedAt].GetStringValue())
	_, isNull := f[FieldUpdatedAt].GetKind().(*structpb.Value_NullValue)
	require.True(t, isNull, "absent updated_at must be null")

	back, err := FromProtoRecord(s)
	require.NoError(t, err)
	require.Equal(t, r.ID, back.ID)
	require.True(t, back.CreatedAt.Equal(created))
	require.Nil(t, back.UpdatedAt)
}

func TestFromProtoRecord_UpdatedAt(t *testing.T) {
	upd := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	r := model.HealthRecord{ID: 3, PatientName: "p", Symptoms: "s", Diagnosis: "d", Treatment: "t", CreatedAt: upd.Add(-time.Hour), UpdatedAt: &upd}

	back, err := FromProtoRecord(ToProtoRecord(r))
	require.NoError(t, err)
	require.NotNil(t, back.UpdatedAt)
	require.True(t, back.UpdatedAt.Equal(upd))
}

func TestFromProtoRecord_Errors(t *testing.T) {
	_, err := FromProtoRecord(nil)
	require.Error(t, err)

	s := ToProtoRecord(model.HealthRecord{ID: 1, CreatedAt: time.Now()})
	s.Fields[FieldCreatedAt] = structpb.NewNumberValue(12)
	_, err = FromProtoRecord(s)
	require.Error(t, err)

	s = ToProtoRecord(model.HealthRecord{ID: 1, CreatedAt: time.Now()})
	delete(s.Fields, FieldID)
	_, err = FromProtoRecord(s)
	require.Error(t, err)
}

func TestFromProtoPayload_MissingFieldsAreEmpty(t *testing.T) {
	in := &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldPatientName: structpb.NewStringValue("Alice"),
		FieldSymptoms:    structpb.NewNullValue(),
	}}
	p, err := FromProtoPayload(in)
	require.NoError(t, err)
	require.Equal(t, model.HealthRecordPayload{PatientName: "Alice"}, p)
}

func TestFromProtoPayload_RejectsNonString(t *testing.T) {
	in := &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldTreatment: structpb.NewBoolValue(true),
	}}
	_, err := FromProtoPayload(in)
	require.ErrorContains(t, err, FieldTreatment)

	_, err = FromProtoPayload(nil)
	require.Error(t, err)
}

func TestParseID(t *testing.T) {
	cases := []struct {
		name    string
		v       *structpb.Value
		want    uint64
		wantErr bool
	}{
		{"string", structpb.NewStringValue("42"), 42, false},
		{"max uint64", structpb.NewStringValue("18446744073709551615"), 1<<64 - 1, false},
		{"number", structpb.NewNumberValue(7), 7, false},
		{"negative string", structpb.NewStringValue("-1"), 0, true},
		{"fraction", structpb.NewNumberValue(1.5), 0, true},
		{"negative number", structpb.NewNumberValue(-3), 0, true},
		{"bool", structpb.NewBoolValue(true), 0, true},
		{"nil", nil, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseID(tc.v)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestUpdateRequest(t *testing.T) {
	p := model.HealthRecordPayload{PatientName: "A", Symptoms: "s", Diagnosis: "d", Treatment: "t"}
	id, got, err := FromProtoUpdateRequest(ToProtoUpdateRequest(9, p))
	require.NoError(t, err)
	require.Equal(t, uint64(9), id)
	require.Equal(t, p, got)

	_, _, err = FromProtoUpdateRequest(ToProtoPayload(p))
	require.Error(t, err, "update without id must fail")
}

func TestRecordsList(t *testing.T) {
	rs := []model.HealthRecord{
		{ID: 0, PatientName: "a", CreatedAt: time.Unix(1, 0)},
		{ID: 5, PatientName: "b", CreatedAt: time.Unix(2, 0)},
	}
	l := ToProtoRecords(rs)
	require.Len(t, l.GetValues(), 2)

	back, err := FromProtoRecords(l)
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 5}, []uint64{back[0].ID, back[1].ID})

	empty, err := FromProtoRecords(ToProtoRecords(nil))
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	_, err = FromProtoRecords(&structpb.ListValue{Values: []*structpb.Value{structpb.NewStringValue("x")}})
	require.Error(t, err)
}
