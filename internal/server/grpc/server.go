// Package grpcserver exposes the health record gRPC API handlers.
package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/and161185/healthrec/internal/api"
	"github.com/and161185/healthrec/internal/convert"
	"github.com/and161185/healthrec/internal/errs"
	"github.com/and161185/healthrec/internal/service"
)

// Server wires the record service into gRPC handlers.
type Server struct {
	records service.RecordService
}

var _ api.HealthRecordsServer = (*Server)(nil)

// New constructs a gRPC server with the injected service.
func New(records service.RecordService) *Server {
	return &Server{records: records}
}

// toStatus maps service sentinels to gRPC codes.
func toStatus(op string, err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, errs.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, errs.ErrInsertionFailed):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		return status.Errorf(codes.Internal, "%s: %v", op, err)
	}
}

// GetHealthRecord returns a single record by id.
func (s *Server) GetHealthRecord(ctx context.Context, req *wrapperspb.UInt64Value) (*structpb.Struct, error) {
	rec, err := s.records.Get(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus("get", err)
	}
	return convert.ToProtoRecord(*rec), nil
}

// SearchBySymptom returns records indexed under the exact symptom token.
func (s *Server) SearchBySymptom(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	rs, err := s.records.SearchBySymptom(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus("search by symptom", err)
	}
	return convert.ToProtoRecords(rs), nil
}

// SearchByDiagnosis returns records indexed under the exact diagnosis token.
func (s *Server) SearchByDiagnosis(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	rs, err := s.records.SearchByDiagnosis(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus("search by diagnosis", err)
	}
	return convert.ToProtoRecords(rs), nil
}

// AddHealthRecord creates a record.
func (s *Server) AddHealthRecord(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, err := convert.FromProtoPayload(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "bad payload: %v", err)
	}
	rec, err := s.records.Create(ctx, p)
	if err != nil {
		return nil, toStatus("add", err)
	}
	return convert.ToProtoRecord(*rec), nil
}

// UpdateHealthRecord replaces the content of an existing record.
func (s *Server) UpdateHealthRecord(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, p, err := convert.FromProtoUpdateRequest(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "bad request: %v", err)
	}
	rec, err := s.records.Update(ctx, id, p)
	if err != nil {
		return nil, toStatus("update", err)
	}
	return convert.ToProtoRecord(*rec), nil
}

// DeleteHealthRecord removes a record and returns it.
func (s *Server) DeleteHealthRecord(ctx context.Context, req *wrapperspb.UInt64Value) (*structpb.Struct, error) {
	rec, err := s.records.Delete(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus("delete", err)
	}
	return convert.ToProtoRecord(*rec), nil
}

// RebuildIndexes re-derives the token indexes from the primary store.
func (s *Server) RebuildIndexes(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.UInt64Value, error) {
	n, err := s.records.RebuildIndexes(ctx)
	if err != nil {
		return nil, toStatus("rebuild indexes", err)
	}
	return wrapperspb.UInt64(uint64(n)), nil
}
