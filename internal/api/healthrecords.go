// Package api declares the healthrec.v1.HealthRecords gRPC service.
//
// Messages are protobuf well-known types (Struct, ListValue, wrappers, Empty), so the
// service needs no generated code; see package convert for the record layout.
package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "healthrec.v1.HealthRecords"

// Full method names.
const (
	GetHealthRecordMethod    = "/" + ServiceName + "/GetHealthRecord"
	SearchBySymptomMethod    = "/" + ServiceName + "/SearchBySymptom"
	SearchByDiagnosisMethod  = "/" + ServiceName + "/SearchByDiagnosis"
	AddHealthRecordMethod    = "/" + ServiceName + "/AddHealthRecord"
	UpdateHealthRecordMethod = "/" + ServiceName + "/UpdateHealthRecord"
	DeleteHealthRecordMethod = "/" + ServiceName + "/DeleteHealthRecord"
	RebuildIndexesMethod     = "/" + ServiceName + "/RebuildIndexes"
)

// HealthRecordsServer is the server API for the HealthRecords service.
type HealthRecordsServer interface {
	GetHealthRecord(context.Context, *wrapperspb.UInt64Value) (*structpb.Struct, error)
	SearchBySymptom(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	SearchByDiagnosis(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	AddHealthRecord(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateHealthRecord(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteHealthRecord(context.Context, *wrapperspb.UInt64Value) (*structpb.Struct, error)
	RebuildIndexes(context.Context, *emptypb.Empty) (*wrapperspb.UInt64Value, error)
}

// RegisterHealthRecordsServer registers srv on s.
func RegisterHealthRecordsServer(s grpc.ServiceRegistrar, srv HealthRecordsServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unary adapts a typed server method to a grpc.MethodDesc handler.
func unary[Req any, Resp any](
	method string,
	newReq func() *Req,
	call func(HealthRecordsServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(HealthRecordsServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(HealthRecordsServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func newUInt64() *wrapperspb.UInt64Value { return new(wrapperspb.UInt64Value) }
func newString() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }
func newStruct() *structpb.Struct        { return new(structpb.Struct) }
func newEmpty() *emptypb.Empty           { return new(emptypb.Empty) }

// ServiceDesc describes the HealthRecords service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HealthRecordsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetHealthRecord", Handler: unary(GetHealthRecordMethod, newUInt64, HealthRecordsServer.GetHealthRecord)},
		{MethodName: "SearchBySymptom", Handler: unary(SearchBySymptomMethod, newString, HealthRecordsServer.SearchBySymptom)},
		{MethodName: "SearchByDiagnosis", Handler: unary(SearchByDiagnosisMethod, newString, HealthRecordsServer.SearchByDiagnosis)},
		{MethodName: "AddHealthRecord", Handler: unary(AddHealthRecordMethod, newStruct, HealthRecordsServer.AddHealthRecord)},
		{MethodName: "UpdateHealthRecord", Handler: unary(UpdateHealthRecordMethod, newStruct, HealthRecordsServer.UpdateHealthRecord)},
		{MethodName: "DeleteHealthRecord", Handler: unary(DeleteHealthRecordMethod, newUInt64, HealthRecordsServer.DeleteHealthRecord)},
		{MethodName: "RebuildIndexes", Handler: unary(RebuildIndexesMethod, newEmpty, HealthRecordsServer.RebuildIndexes)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "healthrec/v1/health_records",
}

// Client calls the HealthRecords service over a client connection.
type Client struct{ cc grpc.ClientConnInterface }

// NewClient wraps a connection.
func NewClient(cc grpc.ClientConnInterface) *Client { return &Client{cc: cc} }

// GetHealthRecord fetches one record.
func (c *Client) GetHealthRecord(ctx context.Context, in *wrapperspb.UInt64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetHealthRecordMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchBySymptom looks up records by symptom token.
func (c *Client) SearchBySymptom(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, SearchBySymptomMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchByDiagnosis looks up records by diagnosis token.
func (c *Client) SearchByDiagnosis(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, SearchByDiagnosisMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// AddHealthRecord creates a record from a payload struct.
func (c *Client) AddHealthRecord(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, AddHealthRecordMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateHealthRecord replaces the content of a record.
func (c *Client) UpdateHealthRecord(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, UpdateHealthRecordMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteHealthRecord removes a record and returns it.
func (c *Client) DeleteHealthRecord(ctx context.Context, in *wrapperspb.UInt64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, DeleteHealthRecordMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RebuildIndexes asks the server to re-derive its token indexes.
func (c *Client) RebuildIndexes(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.UInt64Value, error) {
	out := new(wrapperspb.UInt64Value)
	if err := c.cc.Invoke(ctx, RebuildIndexesMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
