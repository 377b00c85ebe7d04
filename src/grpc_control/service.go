package grpc_control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"

	"seasonality-dashboard/src/controller"
	"seasonality-dashboard/src/helpers"
	"seasonality-dashboard/src/interfaces"
	"seasonality-dashboard/src/logger"
	"seasonality-dashboard/src/models"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ControlService lets operators drive the shared selection over gRPC.
type ControlService struct {
	Controller interfaces.IChartController
	Logger     *logger.Logger
}

func NewControlService(ctrl interfaces.IChartController, log *logger.Logger) *ControlService {
	return &ControlService{Controller: ctrl, Logger: log}
}

// -----------------------------------------------------------------------------

func (s *ControlService) ChooseAsset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ticker := req.GetFields()["ticker"].GetStringValue()
	if ticker == "" {
		return nil, status.Error(codes.InvalidArgument, "ticker is required")
	}

	sel, err := s.Controller.ChooseAsset(ticker)
	if err != nil {
		return nil, s.toStatus("ChooseAsset", err)
	}
	return toStruct(sel)
}

// -----------------------------------------------------------------------------

const (
	minYear = 1
	maxYear = 9999
)

func (s *ControlService) ClickYear(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	v, ok := req.GetFields()["year"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "year is required")
	}
	year := v.GetNumberValue()
	if math.IsNaN(year) || year < minYear || year > maxYear {
		return nil, status.Errorf(codes.InvalidArgument, "year must be between %d and %d, got %v", minYear, maxYear, year)
	}
	if year != math.Trunc(year) {
		return nil, status.Errorf(codes.InvalidArgument, "year must be an integer, got %v", year)
	}

	sel, err := s.Controller.ClickYear(int(year))
	if err != nil {
		return nil, s.toStatus("ClickYear", err)
	}
	return toStruct(sel)
}

// -----------------------------------------------------------------------------

func (s *ControlService) SetTimeRange(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sel, err := s.Controller.SetTimeRange(req.GetFields()["time_range"].GetStringValue())
	if err != nil {
		return nil, s.toStatus("SetTimeRange", err)
	}
	return toStruct(sel)
}

// -----------------------------------------------------------------------------

func (s *ControlService) Submit(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	gen, err := s.Controller.Submit()
	if err != nil {
		return nil, s.toStatus("Submit", err)
	}
	s.Logger.Info("Submit via gRPC started generation %d", gen)
	return structpb.NewStruct(map[string]interface{}{"generation": float64(gen)})
}

// -----------------------------------------------------------------------------

func (s *ControlService) GetView(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(s.Controller.View())
}

// -----------------------------------------------------------------------------

func (s *ControlService) toStatus(method string, err error) error {
	switch {
	case helpers.IsValidationError(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, controller.ErrStopped):
		return status.Error(codes.Unavailable, err.Error())
	default:
		s.Logger.Error("%s failed: %v", method, err)
		return status.Error(codes.Internal, err.Error())
	}
}

// toStruct converts any JSON-encodable value into a protobuf Struct using its
// JSON field names.
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Server lifecycle
// -----------------------------------------------------------------------------

type ControlServer struct {
	Config     *models.MConfig
	Logger     *logger.Logger
	grpcServer *grpc.Server
}

func NewControlServer(cfg *models.MConfig, svc DashboardControlServer, log *logger.Logger) *ControlServer {
	grpcServer := grpc.NewServer()
	RegisterDashboardControlServer(grpcServer, svc)
	return &ControlServer{Config: cfg, Logger: log, grpcServer: grpcServer}
}

// Start listens on grpc_host:grpc_port and serves until Stop.
func (s *ControlServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.GrpcHost, s.Config.GrpcPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen for gRPC on %s: %w", addr, err)
	}
	return s.Serve(lis)
}

func (s *ControlServer) Serve(lis net.Listener) error {
	s.Logger.Info("Starting gRPC Control Server on %s", lis.Addr())
	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

func (s *ControlServer) Stop() {
	s.Logger.Info("Stopping gRPC Control Server")
	s.grpcServer.GracefulStop()
}
