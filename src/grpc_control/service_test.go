package grpc_control

import (
	"context"
	"math"
	"net"
	"testing"

	"seasonality-dashboard/src/helpers"
	"seasonality-dashboard/src/logger"
	"seasonality-dashboard/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type stubController struct {
	ticker string
	years  []int
	gen    uint64
}

func (c *stubController) sel() models.MSelection {
	sel := models.MSelection{TimeRange: "all", RangeLabel: "Pick a year range"}
	if c.ticker != "" {
		sel.Asset = &models.MAsset{Ticker: c.ticker, Label: c.ticker}
	}
	return sel
}

func (c *stubController) ChooseAsset(ticker string) (models.MSelection, error) {
	if ticker == "NOPE" {
		return c.sel(), helpers.NewValidationError("unknown ticker %q", ticker)
	}
	c.ticker = ticker
	return c.sel(), nil
}

func (c *stubController) ClickYear(year int) (models.MSelection, error) {
	c.years = append(c.years, year)
	return c.sel(), nil
}

func (c *stubController) SetTimeRange(preset string) (models.MSelection, error) {
	return c.sel(), helpers.NewValidationError("unknown time range %q", preset)
}

func (c *stubController) Submit() (uint64, error) {
	if c.ticker == "" {
		return 0, helpers.ErrIncompleteSelection()
	}
	c.gen++
	return c.gen, nil
}

func (c *stubController) Selection() models.MSelection { return c.sel() }
func (c *stubController) Catalog() []models.MAsset     { return nil }
func (c *stubController) Stats() models.MControllerStats {
	return models.MControllerStats{Generation: c.gen}
}
func (c *stubController) View() models.MCombinedView {
	return models.MCombinedView{
		Type:        "UPDATE",
		Generation:  c.gen,
		Ticker:      c.ticker,
		Seasonality: models.NewPendingResult(),
		Volume:      models.NewFailureResult(helpers.KindNetwork, "bad status: 500 Internal Server Error"),
	}
}

func dial(t *testing.T, ctrl *stubController) *DashboardControlClient {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)

	srv := NewControlServer(&models.MConfig{}, NewControlService(ctrl, logger.NewNop()), logger.NewNop())
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewDashboardControlClient(conn)
}

func TestChooseAssetAndSubmit(t *testing.T) {
	ctrl := &stubController{}
	client := dial(t, ctrl)
	ctx := context.Background()

	_, err := client.Submit(ctx)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	sel, err := client.ChooseAsset(ctx, "GM")
	require.NoError(t, err)
	asset := sel.GetFields()["asset"].GetStructValue()
	assert.Equal(t, "GM", asset.GetFields()["value"].GetStringValue())

	reply, err := client.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(1), reply.GetFields()["generation"].GetNumberValue())
}

func TestChooseAssetErrors(t *testing.T) {
	client := dial(t, &stubController{})
	ctx := context.Background()

	_, err := client.ChooseAsset(ctx, "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.ChooseAsset(ctx, "NOPE")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "unknown ticker")
}

func TestClickYear(t *testing.T) {
	ctrl := &stubController{}
	client := dial(t, ctrl)

	_, err := client.ClickYear(context.Background(), 2021)
	require.NoError(t, err)
	assert.Equal(t, []int{2021}, ctrl.years)
}

func TestClickYearRejectsOutOfRange(t *testing.T) {
	ctrl := &stubController{}
	client := dial(t, ctrl)

	for _, year := range []float64{math.Inf(1), math.Inf(-1), math.NaN(), 1e300, -5, 0, 10000, 2021.5} {
		in := &structpb.Struct{Fields: map[string]*structpb.Value{"year": structpb.NewNumberValue(year)}}
		_, err := client.invoke(context.Background(), "ClickYear", in)
		assert.Equal(t, codes.InvalidArgument, status.Code(err), "year %v", year)
	}
	assert.Empty(t, ctrl.years)
}

func TestSetTimeRangeValidation(t *testing.T) {
	client := dial(t, &stubController{})
	_, err := client.SetTimeRange(context.Background(), "5y")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetView(t *testing.T) {
	client := dial(t, &stubController{ticker: "AAPL", gen: 3})

	view, err := client.GetView(context.Background())
	require.NoError(t, err)

	fields := view.GetFields()
	assert.Equal(t, "AAPL", fields["ticker"].GetStringValue())
	assert.Equal(t, float64(3), fields["generation"].GetNumberValue())
	assert.Equal(t, "pending", fields["seasonality"].GetStructValue().GetFields()["status"].GetStringValue())

	volume := fields["volume"].GetStructValue().GetFields()
	assert.Equal(t, "failure", volume["status"].GetStringValue())
	assert.Equal(t, "network", volume["error_kind"].GetStringValue())
}
