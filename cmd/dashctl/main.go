package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	pb "seasonality-dashboard/src/grpc_control"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const usage = `usage: dashctl [-addr host:port] <command> [arg]

commands:
  asset <ticker>     choose (or clear) an asset
  year <year>        click a year in the range picker
  range <preset>     set the time range (all, 90d, 30d, 7d)
  submit             fetch both series for the current selection
  view               print the combined view
`

// -----------------------------------------------------------------------------

func main() {
	addr := flag.String("addr", "127.0.0.1:50051", "gRPC control address")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	reply, err := run(ctx, pb.NewDashboardControlClient(conn), flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	out, err := protojson.MarshalOptions{Multiline: true}.Marshal(reply)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

// -----------------------------------------------------------------------------

func run(ctx context.Context, client *pb.DashboardControlClient, args []string) (*structpb.Struct, error) {
	arg := func() (string, error) {
		if len(args) < 2 {
			return "", fmt.Errorf("%s needs an argument\n\n%s", args[0], usage)
		}
		return args[1], nil
	}

	switch args[0] {
	case "asset":
		ticker, err := arg()
		if err != nil {
			return nil, err
		}
		return client.ChooseAsset(ctx, ticker)
	case "year":
		raw, err := arg()
		if err != nil {
			return nil, err
		}
		year, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("bad year %q: %w", raw, err)
		}
		return client.ClickYear(ctx, year)
	case "range":
		preset, err := arg()
		if err != nil {
			return nil, err
		}
		return client.SetTimeRange(ctx, preset)
	case "submit":
		return client.Submit(ctx)
	case "view":
		return client.GetView(ctx)
	default:
		return nil, fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
}
