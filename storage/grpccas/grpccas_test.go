package grpccas

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/sol-surfer-ai/agent-core/cidutil"
	"github.com/sol-surfer-ai/agent-core/storage"
	"github.com/sol-surfer-ai/agent-core/storage/localfs"
)

func newBufClient(t *testing.T) *Client {
	t.Helper()

	cas, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterCASServer(srv, &Server{CAS: cas})

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })

	return &Client{cc: cc, client: NewCASClient(cc), Timeout: 2 * time.Second}
}

func TestGRPCCAS_LocalFS_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newBufClient(t)

	payload := []byte("hello grpccas")
	id, err := client.Put(ctx, payload)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !id.Defined() {
		t.Fatalf("expected defined CID")
	}
	if !client.Has(ctx, id) {
		t.Fatalf("Has: expected true")
	}
	got, err := client.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestGRPCCAS_NotFoundMapsToStorageError(t *testing.T) {
	ctx := context.Background()
	client := newBufClient(t)

	id, err := cidutil.CIDv1RawSHA256CID([]byte("never stored"))
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID: %v", err)
	}
	if client.Has(ctx, id) {
		t.Fatalf("Has: expected false")
	}
	if _, err := client.Get(ctx, id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
	}
}

func TestGRPCCAS_CanceledContext(t *testing.T) {
	client := newBufClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Put(ctx, []byte("x")); err == nil {
		t.Fatalf("Put with canceled context should fail")
	}
}
