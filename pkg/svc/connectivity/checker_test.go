package connectivity_test

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	"github.com/devantler-tech/obsail/pkg/svc/connectivity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnreachable = errors.New("network is unreachable")

// fakeDialer succeeds only for endpoints listed in reachable.
type fakeDialer struct {
	mu        sync.Mutex
	reachable map[string]bool
	dialed    []string
}

func (d *fakeDialer) DialContext(_ context.Context, _, address string) (net.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dialed = append(d.dialed, address)

	if !d.reachable[address] {
		return nil, errUnreachable
	}

	client, server := net.Pipe()
	_ = server.Close()

	return client, nil
}

func TestCheck_StopsAtFirstReachableEndpoint(t *testing.T) {
	t.Parallel()

	dialer := &fakeDialer{reachable: map[string]bool{"114.114.114.114:53": true, "223.5.5.5:53": true}}
	checker := connectivity.NewChecker(connectivity.WithDialer(dialer))

	result := checker.Check(context.Background())

	assert.True(t, result.Connected)
	assert.Equal(t, "114.114.114.114:53", result.Endpoint)
	assert.Equal(t, []string{"8.8.8.8:53", "114.114.114.114:53"}, dialer.dialed)
	require.Len(t, result.Attempts, 2)
	require.ErrorIs(t, result.Attempts[0].Err, errUnreachable)
	assert.NoError(t, result.Attempts[1].Err)
}

func TestCheck_NothingReachable(t *testing.T) {
	t.Parallel()

	dialer := &fakeDialer{}
	checker := connectivity.NewChecker(connectivity.WithDialer(dialer))

	result := checker.Check(context.Background())

	assert.False(t, result.Connected)
	assert.Empty(t, result.Endpoint)
	assert.Equal(t, v1alpha1.DefaultConnectivityEndpoints(), dialer.dialed)
	assert.Len(t, result.Attempts, 3)
}

func TestCheck_CanceledContextStopsProbing(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dialer := &fakeDialer{reachable: map[string]bool{"8.8.8.8:53": true}}
	result := connectivity.NewChecker(connectivity.WithDialer(dialer)).Check(ctx)

	assert.False(t, result.Connected)
	assert.Empty(t, dialer.dialed)
	require.Len(t, result.Attempts, 1)
	assert.ErrorIs(t, result.Attempts[0].Err, context.Canceled)
}

func TestCheck_RealListener(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	t.Cleanup(func() { _ = listener.Close() })

	go func() {
		conn, acceptErr := listener.Accept()
		if acceptErr == nil {
			_ = conn.Close()
		}
	}()

	checker := connectivity.NewChecker(
		connectivity.WithEndpoints(listener.Addr().String()),
		connectivity.WithTimeout(time.Second),
	)

	result := checker.Check(context.Background())

	assert.True(t, result.Connected)
	assert.Equal(t, listener.Addr().String(), result.Endpoint)
}

func TestNewChecker_IgnoresEmptyOptions(t *testing.T) {
	t.Parallel()

	checker := connectivity.NewChecker(
		connectivity.WithEndpoints(),
		connectivity.WithTimeout(0),
		connectivity.WithDialer(nil),
		connectivity.WithLogger(nil),
	)

	assert.Equal(t, v1alpha1.DefaultConnectivityEndpoints(), checker.Endpoints())
}
