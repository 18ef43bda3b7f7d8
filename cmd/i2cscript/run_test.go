package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-i2cbridge/bridge"
	"github.com/moffa90/go-i2cbridge/bus"
	"github.com/moffa90/go-i2cbridge/internal/transport"
)

func startBridge(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	imu := bus.NewDevice(0x6B)
	imu.SetRegister(0x0F, 0x6C)
	sim := bus.NewSimulator(imu)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = transport.Serve(ctx, ln, func(ctx context.Context, conn net.Conn) error {
			return bridge.New(sim).Serve(ctx, conn)
		}, nil)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
	})
	return "tcp://" + ln.Addr().String()
}

func TestRunCommand(t *testing.T) {
	endpoint := startBridge(t)

	path := filepath.Join(t.TempDir(), "probe.i2c")
	require.NoError(t, os.WriteFile(path, []byte("a 6b\nwr 0f 1   # WHO_AM_I\nEXPECT \"6.\"\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"run", path, "-p", endpoint, "--no-color", "--startup-wait", "50ms", "--settle", "20ms"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "---> wr 0f 1")
	assert.Contains(t, out.String(), "<--- 6C")
	assert.Contains(t, out.String(), `PASS line 3: EXPECT "6." got "6C"`)
	assert.Contains(t, out.String(), "OK: 2 commands, 1/1 expectations passed")
}
