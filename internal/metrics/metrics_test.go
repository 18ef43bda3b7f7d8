package metrics

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-i2cbridge/bridge"
	"github.com/moffa90/go-i2cbridge/bus"
	"github.com/moffa90/go-i2cbridge/protocol"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&protocol.HexError{Token: "zz"}, ClassParse},
		{&protocol.AddressError{Token: "07"}, ClassParse},
		{&protocol.ByteCountError{What: "read count", Count: 0}, ClassParse},
		{bridge.ErrNoAddressSet, ClassNoAddress},
		{bridge.ErrNoDeviceResponse, ClassNoResponse},
		{&bridge.BusError{Operation: "write", Address: 0x50, Code: protocol.ResultNackAddress}, ClassBus},
		{errors.New("boom"), ClassOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), tt.err.Error())
	}
}

func TestCollector_ObserveBridge(t *testing.T) {
	m := New()

	imu := bus.NewDevice(0x6B)
	imu.SetRegister(0x0F, 0x6C)
	b := bridge.New(bus.NewSimulator(imu), bridge.WithEventCallback(m.Observe))

	var out bytes.Buffer
	for _, line := range []string{"r 1", "a 6b", "wr 0f 1", "a 50", "w 01 02", "a 07"} {
		require.NoError(t, b.Handle(&out, line))
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("r", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.commands.WithLabelValues("a", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("a", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("wr", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("w", "error")))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues(ClassNoAddress)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues(ClassBus)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues(ClassParse)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.busResults.WithLabelValues("NACK_on_address")))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.bytesWritten))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bytesRead))
	assert.Equal(t, 4, testutil.CollectAndCount(m.duration))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Observe(bridge.Event{Kind: protocol.KindRead, BytesRead: 2, Duration: time.Millisecond})

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", string(body))

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `i2cbridge_commands_total{command="r",outcome="ok"} 1`)
	assert.Contains(t, string(body), "i2cbridge_bytes_read_total 2")

	resp, err = http.Post(srv.URL+"/metrics", "text/plain", strings.NewReader(""))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServe(t *testing.T) {
	// reserve a free port
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr, New().Handler()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
