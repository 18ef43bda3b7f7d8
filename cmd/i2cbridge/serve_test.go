package main

import (
	"bufio"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-i2cbridge/bridge"
	"github.com/moffa90/go-i2cbridge/bus"
	"github.com/moffa90/go-i2cbridge/internal/config"
	"github.com/moffa90/go-i2cbridge/internal/logging"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	addServeFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: true\nbaud: 115200\nlisten: \":7000\"\n"), 0o644))

	cfg, err := loadConfig(newFlags(t, "--config", path, "--listen", "127.0.0.1:7777"))
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 115200, cfg.Baud)
	assert.Equal(t, "127.0.0.1:7777", cfg.Listen)
	assert.Equal(t, "sim", cfg.Bus)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultBridge(), cfg)
}

func TestOpenBus_DemoDevices(t *testing.T) {
	b, closeBus, err := openBus(config.DefaultBridge())
	require.NoError(t, err)
	defer func() { _ = closeBus() }()

	sim, ok := b.(*bus.Simulator)
	require.True(t, ok)

	imu, ok := sim.Device(0x6B)
	require.True(t, ok)
	assert.Equal(t, byte(0x6C), imu.Register(0x0F))

	_, ok = sim.Device(0x50)
	assert.True(t, ok)
}

func TestOpenBus_DevicesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.yaml")
	require.NoError(t, os.WriteFile(path, []byte("devices:\n  - address: 0x40\n"), 0o644))

	cfg := config.DefaultBridge()
	cfg.Devices = path

	b, _, err := openBus(cfg)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, b.Request(0x40, 1))

	cfg.Devices = filepath.Join(t.TempDir(), "missing.yaml")
	_, _, err = openBus(cfg)
	assert.Error(t, err)
}

func TestServe_Listen(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	cfg := config.DefaultBridge()
	cfg.Listen = addr
	cfg.Banner = false

	b, _, err := openBus(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, cfg, logging.NewNop(), b, []bridge.Option{bridge.WithBanner(cfg.Banner)})
	}()

	var conn net.Conn
	require.Eventually(t, func() bool {
		conn, err = net.Dial("tcp", addr)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)

	_, err = conn.Write([]byte("a 6b\nwr 0f 1\n"))
	require.NoError(t, err)

	reply, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "6C\n", reply)
	_ = conn.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
