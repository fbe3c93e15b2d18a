// internal/config/validate_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to build a minimal valid config quickly
func fleetConfig(displays ...DisplayConfig) *Config {
	return &Config{Displays: displays}
}

func display(name string) DisplayConfig {
	return DisplayConfig{
		Name:   name,
		Host:   "192.168.1.100",
		Port:   8080,
		Width:  800,
		Height: 480,
	}
}

// ---- tests ----

func TestValidate_MinimalFleet(t *testing.T) {
	require.NoError(t, Validate(fleetConfig(display("living_room"))))
}

func TestValidate_ConflictingModes(t *testing.T) {
	d := display("kitchen")
	d.Tricolor = true
	d.Grayscale = true

	err := Validate(fleetConfig(d))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflictingModes)
}

func TestValidate_TricolorAloneOK(t *testing.T) {
	d := display("kitchen")
	d.Tricolor = true
	require.NoError(t, Validate(fleetConfig(d)))
}

func TestValidate_GrayscaleAloneOK(t *testing.T) {
	d := display("office")
	d.Grayscale = true
	require.NoError(t, Validate(fleetConfig(d)))
}

func TestValidate_DuplicateName(t *testing.T) {
	err := Validate(fleetConfig(display("kitchen"), display("kitchen")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate display name")
}

func TestValidate_EmptyFleet(t *testing.T) {
	require.Error(t, Validate(&Config{}))
}

func TestValidate_MissingHost(t *testing.T) {
	d := display("kitchen")
	d.Host = ""
	require.Error(t, Validate(fleetConfig(d)))
}

func TestValidate_BadResolution(t *testing.T) {
	d := display("kitchen")
	d.Width = 0
	require.Error(t, Validate(fleetConfig(d)))
}

func TestValidate_UnalignedWidth(t *testing.T) {
	d := display("odd")
	d.Width = 250
	err := Validate(fleetConfig(d))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple of 8")
}

func TestValidate_ScheduleUnknownDisplay(t *testing.T) {
	cfg := fleetConfig(display("kitchen"))
	cfg.Plugins = []PluginConfig{{Name: "clock", Kind: "clock"}}
	cfg.Schedule = []ScheduleConfig{{Display: "pantry", Plugin: "clock", Every: Duration(time.Minute)}}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown display")
}

func TestValidate_ScheduleUnknownPlugin(t *testing.T) {
	cfg := fleetConfig(display("kitchen"))
	cfg.Schedule = []ScheduleConfig{{Display: "kitchen", Plugin: "weather", Every: Duration(time.Minute)}}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown plugin")
}

func TestValidate_ScheduleZeroInterval(t *testing.T) {
	cfg := fleetConfig(display("kitchen"))
	cfg.Plugins = []PluginConfig{{Name: "clock", Kind: "clock"}}
	cfg.Schedule = []ScheduleConfig{{Display: "kitchen", Plugin: "clock"}}

	require.Error(t, Validate(cfg))
}

func TestValidate_DuplicatePlugin(t *testing.T) {
	cfg := fleetConfig(display("kitchen"))
	cfg.Plugins = []PluginConfig{
		{Name: "clock", Kind: "clock"},
		{Name: "clock", Kind: "clock"},
	}
	require.Error(t, Validate(cfg))
}

func TestNormalize_Defaults(t *testing.T) {
	d := display("kitchen")
	d.Port = 0
	cfg := fleetConfig(d)

	require.NoError(t, Validate(cfg))
	Normalize(cfg)

	assert.Equal(t, defaultDisplayPort, cfg.Displays[0].Port)
	assert.Equal(t, defaultListen, cfg.Server.Listen)
	assert.Equal(t, defaultSendTimeout, cfg.Server.SendTimeout)
	assert.Equal(t, defaultProbeTimeout, cfg.Server.ProbeTimeout)
	assert.Equal(t, defaultLogLevel, cfg.Server.Log.Level)
}
