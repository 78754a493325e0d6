package main

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segmeter/host/config"
)

func TestInitConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	v := config.Defaults()
	v.Serial.Device = "COM6"

	var out bytes.Buffer
	require.NoError(t, initConfig(fs, "segmeter.toml", v, &out))
	assert.Contains(t, out.String(), "Wrote segmeter.toml")

	got, err := config.Load(fs, "segmeter.toml")
	require.NoError(t, err)
	assert.Equal(t, v, got)

	assert.Error(t, initConfig(fs, "segmeter.toml", v, &out), "existing config must not be overwritten")
}
