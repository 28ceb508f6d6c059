package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommonLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	c := NewConfig(`tests`)
	c.SetOutput(buf)

	l, err := CommonLogger(c)
	require.NoError(t, err)

	l.Info("hello")
	l.Debug("hidden")

	got := make(map[string]any)
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "hello", got["msg"])
	require.Equal(t, "tests", got[KeyApp])
}

func TestCommonLogger_Invalid(t *testing.T) {
	_, err := CommonLogger(nil)
	require.Error(t, err)

	_, err = CommonLogger(NewConfig(""))
	require.Error(t, err)
}

func TestConfig_SetLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "debug", level: "debug"},
		{name: "empty", level: ""},
		{name: "upper", level: "WARN"},
		{name: "error", level: "error"},
		{name: "unknown", level: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(`tests`).SetLevel(tt.level)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
