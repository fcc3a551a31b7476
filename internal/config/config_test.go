package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAddr(t *testing.T) {
	conf := HTTPConfig{Host: "127.0.0.1", Port: 2000}
	require.Equal(t, "127.0.0.1:2000", conf.Addr())
}

func TestDecodeDuration(t *testing.T) {
	hook := decodeDuration()

	value, errDecode := hook(reflect.TypeOf(""), reflect.TypeOf(time.Duration(0)), "10s")
	require.NoError(t, errDecode)
	require.Equal(t, 10*time.Second, value)

	_, errInvalid := hook(reflect.TypeOf(""), reflect.TypeOf(time.Duration(0)), "not-a-duration")
	require.Error(t, errInvalid)

	passthrough, errPassthrough := hook(reflect.TypeOf(0), reflect.TypeOf(time.Duration(0)), 100)
	require.NoError(t, errPassthrough)
	require.Equal(t, 100, passthrough)
}
