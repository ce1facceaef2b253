package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceTypeFromUserAgent(t *testing.T) {
	cases := []struct {
		ua   string
		want string
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148", DeviceMobile},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8) Mobile Safari/537.36", DeviceMobile},
		{"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) Mobile/15E148", DeviceTablet},
		{"Mozilla/5.0 (Linux; Android 13; SM-X700 Tablet) Safari/537.36", DeviceTablet},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/126.0", DeviceDesktop},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5) Safari/605.1.15", DeviceDesktop},
		{"", DeviceDesktop},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DeviceTypeFromUserAgent(tc.ua), "ua %q", tc.ua)
	}
}
