package repository

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	bCtx "github.com/x-xyz/marketclient/base/ctx"
)

const sunsetJson = `{"name":"Sunset #1","description":"first drop","image":"ipfs://QmSunset/1.png"}`

func TestParseDataUri(t *testing.T) {
	std := base64.StdEncoding.EncodeToString([]byte(sunsetJson + "?"))
	tests := []struct {
		name          string
		uri           string
		wantMediaType string
		want          string
		wantErr       bool
	}{
		{name: "invalid schema", uri: "https://url", wantErr: true},
		{name: "empty data part", uri: "data:application/json;base64,", wantErr: true},
		{name: "no comma", uri: "data:application/json;base64", wantErr: true},
		{name: "bad base64", uri: "data:application/json;base64,***", wantErr: true},
		{
			name:          "utf8 plain json",
			uri:           "data:application/json;utf8," + sunsetJson,
			wantMediaType: "application/json",
			want:          sunsetJson,
		},
		{
			name:          "percent encoded",
			uri:           `data:application/json,%7B%22name%22%3A%22Sunset%20%231%22%7D`,
			wantMediaType: "application/json",
			want:          `{"name":"Sunset #1"}`,
		},
		{
			name:          "stray percent kept raw",
			uri:           `data:,100%`,
			wantMediaType: "text/plain",
			want:          "100%",
		},
		{
			name:          "base64 padded",
			uri:           "data:application/json;base64," + std,
			wantMediaType: "application/json",
			want:          sunsetJson + "?",
		},
		{
			name:          "base64 unpadded url alphabet",
			uri:           "data:application/json;charset=utf-8;BASE64," + base64.RawURLEncoding.EncodeToString([]byte(sunsetJson+"?")),
			wantMediaType: "application/json",
			want:          sunsetJson + "?",
		},
		{
			name:          "comma inside payload",
			uri:           `data:application/json,{"name":"a,b"}`,
			wantMediaType: "application/json",
			want:          `{"name":"a,b"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			mediaType, got, err := parseDataUri(tt.uri)
			if tt.wantErr {
				req.Error(err)
				return
			}
			req.NoError(err)
			req.Equal(tt.wantMediaType, mediaType)
			req.Equal(tt.want, string(got))
		})
	}
}

func TestDataUriReaderGet(t *testing.T) {
	got, err := NewDataUriReaderRepo().Get(bCtx.Background(), "data:application/json;base64,"+base64.StdEncoding.EncodeToString([]byte(sunsetJson)))
	require.NoError(t, err)
	require.JSONEq(t, sunsetJson, string(got))
}
