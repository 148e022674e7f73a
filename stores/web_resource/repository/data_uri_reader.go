package repository

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/domain"
	"golang.org/x/xerrors"
)

const dataUriSchema = "data:"

type dataUriReaderRepo struct {
}

// NewDataUriReaderRepo decodes inline documents, tokens minted fully on chain commonly use them
func NewDataUriReaderRepo() domain.WebResourceReaderRepository {
	return &dataUriReaderRepo{}
}

func (r *dataUriReaderRepo) Get(_ ctx.Ctx, uri string) ([]byte, error) {
	_, data, err := parseDataUri(uri)
	return data, err
}

// parseDataUri splits data:[<mediatype>][;base64],<data> into its media type and decoded payload
func parseDataUri(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, dataUriSchema) {
		return "", nil, xerrors.Errorf("invalid data uri")
	}
	header, payload, found := cut(strings.TrimPrefix(uri, dataUriSchema), ",")
	if !found || payload == "" {
		return "", nil, xerrors.Errorf("no data part provided")
	}

	isBase64 := false
	params := strings.Split(header, ";")
	mediaType := strings.TrimSpace(params[0])
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}
	if mediaType == "" {
		mediaType = "text/plain"
	}

	if isBase64 {
		data, err := decodeBase64(payload)
		if err != nil {
			return "", nil, xerrors.Errorf("decode base64 payload: %w", err)
		}
		return mediaType, data, nil
	}
	// percent-encoding is optional in the wild, keep the raw text when it does not unescape
	if unescaped, err := url.PathUnescape(payload); err == nil {
		return mediaType, []byte(unescaped), nil
	}
	return mediaType, []byte(payload), nil
}

// decodeBase64 accepts padded and unpadded, standard and url-safe alphabets
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func cut(s, sep string) (before, after string, found bool) {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, "", false
}
