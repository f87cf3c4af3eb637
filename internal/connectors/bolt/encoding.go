package bolt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// AcceptEncoding is the set of encodings the client advertises.
// Setting it by hand disables net/http's transparent gzip, so every
// advertised encoding is decoded here.
const AcceptEncoding = "gzip, deflate, br"

// decodeBody wraps body in the decoder for encoding.
func decodeBody(encoding string, body io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return io.NopCloser(body), nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, nil
	case "deflate":
		return newDeflateReader(body)
	case "br":
		return brotli.NewReader(body), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

// newDeflateReader accepts both zlib-wrapped and raw deflate streams;
// servers disagree on what "deflate" means.
func newDeflateReader(body io.Reader) (io.Reader, error) {
	br := bufio.NewReader(body)
	header, err := br.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if len(header) == 2 && isZlibHeader(header[0], header[1]) {
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("deflate: %w", err)
		}
		return zr, nil
	}
	return flate.NewReader(br), nil
}

// isZlibHeader checks the CMF/FLG pair of RFC 1950.
func isZlibHeader(cmf, flg byte) bool {
	return cmf&0x0f == 8 && (uint16(cmf)<<8|uint16(flg))%31 == 0
}
