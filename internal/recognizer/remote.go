package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"github.com/disintegration/imaging"

	"go-vastu-inspector/internal/analyzer"
	apperrors "go-vastu-inspector/internal/errors"
)

// maxRemoteResponseSize caps the OCR response body
const maxRemoteResponseSize = 8 << 20

// Remote posts the canvas as PNG to an OCR endpoint and reads back words.
// The endpoint answers {"words":[{"text","confidence","bbox":{x0,y0,x1,y1}}]}
// with boxes in the pixel space of the posted image. Failed calls are
// not retried.
type Remote struct {
	endpoint string
	client   *http.Client
}

type remoteResponse struct {
	Words []analyzer.RecognizedWord `json:"words"`
	Error string                    `json:"error,omitempty"`
}

// NewRemote creates a recognizer for endpoint. A nil client gets a
// default one with timeout.
func NewRemote(endpoint string, client *http.Client, timeout time.Duration) (*Remote, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("remote OCR endpoint is required")
	}
	if client == nil {
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   4,
				IdleConnTimeout:       30 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
			Timeout: timeout,
		}
	}
	return &Remote{endpoint: endpoint, client: client}, nil
}

func (r *Remote) Recognize(ctx context.Context, img image.Image) ([]analyzer.RecognizedWord, error) {
	var body bytes.Buffer
	if err := imaging.Encode(&body, img, imaging.PNG); err != nil {
		return nil, apperrors.NewRecognitionError("failed to encode canvas for remote OCR", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, &body)
	if err != nil {
		return nil, apperrors.NewRecognitionError("invalid remote OCR endpoint", err)
	}
	req.Header.Set("Content-Type", "image/png")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Go-Vastu-Inspector/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError("remote OCR did not answer in time", err)
		}
		return nil, apperrors.NewRecognitionError("remote OCR request failed", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteResponseSize))
	if err != nil {
		return nil, apperrors.NewRecognitionError("failed to read remote OCR response", err)
	}

	var decoded remoteResponse
	if resp.StatusCode != http.StatusOK {
		_ = json.Unmarshal(payload, &decoded)
		msg := fmt.Sprintf("remote OCR returned status %d", resp.StatusCode)
		if decoded.Error != "" {
			msg += ": " + decoded.Error
		}
		return nil, apperrors.NewRecognitionError(msg, nil)
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, apperrors.NewRecognitionError("malformed remote OCR response", err)
	}
	if decoded.Words == nil {
		decoded.Words = []analyzer.RecognizedWord{}
	}
	return decoded.Words, nil
}

// Close releases idle connections
func (r *Remote) Close() error {
	r.client.CloseIdleConnections()
	return nil
}
