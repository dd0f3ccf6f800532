package drive

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const readOnlyScope = "https://www.googleapis.com/auth/drive.readonly"

// NewHTTPClient builds an authenticated client from a service-account key
// file. There is no overall timeout so large downloads can stream; only the
// wait for response headers is bounded.
func NewHTTPClient(ctx context.Context, keyFile string, headerTimeout time.Duration) (*http.Client, error) {
	b, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, b, readOnlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse key file: %w", err)
	}
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.ResponseHeaderTimeout = headerTimeout
	return &http.Client{
		Transport: &oauth2.Transport{Source: creds.TokenSource, Base: base},
	}, nil
}
