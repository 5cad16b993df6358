package client

import (
	"context"
	"net/http"
)

// ScanService handles scan API calls
type ScanService struct {
	client *Client
}

// Run triggers an immediate portfolio scan and returns its result
func (s *ScanService) Run(ctx context.Context) (*ScanResult, error) {
	var result ScanResult
	if err := s.client.doRequest(ctx, http.MethodPost, "/api/v1/scans", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
