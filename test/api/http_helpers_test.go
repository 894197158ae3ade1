package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// sendAs sends a JSON request authenticated as userID (the identity stub
// resolves the bearer token to the user id) and decodes the response body
// into TResp when statusCode matches.
func sendAs[TReq any, TResp any](
	c *http.Client,
	userID string,
	method string,
	url string,
	req TReq,
) (*http.Response, TResp, error) {
	var decoded TResp

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, decoded, err
	}

	httpReq, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, decoded, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+userID)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.Do(httpReq)
	if err != nil {
		return nil, decoded, err
	}
	defer httpResp.Body.Close()

	responsePayload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return httpResp, decoded, err
	}

	if len(responsePayload) > 0 && httpResp.StatusCode < 400 {
		if err := json.Unmarshal(responsePayload, &decoded); err != nil {
			return httpResp, decoded, fmt.Errorf("decode response: %w: %s", err, responsePayload)
		}
	}

	return httpResp, decoded, nil
}

func getAs[TResp any](c *http.Client, userID, url string) (*http.Response, TResp, error) {
	return sendAs[struct{}, TResp](c, userID, http.MethodGet, url, struct{}{})
}
