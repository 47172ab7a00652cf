package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// --- Voices (/voices) ---
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
}
type VoicesResp struct {
	Voices []Voice `json:"voices"`
}

func (h *HTTP) Voices(ctx context.Context, url string) (*VoicesResp, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+"/voices", nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("voices %s: %s", resp.Status, string(body))
	}

	var out VoicesResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("voices decode: %w", err)
	}
	return &out, nil
}
