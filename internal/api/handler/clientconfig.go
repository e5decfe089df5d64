package handler

import (
	"encoding/json"
	"net/http"

	"github.com/listkeeper/listkeeper/internal/config"
)

// clientConfig is the bare JSON object the browser client reads on startup.
// The shape and defaults are part of the client contract, so it is served
// without the usual response envelope.
type clientConfig struct {
	AzureEndpoint   string `json:"azureEndpoint"`
	AzureDeployment string `json:"azureDeployment"`
	AzureKey        string `json:"azureKey"`
	AzureAPIVersion string `json:"azureApiVersion"`
}

// ClientConfig serves the assistant connection settings.
func ClientConfig(cfg config.AzureConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apiVersion := cfg.APIVersion
		if apiVersion == "" {
			apiVersion = "2024-08-01-preview"
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		json.NewEncoder(w).Encode(clientConfig{
			AzureEndpoint:   cfg.Endpoint,
			AzureDeployment: cfg.Deployment,
			AzureKey:        cfg.Key,
			AzureAPIVersion: apiVersion,
		})
	}
}
