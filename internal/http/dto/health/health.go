package health

type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// RootResponse describes the entry points of the API.
type RootResponse struct {
	Message            string `json:"message"`
	AuthEndpoint       string `json:"auth_endpoint"`
	RecordingsEndpoint string `json:"recordings_endpoint"`
}
