// api.go
// -------
// The typed operation surface of the SDK. Every method here is a thin
// wrapper: build a request descriptor, hand it to the client runtime
// (cache → retry executor → pipeline), decode the response into a model.
package cognee

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// Health checks API server health.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	err := c.doJSON(ctx, &requestDescriptor{method: "GET", path: "/health"}, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// AddOptions addresses the dataset receiving uploaded data. Exactly one of
// DatasetName or DatasetID must be set; NodeSet optionally tags the data
// for graph organization.
type AddOptions struct {
	DatasetName string
	DatasetID   uuid.UUID
	NodeSet     []string
}

func (o *AddOptions) form() (map[string]string, error) {
	if o.DatasetName == "" && o.DatasetID == uuid.Nil {
		return nil, validationErr("either DatasetName or DatasetID must be provided")
	}
	form := map[string]string{}
	if o.DatasetName != "" {
		form["datasetName"] = o.DatasetName
	}
	if o.DatasetID != uuid.Nil {
		form["datasetId"] = o.DatasetID.String()
	}
	if len(o.NodeSet) > 0 {
		encoded, err := json.Marshal(o.NodeSet)
		if err != nil {
			return nil, fmt.Errorf("encode node set: %w", err)
		}
		form["node_set"] = string(encoded)
	}
	return form, nil
}

// Add uploads one or more data sources for processing. Bodies above the
// streaming threshold are streamed from their source instead of buffered.
func (c *Client) Add(ctx context.Context, sources []UploadSource, opts AddOptions) (*AddResult, error) {
	if len(sources) == 0 {
		return nil, validationErr("at least one upload source is required")
	}
	form, err := opts.form()
	if err != nil {
		return nil, err
	}

	var result AddResult
	d := &requestDescriptor{
		method: "POST",
		path:   "/api/v1/add",
		form:   form,
		parts:  sources,
	}
	if err := c.doJSON(ctx, d, &result); err != nil {
		return nil, err
	}
	result.normalize()
	return &result, nil
}

// AddText uploads a single text snippet.
func (c *Client) AddText(ctx context.Context, text string, opts AddOptions) (*AddResult, error) {
	return c.Add(ctx, []UploadSource{TextSource(text)}, opts)
}

// Update replaces the content of an existing data item.
func (c *Client) Update(ctx context.Context, dataID, datasetID uuid.UUID, source UploadSource, nodeSet []string) (*UpdateResult, error) {
	form := map[string]string{}
	if len(nodeSet) > 0 {
		encoded, err := json.Marshal(nodeSet)
		if err != nil {
			return nil, fmt.Errorf("encode node set: %w", err)
		}
		form["node_set"] = string(encoded)
	}
	query := url.Values{}
	query.Set("data_id", dataID.String())
	query.Set("dataset_id", datasetID.String())

	var result UpdateResult
	d := &requestDescriptor{
		method: "PATCH",
		path:   "/api/v1/update",
		query:  query,
		form:   form,
		parts:  []UploadSource{source},
	}
	if err := c.doJSON(ctx, d, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes a data item from a dataset. Mode is "soft" (default) or
// "hard".
func (c *Client) Delete(ctx context.Context, dataID, datasetID uuid.UUID, mode string) (*DeleteResult, error) {
	if mode == "" {
		mode = "soft"
	}
	query := url.Values{}
	query.Set("data_id", dataID.String())
	query.Set("dataset_id", datasetID.String())
	query.Set("mode", mode)

	var result DeleteResult
	d := &requestDescriptor{method: "DELETE", path: "/api/v1/delete", query: query}
	if err := c.doJSON(ctx, d, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CognifyOptions selects the datasets to process into knowledge graphs.
type CognifyOptions struct {
	Datasets        []string
	DatasetIDs      []uuid.UUID
	RunInBackground bool
	CustomPrompt    string
}

// Cognify transforms datasets into structured knowledge graphs. The server
// reports one run per dataset; a single-run response is keyed "default".
func (c *Client) Cognify(ctx context.Context, opts CognifyOptions) (map[string]CognifyResult, error) {
	if len(opts.Datasets) == 0 && len(opts.DatasetIDs) == 0 {
		return nil, validationErr("either Datasets or DatasetIDs must be provided")
	}

	payload := map[string]any{"run_in_background": opts.RunInBackground}
	if len(opts.Datasets) > 0 {
		payload["datasets"] = opts.Datasets
	}
	if len(opts.DatasetIDs) > 0 {
		payload["dataset_ids"] = uuidStrings(opts.DatasetIDs)
	}
	if opts.CustomPrompt != "" {
		payload["custom_prompt"] = opts.CustomPrompt
	}

	d, err := jsonDescriptor("POST", "/api/v1/cognify", payload)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, d)
	if err != nil {
		return nil, err
	}

	// Either a single run object or a map keyed by dataset.
	var single CognifyResult
	if err := json.Unmarshal(resp.body, &single); err == nil && single.PipelineRunID != uuid.Nil {
		return map[string]CognifyResult{"default": single}, nil
	}
	var many map[string]CognifyResult
	if err := decodeJSON(resp, &many); err != nil {
		return nil, err
	}
	return many, nil
}

// MemifyOptions configures knowledge-graph enrichment.
type MemifyOptions struct {
	DatasetName     string
	DatasetID       uuid.UUID
	ExtractionTasks []string
	EnrichmentTasks []string
	Data            string
	NodeName        []string
	RunInBackground bool
}

// Memify enriches a dataset's knowledge graph with memory algorithms.
func (c *Client) Memify(ctx context.Context, opts MemifyOptions) (*MemifyResult, error) {
	if opts.DatasetName == "" && opts.DatasetID == uuid.Nil {
		return nil, validationErr("either DatasetName or DatasetID must be provided")
	}

	payload := map[string]any{"run_in_background": opts.RunInBackground}
	if opts.DatasetName != "" {
		payload["dataset_name"] = opts.DatasetName
	}
	if opts.DatasetID != uuid.Nil {
		payload["dataset_id"] = opts.DatasetID.String()
	}
	if len(opts.ExtractionTasks) > 0 {
		payload["extraction_tasks"] = opts.ExtractionTasks
	}
	if len(opts.EnrichmentTasks) > 0 {
		payload["enrichment_tasks"] = opts.EnrichmentTasks
	}
	if opts.Data != "" {
		payload["data"] = opts.Data
	}
	if len(opts.NodeName) > 0 {
		payload["node_name"] = opts.NodeName
	}

	d, err := jsonDescriptor("POST", "/api/v1/memify", payload)
	if err != nil {
		return nil, err
	}
	var result MemifyResult
	if err := c.doJSON(ctx, d, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchOptions configures one knowledge-graph search.
type SearchOptions struct {
	Query              string
	SearchType         SearchType
	Datasets           []string
	DatasetIDs         []uuid.UUID
	SystemPrompt       string
	NodeName           []string
	TopK               int
	OnlyContext        bool
	UseCombinedContext bool
}

// SearchResponse is the decoded search outcome. Exactly one of Results or
// Combined is populated depending on the server's response shape; Raw
// always holds the undecoded payload.
type SearchResponse struct {
	Results  []SearchResult
	Combined *CombinedSearchResult
	Raw      json.RawMessage
}

// Search queries the knowledge graph. Search is a read-only query, so
// responses are served from the cache within the TTL.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (*SearchResponse, error) {
	if opts.Query == "" {
		return nil, validationErr("query cannot be empty")
	}
	if opts.SearchType == "" {
		opts.SearchType = SearchGraphCompletion
	}
	if opts.TopK == 0 {
		opts.TopK = 10
	}

	payload := map[string]any{
		"query":                opts.Query,
		"search_type":          string(opts.SearchType),
		"top_k":                opts.TopK,
		"only_context":         opts.OnlyContext,
		"use_combined_context": opts.UseCombinedContext,
	}
	if len(opts.Datasets) > 0 {
		payload["datasets"] = opts.Datasets
	}
	if len(opts.DatasetIDs) > 0 {
		payload["dataset_ids"] = uuidStrings(opts.DatasetIDs)
	}
	if opts.SystemPrompt != "" {
		payload["system_prompt"] = opts.SystemPrompt
	}
	if len(opts.NodeName) > 0 {
		payload["node_name"] = opts.NodeName
	}

	d, err := jsonDescriptor("POST", "/api/v1/search", payload)
	if err != nil {
		return nil, err
	}
	d.cacheable = true

	resp, err := c.do(ctx, d)
	if err != nil {
		return nil, err
	}

	out := &SearchResponse{Raw: append(json.RawMessage(nil), resp.body...)}
	var combined CombinedSearchResult
	if err := json.Unmarshal(resp.body, &combined); err == nil && combined.Result != "" {
		out.Combined = &combined
		return out, nil
	}
	if err := decodeJSON(resp, &out.Results); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchHistory lists past queries of the authenticated user.
func (c *Client) SearchHistory(ctx context.Context) ([]SearchHistoryItem, error) {
	var items []SearchHistoryItem
	d := &requestDescriptor{method: "GET", path: "/api/v1/search"}
	if err := c.doJSON(ctx, d, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListDatasets returns all datasets accessible to the authenticated user,
// served from the cache within the TTL.
func (c *Client) ListDatasets(ctx context.Context) ([]Dataset, error) {
	var datasets []Dataset
	d := &requestDescriptor{method: "GET", path: "/api/v1/datasets", cacheable: true}
	if err := c.doJSON(ctx, d, &datasets); err != nil {
		return nil, err
	}
	return datasets, nil
}

// CreateDataset creates a dataset, or returns the existing one with the
// same name.
func (c *Client) CreateDataset(ctx context.Context, name string) (*Dataset, error) {
	if name == "" {
		return nil, validationErr("dataset name cannot be empty")
	}
	d, err := jsonDescriptor("POST", "/api/v1/datasets", map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	var dataset Dataset
	if err := c.doJSON(ctx, d, &dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}

// DeleteDataset removes a dataset by ID.
func (c *Client) DeleteDataset(ctx context.Context, datasetID uuid.UUID) error {
	d := &requestDescriptor{method: "DELETE", path: "/api/v1/datasets/" + datasetID.String()}
	return c.doJSON(ctx, d, nil)
}

// DatasetData lists the data items of a dataset.
func (c *Client) DatasetData(ctx context.Context, datasetID uuid.UUID) ([]DataItem, error) {
	var items []DataItem
	d := &requestDescriptor{method: "GET", path: "/api/v1/datasets/" + datasetID.String() + "/data"}
	if err := c.doJSON(ctx, d, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// DatasetGraph returns the knowledge graph of a dataset.
func (c *Client) DatasetGraph(ctx context.Context, datasetID uuid.UUID) (*GraphData, error) {
	var graph GraphData
	d := &requestDescriptor{method: "GET", path: "/api/v1/datasets/" + datasetID.String() + "/graph"}
	if err := c.doJSON(ctx, d, &graph); err != nil {
		return nil, err
	}
	return &graph, nil
}

// DatasetStatus reports the pipeline status of the given datasets.
func (c *Client) DatasetStatus(ctx context.Context, datasetIDs []uuid.UUID) (map[uuid.UUID]PipelineRunStatus, error) {
	if len(datasetIDs) == 0 {
		return nil, validationErr("datasetIDs cannot be empty")
	}
	query := url.Values{}
	for _, id := range datasetIDs {
		query.Add("dataset", id.String())
	}

	var raw map[string]PipelineRunStatus
	d := &requestDescriptor{method: "GET", path: "/api/v1/datasets/status", query: query}
	if err := c.doJSON(ctx, d, &raw); err != nil {
		return nil, err
	}

	statuses := make(map[uuid.UUID]PipelineRunStatus, len(raw))
	for key, status := range raw {
		id, err := uuid.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("parse dataset id %q in status response: %w", key, err)
		}
		statuses[id] = status
	}
	return statuses, nil
}

// DownloadRawData fetches the raw bytes of one data item.
func (c *Client) DownloadRawData(ctx context.Context, datasetID, dataID uuid.UUID) ([]byte, error) {
	path := fmt.Sprintf("/api/v1/datasets/%s/data/%s/raw", datasetID, dataID)
	resp, err := c.do(ctx, &requestDescriptor{method: "GET", path: path})
	if err != nil {
		return nil, err
	}
	return resp.body, nil
}

// Login authenticates with email and password, stores the returned token on
// the client and returns it.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", validationErr("email and password are required")
	}
	d, err := jsonDescriptor("POST", "/api/v1/auth/login", map[string]string{
		"username": email,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	var result struct {
		AccessToken string `json:"access_token"`
		Token       string `json:"token"`
	}
	if err := c.doJSON(ctx, d, &result); err != nil {
		return "", err
	}
	token := result.AccessToken
	if token == "" {
		token = result.Token
	}
	if token == "" {
		return "", &AuthenticationError{APIError{
			StatusCode: 200,
			Message:    "token not found in login response",
		}}
	}
	c.SetToken(token)
	return token, nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, validationErr("email and password are required")
	}
	d, err := jsonDescriptor("POST", "/api/v1/auth/register", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	var user User
	if err := c.doJSON(ctx, d, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUser returns the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	d := &requestDescriptor{method: "GET", path: "/api/v1/auth/me"}
	if err := c.doJSON(ctx, d, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Visualize returns an HTML rendering of the dataset's knowledge graph.
func (c *Client) Visualize(ctx context.Context, datasetID uuid.UUID) (string, error) {
	query := url.Values{}
	query.Set("dataset_id", datasetID.String())
	resp, err := c.do(ctx, &requestDescriptor{method: "GET", path: "/api/v1/visualize", query: query})
	if err != nil {
		return "", err
	}
	return string(resp.body), nil
}

// SyncToCloud pushes local datasets to Cognee Cloud. A nil datasetIDs syncs
// everything.
func (c *Client) SyncToCloud(ctx context.Context, datasetIDs []uuid.UUID) (*SyncResult, error) {
	payload := map[string]any{}
	if len(datasetIDs) > 0 {
		payload["dataset_ids"] = uuidStrings(datasetIDs)
	}
	d, err := jsonDescriptor("POST", "/api/v1/sync", payload)
	if err != nil {
		return nil, err
	}
	var result SyncResult
	if err := c.doJSON(ctx, d, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CloudSyncStatus reports running sync operations.
func (c *Client) CloudSyncStatus(ctx context.Context) (*SyncStatus, error) {
	var status SyncStatus
	d := &requestDescriptor{method: "GET", path: "/api/v1/sync/status"}
	if err := c.doJSON(ctx, d, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// jsonDescriptor builds a descriptor with a serialized JSON body.
func jsonDescriptor(method, path string, payload any) (*requestDescriptor, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return &requestDescriptor{method: method, path: path, jsonBody: body}, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
