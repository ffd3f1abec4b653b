// models.go
// ----------
// Typed response models for the Cognee API. Fields mirror the server's JSON
// payloads; anything the server omits stays at its zero value.
package cognee

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SearchType selects the retrieval strategy for Search.
type SearchType string

const (
	SearchSummaries                       SearchType = "SUMMARIES"
	SearchChunks                          SearchType = "CHUNKS"
	SearchRAGCompletion                   SearchType = "RAG_COMPLETION"
	SearchGraphCompletion                 SearchType = "GRAPH_COMPLETION"
	SearchGraphSummaryCompletion          SearchType = "GRAPH_SUMMARY_COMPLETION"
	SearchCode                            SearchType = "CODE"
	SearchCypher                          SearchType = "CYPHER"
	SearchNaturalLanguage                 SearchType = "NATURAL_LANGUAGE"
	SearchGraphCompletionCOT              SearchType = "GRAPH_COMPLETION_COT"
	SearchGraphCompletionContextExtension SearchType = "GRAPH_COMPLETION_CONTEXT_EXTENSION"
	SearchFeelingLucky                    SearchType = "FEELING_LUCKY"
	SearchFeedback                        SearchType = "FEEDBACK"
	SearchTemporal                        SearchType = "TEMPORAL"
	SearchCodingRules                     SearchType = "CODING_RULES"
	SearchChunksLexical                   SearchType = "CHUNKS_LEXICAL"
)

// PipelineRunStatus is the processing state of a dataset pipeline.
type PipelineRunStatus string

const (
	PipelinePending   PipelineRunStatus = "pending"
	PipelineRunning   PipelineRunStatus = "running"
	PipelineCompleted PipelineRunStatus = "completed"
	PipelineFailed    PipelineRunStatus = "failed"
)

// User is an API user account.
type User struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Dataset is a named collection of data items.
type Dataset struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	OwnerID   *uuid.UUID `json:"ownerId,omitempty"`
}

// DataItem is one piece of data stored in a dataset.
type DataItem struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
	Extension       string     `json:"extension,omitempty"`
	MimeType        string     `json:"mimeType,omitempty"`
	RawDataLocation string     `json:"rawDataLocation,omitempty"`
	DatasetID       *uuid.UUID `json:"datasetId,omitempty"`
}

// AddResult reports the outcome of an Add call.
type AddResult struct {
	Status            string           `json:"status"`
	Message           string           `json:"message,omitempty"`
	DataID            *uuid.UUID       `json:"data_id,omitempty"`
	DatasetID         *uuid.UUID       `json:"dataset_id,omitempty"`
	PipelineRunID     *uuid.UUID       `json:"pipeline_run_id,omitempty"`
	DatasetName       string           `json:"dataset_name,omitempty"`
	DataIngestionInfo []map[string]any `json:"data_ingestion_info,omitempty"`
}

// normalize backfills DataID from the ingestion info, matching the server's
// newer response shape where only data_ingestion_info carries the ID.
func (r *AddResult) normalize() {
	if r.DataID != nil || len(r.DataIngestionInfo) == 0 {
		return
	}
	if raw, ok := r.DataIngestionInfo[0]["data_id"].(string); ok {
		if id, err := uuid.Parse(raw); err == nil {
			r.DataID = &id
		}
	}
}

// DeleteResult reports the outcome of a Delete call.
type DeleteResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// UpdateResult reports the outcome of an Update call.
type UpdateResult struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	DataID  *uuid.UUID `json:"data_id,omitempty"`
}

// CognifyResult reports one dataset's pipeline run from a Cognify call.
type CognifyResult struct {
	PipelineRunID uuid.UUID `json:"pipeline_run_id"`
	Status        string    `json:"status"`
	EntityCount   *int      `json:"entity_count,omitempty"`
	Duration      *float64  `json:"duration,omitempty"`
	Message       string    `json:"message,omitempty"`
}

// MemifyResult reports the outcome of a Memify call.
type MemifyResult struct {
	PipelineRunID uuid.UUID `json:"pipeline_run_id"`
	Status        string    `json:"status"`
	Message       string    `json:"message,omitempty"`
}

// SearchResult is one search hit. The exact shape varies by search type;
// Extra keeps the full raw object for fields not modeled here.
type SearchResult struct {
	ID       string          `json:"id,omitempty"`
	Text     string          `json:"text,omitempty"`
	Score    *float64        `json:"score,omitempty"`
	Metadata map[string]any  `json:"metadata,omitempty"`
	Extra    json.RawMessage `json:"-"`
}

// UnmarshalJSON keeps the raw object in Extra alongside the typed fields.
func (r *SearchResult) UnmarshalJSON(data []byte) error {
	type alias SearchResult
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = SearchResult(a)
	r.Extra = append([]byte(nil), data...)
	return nil
}

// CombinedSearchResult is returned when the server combines context into a
// single completion.
type CombinedSearchResult struct {
	Result   string         `json:"result"`
	Context  []string       `json:"context,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// SearchHistoryItem is one past query of the authenticated user.
type SearchHistoryItem struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// GraphNode is a node of a dataset's knowledge graph.
type GraphNode struct {
	ID         uuid.UUID      `json:"id"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties,omitempty"`
}

// GraphEdge connects two graph nodes.
type GraphEdge struct {
	Source uuid.UUID `json:"source"`
	Target uuid.UUID `json:"target"`
	Label  string    `json:"label"`
}

// GraphData is the knowledge graph of one dataset.
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// SyncResult reports a sync-to-cloud run.
type SyncResult struct {
	RunID        string      `json:"run_id"`
	Status       string      `json:"status"`
	DatasetIDs   []uuid.UUID `json:"dataset_ids"`
	DatasetNames []string    `json:"dataset_names"`
	Message      string      `json:"message"`
	Timestamp    *time.Time  `json:"timestamp,omitempty"`
	UserID       *uuid.UUID  `json:"user_id,omitempty"`
}

// SyncStatus summarizes running sync operations.
type SyncStatus struct {
	HasRunningSync    bool           `json:"has_running_sync"`
	RunningSyncCount  int            `json:"running_sync_count"`
	LatestRunningSync map[string]any `json:"latest_running_sync,omitempty"`
}

// HealthStatus is the server health report.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ProgressEvent is one message from a pipeline progress subscription.
type ProgressEvent struct {
	Status  string          `json:"status"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// terminal reports whether this event ends the subscription.
func (e ProgressEvent) terminal() bool {
	return e.Status == "completed" || e.Status == "PipelineRunCompleted"
}
