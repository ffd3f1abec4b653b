// doc.go
// -------
// Package cognee is a Go client for the Cognee knowledge-graph API.
//
// One Client owns one pooled transport and one response cache, so
// independently configured clients can coexist in a process. Every call
// flows through the same runtime: the response cache (for idempotent
// reads), the retry executor (classified outcomes, exponential backoff),
// and the request pipeline (auth, compression, buffered or streamed body
// framing), down to the shared connection pool.
//
// Typical usage:
//
//	cfg := cognee.DefaultConfig()
//	cfg.APIURL = "http://localhost:8000"
//	client, err := cognee.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	datasets, err := client.ListDatasets(ctx)
//
// Progress events for long-running pipelines arrive over an independent
// WebSocket channel, see Client.SubscribeCognifyProgress.
package cognee
