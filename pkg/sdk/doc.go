// Package contactsearch provides an embedded Go client for the hybrid
// contact search engine. It wires the full pipeline (parsing, lexical and
// semantic recall, feature scoring, diversification, caching) in-process, so
// applications can search their contact graph without running the HTTP
// service.
//
//	client, _ := contactsearch.New(ctx)
//	defer client.Close()
//
//	_, _ = client.BuildIndexes(ctx, "tenant-1", contacts)
//	resp, _ := client.Search(ctx, contactsearch.SearchParams{
//	    Tenant: "tenant-1",
//	    Query:  "product managers at google",
//	})
//
// Without an embedder the engine runs lexical-only; semantic recall and the
// LLM reasoning paths activate when WithEmbedder and WithReasoner are set.
package contactsearch
