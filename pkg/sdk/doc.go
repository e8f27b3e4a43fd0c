// Package studysearch provides an embeddable client for semantic search over
// space biology study records.
//
// Every query fetches candidate studies from the study search API, fits a
// fresh latent semantic model over their titles and ranks them against the
// query. Nothing is indexed ahead of time; an optional Redis or Valkey cache
// only stores the raw upstream records.
//
//	client, _ := studysearch.New(ctx,
//	    studysearch.WithTopN(10),
//	    studysearch.WithRedis("localhost:6379", ""),
//	)
//	defer client.Close()
//	studies, _ := client.Search(ctx, "root growth in microgravity", nil)
//	for _, s := range studies {
//	    fmt.Printf("%6.2f%%  %s  %s\n", s.Relevance, s.Accession, s.Title)
//	}
package studysearch
