// Package ytsearch embeds the ytsearch gateway operations in a Go program
// without running the HTTP server.
//
// Direct mode calls the embedding provider, the vector store and the YouTube
// Data API itself:
//
//	client, _ := ytsearch.New(ctx,
//	    ytsearch.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	    ytsearch.WithSupabase(os.Getenv("SUPABASE_URL"), os.Getenv("SUPABASE_KEY")),
//	    ytsearch.WithYouTube(os.Getenv("YOUTUBE_API_KEY")),
//	)
//	defer client.Close()
//	match, _ := client.SearchSimilar(ctx, "how do transformers work")
//
// Delegated mode runs an external script once per call:
//
//	client, _ := ytsearch.New(ctx, ytsearch.WithDelegate("python3", "my_mcp_client.py", "."))
package ytsearch
