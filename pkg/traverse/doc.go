// Package traverse reads the text files of a GitHub repository into a
// flat name to content mapping.
//
// A Session is built once and shared:
//
//	session, err := traverse.NewSessionBuilder().
//		AccessToken(os.Getenv("GITHUB_TOKEN")).
//		Recursive().
//		ExpireAfter(10 * time.Minute).
//		Build()
//	if err != nil { ... }
//	defer session.Close()
//
//	entry, _ := traverse.NewEntryBuilder().Owner("golang").Repo("example").Suffixes(".go").Build()
//	result := session.ReadWithFailure(ctx, entry, func(err error) { log.Print(err) }).Get()
//	for path, content := range result.All() { ... }
//
// Reads run asynchronously on the session worker pool and cannot be
// cancelled once started. Results are cached per repository: the cache
// key is "owner:repo", so a later read of the same repository with a
// different path or filters receives the cached result of the first one.
//
// A read that fails resolves to nil. The error is only observable through
// the callback given to ReadWithFailure; with Read, a failure and an
// empty lookup cannot be told apart.
package traverse
