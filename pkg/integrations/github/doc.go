// Package github provides an HTTP client for the GitHub REST API and the
// raw content host.
//
// # Usage
//
//	client := github.NewClient(github.Options{Token: os.Getenv("GITHUB_TOKEN")})
//
//	page, err := client.SearchCode(ctx, github.SearchRequest{
//	    Query:   "filename:publiccode.yml in:path",
//	    Page:    1,
//	    PerPage: 30,
//	    Sort:    github.SortIndexed,
//	    Order:   "desc",
//	})
//
//	repo, err := client.Repo(ctx, "italia", "design-react-kit")
//	fmt.Println("Stars:", repo.Stars, "Forks:", repo.Forks)
//
//	readme, err := client.RawFile(ctx, "italia", "design-react-kit", "main", "README.md", 10000)
//
// # Authentication
//
// A personal access token is optional but recommended. Code search needs
// authentication for useful quotas, and unauthenticated REST calls are
// limited to 60 requests/hour.
//
// # Errors
//
// Failures use the taxonomy of the parent package: rate limits, rejected
// credentials and upstream failures arrive as *errors.FetchError, and
// missing repositories or files wrap integrations.ErrNotFound. The client
// never retries and never caches.
package github
