// Package gateway provides a gateway to the GitHub REST API,
// abstracting away the underlying go-github client.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/gitmetrics/internal/domain"
)

const (
	// reposPerPage is the single page of repositories a profile query reads.
	reposPerPage = 100
	// suggestionsPerPage bounds the incremental user search.
	suggestionsPerPage = 5

	defaultTimeout          = 15 * time.Second
	defaultMaxRateLimitWait = 30 * time.Second
)

// Fetcher defines the reads a profile query needs from GitHub.
type Fetcher interface {
	FetchProfile(ctx context.Context, username string) (*domain.Profile, error)
	FetchRepos(ctx context.Context, username string) ([]domain.Repository, error)
}

// UserSearcher defines the incremental user lookup used for suggestions.
type UserSearcher interface {
	SearchUsers(ctx context.Context, partial string) ([]domain.UserSuggestion, error)
}

// Options configures a GitHubGateway. The zero value talks to api.github.com anonymously.
type Options struct {
	// Token is an optional bearer credential. Without it requests are anonymous and rate limited.
	Token string
	// BaseURL overrides the REST endpoint, e.g. for GitHub Enterprise.
	BaseURL string
	// Timeout bounds every single HTTP request.
	Timeout time.Duration
	// MaxRateLimitWait is the longest the client sleeps on a secondary rate limit
	// before failing the request instead.
	MaxRateLimitWait time.Duration
}

// GitHubGateway is the concrete implementation of Fetcher and UserSearcher.
type GitHubGateway struct {
	restClient *github.Client
	logger     zerolog.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, logger zerolog.Logger) (*GitHubGateway, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRateLimitWait <= 0 {
		opts.MaxRateLimitWait = defaultMaxRateLimitWait
	}

	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(opts.MaxRateLimitWait, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = rateLimitWaiter
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
		}
	} else {
		logger.Warn().Msg("no GitHub token configured, using unauthenticated API (rate limited)")
	}

	restClient := github.NewClient(&http.Client{Transport: transport, Timeout: opts.Timeout})
	if opts.BaseURL != "" {
		baseURL, err := parseBaseURL(opts.BaseURL)
		if err != nil {
			return nil, err
		}
		restClient.BaseURL = baseURL
	}

	return &GitHubGateway{
		restClient: restClient,
		logger:     logger,
	}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("invalid API base URL %q", raw)
	}
	return u, nil
}

// FetchProfile reads a single account. A missing account yields domain.ErrNotFound.
func (g *GitHubGateway) FetchProfile(ctx context.Context, username string) (*domain.Profile, error) {
	g.logger.Debug().Str("user", username).Msg("fetching profile")
	user, _, err := g.restClient.Users.Get(ctx, username)
	if err != nil {
		return nil, classify(ctx, "failed to fetch profile", err, true)
	}
	profile := toProfile(user)
	g.logger.Debug().Str("user", username).Int("public_repos", profile.PublicRepos).Msg("completed fetching profile")
	return &profile, nil
}

// FetchRepos reads the most recently updated repositories of username, one page only.
func (g *GitHubGateway) FetchRepos(ctx context.Context, username string) ([]domain.Repository, error) {
	g.logger.Debug().Str("user", username).Msg("fetching repositories")
	opts := &github.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: reposPerPage},
	}
	result, resp, err := g.restClient.Repositories.ListByUser(ctx, username, opts)
	if err != nil {
		return nil, classify(ctx, "failed to fetch repositories", err, false)
	}
	if resp != nil && resp.NextPage != 0 {
		g.logger.Debug().Str("user", username).Msg("more repositories available than one page, ignoring the rest")
	}

	repos := make([]domain.Repository, 0, len(result))
	for _, r := range result {
		repos = append(repos, toRepository(r))
	}
	g.logger.Debug().Str("user", username).Int("count", len(repos)).Msg("completed fetching repositories")
	return repos, nil
}

// SearchUsers returns up to five accounts matching partial.
func (g *GitHubGateway) SearchUsers(ctx context.Context, partial string) ([]domain.UserSuggestion, error) {
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: suggestionsPerPage}}
	result, _, err := g.restClient.Search.Users(ctx, partial, opts)
	if err != nil {
		return nil, classify(ctx, "failed to search users", err, false)
	}

	suggestions := make([]domain.UserSuggestion, 0, len(result.Users))
	for _, u := range result.Users {
		suggestions = append(suggestions, domain.UserSuggestion{
			ID:        u.GetID(),
			Login:     u.GetLogin(),
			AvatarURL: u.GetAvatarURL(),
			Type:      u.GetType(),
		})
	}
	return suggestions, nil
}

// classify maps a go-github error onto the domain error taxonomy.
// Only the profile read may report ErrNotFound; a 404 elsewhere is a plain fetch failure.
func classify(ctx context.Context, msg string, err error, notFoundAllowed bool) error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%s: %w", msg, domain.ErrCanceled)
	}
	var errResp *github.ErrorResponse
	if notFoundAllowed && errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", msg, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", msg, domain.ErrFetchFailed, err)
}

func toProfile(u *github.User) domain.Profile {
	return domain.Profile{
		Login:       u.GetLogin(),
		Name:        u.GetName(),
		AvatarURL:   u.GetAvatarURL(),
		HTMLURL:     u.GetHTMLURL(),
		Bio:         u.GetBio(),
		Location:    u.GetLocation(),
		Company:     u.GetCompany(),
		Blog:        u.GetBlog(),
		PublicRepos: u.GetPublicRepos(),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
		CreatedAt:   u.GetCreatedAt().Time,
	}
}

func toRepository(r *github.Repository) domain.Repository {
	return domain.Repository{
		ID:              r.GetID(),
		Name:            r.GetName(),
		Description:     r.GetDescription(),
		Language:        r.GetLanguage(),
		StargazersCount: r.GetStargazersCount(),
		ForksCount:      r.GetForksCount(),
		Fork:            r.GetFork(),
		CreatedAt:       r.GetCreatedAt().Time,
		UpdatedAt:       r.GetUpdatedAt().Time,
		HTMLURL:         r.GetHTMLURL(),
	}
}
