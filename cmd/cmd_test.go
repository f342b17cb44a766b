package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/gitmetrics/internal/config"
	"github.com/naka-gawa/gitmetrics/internal/recent"
)

// slowUserDelay is how long the fake API takes to answer for alice and bob.
const slowUserDelay = 50 * time.Millisecond

type fakeGitHub struct {
	*httptest.Server
	searches atomic.Int32
}

// newFakeGitHub serves octocat with two repositories; ghost does not exist.
// alice and bob have no repositories and answer after slowUserDelay.
func newFakeGitHub(t *testing.T) *fakeGitHub {
	t.Helper()
	fake := &fakeGitHub{}
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login":"octocat","name":"The Octocat","public_repos":2,"followers":5,"following":1}`)
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id":1,"name":"hello-world","language":"Go","stargazers_count":10,"forks_count":2,"fork":false,"created_at":"2024-01-15T10:00:00Z","html_url":"https://github.com/octocat/hello-world"},
			{"id":2,"name":"forked","language":"Go","stargazers_count":100,"forks_count":50,"fork":true,"created_at":"2024-02-01T10:00:00Z","html_url":"https://github.com/octocat/forked"}
		]`)
	})
	mux.HandleFunc("/users/ghost", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	mux.HandleFunc("/users/ghost/repos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	for _, login := range []string{"alice", "bob"} {
		mux.HandleFunc("/users/"+login, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(slowUserDelay):
			case <-r.Context().Done():
				return
			}
			fmt.Fprintf(w, `{"login":%q}`, login)
		})
		mux.HandleFunc("/users/"+login+"/repos", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[]`)
		})
	}
	mux.HandleFunc("/search/users", func(w http.ResponseWriter, r *http.Request) {
		fake.searches.Add(1)
		fmt.Fprint(w, `{"total_count":2,"items":[{"id":1,"login":"octocat","type":"User"},{"id":2,"login":"octo-org","type":"Organization"}]}`)
	})
	fake.Server = httptest.NewServer(mux)
	t.Cleanup(fake.Close)
	return fake
}

// runCmd executes the root command with args and stdin and returns stdout.
func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func setupEnv(t *testing.T) (fake *fakeGitHub, recentFile string) {
	t.Helper()
	fake = newFakeGitHub(t)
	recentFile = filepath.Join(t.TempDir(), "recent.json")
	t.Setenv(config.EnvToken, "")
	t.Setenv(config.EnvAPIURL, fake.URL)
	t.Setenv(config.EnvRecentFile, recentFile)
	return fake, recentFile
}

func loadRecent(t *testing.T, path string) []string {
	t.Helper()
	s, err := recent.Load(path, zerolog.Nop())
	require.NoError(t, err)
	return s.List()
}

func TestProfileCommand_JSON(t *testing.T) {
	_, recentFile := setupEnv(t)

	out, err := runCmd(t, "", "profile", "octocat")
	require.NoError(t, err)

	var result struct {
		Profile struct {
			Login string `json:"login"`
		} `json:"profile"`
		TopRepos []struct {
			Name string `json:"name"`
		} `json:"topRepos"`
		TotalStats struct {
			Stars int `json:"stars"`
			Forks int `json:"forks"`
		} `json:"totalStats"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "octocat", result.Profile.Login)
	require.Len(t, result.TopRepos, 1)
	assert.Equal(t, "hello-world", result.TopRepos[0].Name)
	assert.Equal(t, 110, result.TotalStats.Stars)
	assert.Equal(t, 52, result.TotalStats.Forks)

	assert.Equal(t, []string{"octocat"}, loadRecent(t, recentFile))
}

func TestProfileCommand_Text(t *testing.T) {
	setupEnv(t)

	out, err := runCmd(t, "", "profile", "octocat", "--format", "text", "--tz", "UTC")

	require.NoError(t, err)
	assert.Contains(t, out, "The Octocat (@octocat)")
	assert.Contains(t, out, "Jan 2024")
	assert.Contains(t, out, "Feb 2024")
}

func TestProfileCommand_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		args        []string
		expectedErr string
	}{
		{name: "unknown user", args: []string{"profile", "ghost"}, expectedErr: "User not found"},
		{name: "bad format", args: []string{"profile", "octocat", "--format", "yaml"}, expectedErr: "unknown format"},
		{name: "negative limit", args: []string{"profile", "octocat", "--limit", "-1"}, expectedErr: "--limit"},
		{name: "bad time zone", args: []string{"profile", "octocat", "--tz", "Mars/Olympus"}, expectedErr: "invalid --tz"},
		{name: "missing username", args: []string{"profile"}, expectedErr: "accepts 1 arg"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, recentFile := setupEnv(t)

			_, err := runCmd(t, "", tc.args...)

			assert.ErrorContains(t, err, tc.expectedErr)
			assert.Empty(t, loadRecent(t, recentFile))
		})
	}
}

func TestRecentCommands(t *testing.T) {
	_, recentFile := setupEnv(t)
	s, err := recent.Load(recentFile, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Add("octocat"))
	require.NoError(t, s.Add("torvalds"))

	out, err := runCmd(t, "", "recent")
	require.NoError(t, err)
	assert.Equal(t, "torvalds\noctocat\n", out)

	_, err = runCmd(t, "", "recent", "remove", "torvalds")
	require.NoError(t, err)
	assert.Equal(t, []string{"octocat"}, loadRecent(t, recentFile))

	_, err = runCmd(t, "", "recent", "clear")
	require.NoError(t, err)

	out, err = runCmd(t, "", "recent", "list")
	require.NoError(t, err)
	assert.Equal(t, "No recent searches\n", out)
}

func TestRecentFileFlagOverridesEnvironment(t *testing.T) {
	setupEnv(t)
	other := filepath.Join(t.TempDir(), "other.json")

	_, err := runCmd(t, "", "profile", "octocat", "--recent-file", other)

	require.NoError(t, err)
	assert.Equal(t, []string{"octocat"}, loadRecent(t, other))
}

func TestInteractiveCommand(t *testing.T) {
	_, recentFile := setupEnv(t)

	out, err := runCmd(t, "octocat\n\n", "interactive", "--format", "text")

	require.NoError(t, err)
	assert.Contains(t, out, "The Octocat (@octocat)")
	assert.Equal(t, []string{"octocat"}, loadRecent(t, recentFile))
}

func TestInteractiveCommand_UnknownUser(t *testing.T) {
	setupEnv(t)

	out, err := runCmd(t, "ghost\n", "interactive")

	require.NoError(t, err)
	assert.Contains(t, out, "ghost: User not found")
}

func TestInteractiveCommand_NewestQueryWins(t *testing.T) {
	for i := 0; i < 20; i++ {
		_, recentFile := setupEnv(t)

		out, err := runCmd(t, "alice\nbob\n", "interactive", "--format", "text")

		require.NoError(t, err)
		assert.Contains(t, out, "bob (@bob)")
		assert.NotContains(t, out, "alice")
		assert.Equal(t, []string{"bob"}, loadRecent(t, recentFile))
	}
}

func TestInteractiveCommand_SubmitCancelsPendingSuggestions(t *testing.T) {
	server, _ := setupEnv(t)

	// The debounce elapses while the bob lookup is still in flight.
	out, err := runCmd(t, "?octo\nbob\n", "interactive", "--format", "text", "--debounce", "10ms")

	require.NoError(t, err)
	assert.Contains(t, out, "bob (@bob)")
	assert.NotContains(t, out, "octocat (User)")
	assert.Zero(t, server.searches.Load())
}

func TestSuggestCommand(t *testing.T) {
	setupEnv(t)

	out, err := runCmd(t, "", "suggest", "octo", "--debounce", "0s")

	require.NoError(t, err)
	assert.Equal(t, "octocat (User)\nocto-org (Organization)\n", out)
}

func TestExamplesCommand(t *testing.T) {
	out, err := runCmd(t, "", "examples")

	require.NoError(t, err)
	for _, name := range exampleProfiles {
		assert.Contains(t, out, "gitmetrics profile "+name)
	}
}
