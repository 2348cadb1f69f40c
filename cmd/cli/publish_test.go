package cli_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/require"
)

const (
	testIntegrationBranchConstant = "develop"
	testAuthorNameConstant        = "Ada Lovelace"
	testFixtureFileNameConstant   = "notes.txt"
	testTrackerTokenConstant      = "tracker-token-5678"
	testStandupPathConstant       = "/rest/api/2/issue/ART-1777/worklog"
)

type fixtureCommit struct {
	message string
	when    time.Time
}

// newFixtureRepository initializes a repository whose develop branch points at the last commit.
func newFixtureRepository(testInstance *testing.T, commits []fixtureCommit) string {
	testInstance.Helper()

	directory := testInstance.TempDir()
	native, initError := git2go.InitRepository(directory, false)
	require.NoError(testInstance, initError)
	defer native.Free()

	if len(commits) == 0 {
		commits = []fixtureCommit{{message: "initial", when: time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)}}
	}

	var headCommit *git2go.Oid
	for commitIndex, commit := range commits {
		contents := fmt.Sprintf("%d %s", commitIndex, commit.message)
		require.NoError(testInstance, os.WriteFile(filepath.Join(directory, testFixtureFileNameConstant), []byte(contents), 0o644))

		index, indexError := native.Index()
		require.NoError(testInstance, indexError)
		require.NoError(testInstance, index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil))
		require.NoError(testInstance, index.Write())
		treeID, treeError := index.WriteTree()
		require.NoError(testInstance, treeError)
		index.Free()

		tree, lookupError := native.LookupTree(treeID)
		require.NoError(testInstance, lookupError)

		var parents []*git2go.Commit
		if headCommit != nil {
			parent, parentError := native.LookupCommit(headCommit)
			require.NoError(testInstance, parentError)
			parents = append(parents, parent)
		}

		signature := &git2go.Signature{Name: testAuthorNameConstant, Email: testAuthorEmailConstant, When: commit.when}
		oid, commitError := native.CreateCommit("HEAD", signature, signature, commit.message, tree, parents...)
		require.NoError(testInstance, commitError)
		tree.Free()
		for _, parent := range parents {
			parent.Free()
		}
		headCommit = oid
	}

	head, lookupError := native.LookupCommit(headCommit)
	require.NoError(testInstance, lookupError)
	defer head.Free()
	branch, branchError := native.CreateBranch(testIntegrationBranchConstant, head, false)
	require.NoError(testInstance, branchError)
	branch.Free()

	return directory
}

type recordingTracker struct {
	mutex          sync.Mutex
	requests       []string
	authorizations []string
	nextID         int
}

func (tracker *recordingTracker) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	tracker.mutex.Lock()
	defer tracker.mutex.Unlock()

	tracker.requests = append(tracker.requests, request.Method+" "+request.URL.Path)
	tracker.authorizations = append(tracker.authorizations, request.Header.Get("Authorization"))
	switch request.Method {
	case http.MethodPost:
		tracker.nextID++
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusCreated)
		fmt.Fprintf(writer, `{"id":"%d"}`, tracker.nextID)
	case http.MethodDelete:
		writer.WriteHeader(http.StatusNoContent)
	default:
		writer.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (tracker *recordingTracker) countRequests(method string, pathPrefix string) int {
	tracker.mutex.Lock()
	defer tracker.mutex.Unlock()

	count := 0
	for _, request := range tracker.requests {
		if strings.HasPrefix(request, method+" "+pathPrefix) {
			count++
		}
	}
	return count
}

func TestPublishAndDeleteMonth(testInstance *testing.T) {
	tracker := &recordingTracker{}
	server := httptest.NewServer(tracker)
	testInstance.Cleanup(server.Close)

	environment := newTestEnvironment(testInstance, server.URL)
	repositoryPath := newFixtureRepository(testInstance, []fixtureCommit{
		{message: "AB-1: design the worklog engine", when: time.Date(2026, time.February, 3, 10, 0, 0, 0, time.UTC)},
		{message: "AB-2: wire the tracker client", when: time.Date(2026, time.February, 12, 11, 0, 0, 0, time.UTC)},
		{message: "AB-1: follow up", when: time.Date(2026, time.February, 20, 16, 0, 0, 0, time.UTC)},
	})

	require.NoError(testInstance, environment.run("", "repo", "add", repositoryPath).err)
	require.NoError(testInstance, environment.run("", "configure", "--tracker-token", testTrackerTokenConstant).err)

	dryRun := environment.run("", "publish", "--year", "2026", "--month", "2", "--vacation=", "--skip=", "--dry-run")
	require.NoError(testInstance, dryRun.err)
	require.Contains(testInstance, dryRun.output, "AB-1")
	require.Contains(testInstance, dryRun.output, "AB-2")
	require.Zero(testInstance, tracker.countRequests(http.MethodPost, ""))

	published := environment.run("", "publish", "--year", "2026", "--month", "2", "--vacation=", "--skip=", "--yes")
	require.NoError(testInstance, published.err)
	require.Equal(testInstance, 40, tracker.countRequests(http.MethodPost, ""))
	require.Equal(testInstance, 20, tracker.countRequests(http.MethodPost, testStandupPathConstant))
	firstTicketCount := tracker.countRequests(http.MethodPost, "/rest/api/2/issue/AB-1/worklog")
	secondTicketCount := tracker.countRequests(http.MethodPost, "/rest/api/2/issue/AB-2/worklog")
	require.Positive(testInstance, firstTicketCount)
	require.Positive(testInstance, secondTicketCount)
	require.Equal(testInstance, 20, firstTicketCount+secondTicketCount)
	require.Contains(testInstance, tracker.authorizations, "Bearer "+testTrackerTokenConstant)

	// branch lookup and fetch for the repository, then the identity lookup.
	require.GreaterOrEqual(testInstance, len(environment.commandRunner.commands), 3)
	require.Contains(testInstance, environment.commandRunner.argumentLines(), "fetch --prune origin develop:develop")

	deleted := environment.run("", "delete", "--year", "2026", "--month", "2", "--yes")
	require.NoError(testInstance, deleted.err)
	require.Equal(testInstance, 40, tracker.countRequests(http.MethodDelete, ""))
	require.Contains(testInstance, deleted.output, "Deleted 40 of 40 worklogs")

	empty := environment.run("", "delete", "--year", "2026", "--month", "2", "--yes")
	require.NoError(testInstance, empty.err)
	require.Contains(testInstance, empty.output, "No published worklogs recorded for February 2026")
}

func TestPublishSkipPullAvoidsGit(testInstance *testing.T) {
	tracker := &recordingTracker{}
	server := httptest.NewServer(tracker)
	testInstance.Cleanup(server.Close)

	environment := newTestEnvironment(testInstance, server.URL)
	repositoryPath := newFixtureRepository(testInstance, []fixtureCommit{
		{message: "AB-7: only ticket", when: time.Date(2026, time.February, 9, 10, 0, 0, 0, time.UTC)},
	})
	require.NoError(testInstance, environment.run("", "repo", "add", repositoryPath).err)

	outcome := environment.run("", "publish", "--year", "2026", "--month", "2", "--vacation=", "--skip=", "--skip-pull", "--dry-run")
	require.NoError(testInstance, outcome.err)
	for _, command := range environment.commandRunner.commands {
		require.NotEqual(testInstance, "fetch", command.Details.Arguments[0])
		require.NotEqual(testInstance, "pull", command.Details.Arguments[0])
	}
	require.Contains(testInstance, outcome.output, "AB-7")
}

func TestPublishExcludesDeletedRepository(testInstance *testing.T) {
	tracker := &recordingTracker{}
	server := httptest.NewServer(tracker)
	testInstance.Cleanup(server.Close)

	environment := newTestEnvironment(testInstance, server.URL)
	deletedPath := newFixtureRepository(testInstance, nil)
	repositoryPath := newFixtureRepository(testInstance, []fixtureCommit{
		{message: "AB-9: survive a deleted checkout", when: time.Date(2026, time.February, 11, 10, 0, 0, 0, time.UTC)},
	})
	require.NoError(testInstance, environment.run("", "repo", "add", deletedPath, repositoryPath).err)
	require.NoError(testInstance, os.RemoveAll(deletedPath))

	outcome := environment.run("", "publish", "--year", "2026", "--month", "2", "--vacation=", "--skip=", "--dry-run")
	require.NoError(testInstance, outcome.err)
	require.Contains(testInstance, outcome.output, "Excluded: ")
	require.Contains(testInstance, outcome.output, deletedPath)
	require.Contains(testInstance, outcome.output, "AB-9")
	for _, command := range environment.commandRunner.commands {
		require.NotEqual(testInstance, deletedPath, command.Details.WorkingDirectory)
	}
}
