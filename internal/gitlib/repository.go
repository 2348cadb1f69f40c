package gitlib

import (
	"errors"
	"fmt"
	"time"

	git2go "github.com/libgit2/git2go/v34"
)

const (
	openRepositoryTemplateConstant = "open repository %s: %w"
	lookupBranchTemplateConstant   = "lookup branch %s: %w"
	branchNotFoundTemplateConstant = "%w: %s"
	createWalkTemplateConstant     = "create revwalk: %w"
	pushWalkTemplateConstant       = "push branch %s to revwalk: %w"
	iterateWalkTemplateConstant    = "walk branch %s: %w"
)

// ErrBranchNotFound indicates that the requested local branch does not exist.
var ErrBranchNotFound = errors.New("branch not found")

// Commit is the subset of commit metadata the collector consumes.
// When carries the committer timestamp, the clock the walk is sorted by.
type Commit struct {
	Hash        string
	AuthorName  string
	AuthorEmail string
	When        time.Time
	Message     string
}

// Repository wraps a libgit2 repository handle.
type Repository struct {
	repository *git2go.Repository
	path       string
}

// OpenRepository opens the git repository at path.
func OpenRepository(path string) (*Repository, error) {
	repository, openError := git2go.OpenRepository(path)
	if openError != nil {
		return nil, fmt.Errorf(openRepositoryTemplateConstant, path, openError)
	}
	return &Repository{repository: repository, path: path}, nil
}

// Path returns the path the repository was opened from.
func (repository *Repository) Path() string {
	return repository.path
}

// Close releases the underlying libgit2 resources.
func (repository *Repository) Close() {
	if repository.repository != nil {
		repository.repository.Free()
		repository.repository = nil
	}
}

// WalkBranch visits commits reachable from the local branch, newest first by commit time.
// The walk stops early when visit returns false.
func (repository *Repository) WalkBranch(branchName string, visit func(Commit) bool) error {
	branch, lookupError := repository.repository.LookupBranch(branchName, git2go.BranchLocal)
	if lookupError != nil {
		if git2go.IsErrorCode(lookupError, git2go.ErrorCodeNotFound) {
			return fmt.Errorf(branchNotFoundTemplateConstant, ErrBranchNotFound, branchName)
		}
		return fmt.Errorf(lookupBranchTemplateConstant, branchName, lookupError)
	}
	defer branch.Free()

	walk, walkError := repository.repository.Walk()
	if walkError != nil {
		return fmt.Errorf(createWalkTemplateConstant, walkError)
	}
	defer walk.Free()

	if pushError := walk.Push(branch.Target()); pushError != nil {
		return fmt.Errorf(pushWalkTemplateConstant, branchName, pushError)
	}
	walk.Sorting(git2go.SortTime)

	iterateError := walk.Iterate(func(nativeCommit *git2go.Commit) bool {
		return visit(convertCommit(nativeCommit))
	})
	if iterateError != nil {
		return fmt.Errorf(iterateWalkTemplateConstant, branchName, iterateError)
	}
	return nil
}

func convertCommit(nativeCommit *git2go.Commit) Commit {
	author := nativeCommit.Author()
	committer := nativeCommit.Committer()
	return Commit{
		Hash:        nativeCommit.Id().String(),
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		When:        committer.When,
		Message:     nativeCommit.Message(),
	}
}
