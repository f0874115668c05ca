// Package groups maps a caller's destination-side group membership to the
// equivalent group in the source project, for subject visibility filtering.
package groups

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// ErrGroupNotFound is returned by repositories when a named group doesn't
// exist in a project.
var ErrGroupNotFound = errors.New("group not found")

// Kind discriminates the filter outcomes.
type Kind int

const (
	// NoFilter means results are not restricted by group.
	NoFilter Kind = iota
	// SourceGroup restricts results to subjects in the resolved source group.
	SourceGroup
	// NoMatch means the caller's group has no counterpart in the source
	// project. Callers must return zero records, never unfiltered results.
	NoMatch
)

// Filter is the outcome of group resolution.
type Filter struct {
	Kind    Kind
	GroupID int64
}

// Repository looks up group membership and group names.
type Repository interface {
	// UserGroupName returns the name of the user's group in a project, or
	// "" when the user is not in a group.
	UserGroupName(ctx context.Context, projectID int64, username string) (string, error)
	// GroupIDByName returns the id of a project's group with the given
	// name, or ErrGroupNotFound.
	GroupIDByName(ctx context.Context, projectID int64, name string) (int64, error)
}

// Resolver resolves the group filter for a request.
type Resolver struct {
	groups Repository
	logger *slog.Logger
}

// NewResolver creates a group filter resolver.
func NewResolver(groups Repository, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{groups: groups, logger: logger}
}

// Resolve determines the filter for a caller. When filtering is disabled for
// the destination project, or the caller has no destination group, results
// are unrestricted. Otherwise the source project must contain a group with
// the exact same name; a missing counterpart fails closed.
func (r *Resolver) Resolve(ctx context.Context, destProjectID, sourceProjectID int64, username string, enabled bool) (Filter, error) {
	if !enabled || username == "" {
		return Filter{Kind: NoFilter}, nil
	}

	name, err := r.groups.UserGroupName(ctx, destProjectID, username)
	if err != nil {
		return Filter{}, err
	}
	if name == "" {
		return Filter{Kind: NoFilter}, nil
	}

	id, err := r.groups.GroupIDByName(ctx, sourceProjectID, name)
	if errors.Is(err, ErrGroupNotFound) {
		r.logger.Debug("no matching source group", "group", name, "source_project", sourceProjectID)
		return Filter{Kind: NoMatch}, nil
	}
	if err != nil {
		return Filter{}, err
	}
	return Filter{Kind: SourceGroup, GroupID: id}, nil
}
