// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/songatlas/internal/platform/apperr"
	"github.com/taibuivan/songatlas/internal/platform/ctxutil"
	"github.com/taibuivan/songatlas/pkg/pointer"
)

// # Guarded Taxa

// Taxon is a taxonomy entity whose delete is guarded. Only genres and funds
// are guarded; geography deletes are left to the database constraints.
type Taxon string

const (
	TaxonGenre Taxon = "genre"
	TaxonFund  Taxon = "fund"
)

// Entity returns the mutation entity announced after a delete.
func (t Taxon) Entity() Entity {
	if t == TaxonFund {
		return EntityFund
	}
	return EntityGenre
}

func (t Taxon) label() string {
	if t == TaxonFund {
		return "Fund"
	}
	return "Genre"
}

// BlockedDelete is attached to the Conflict returned for a refused delete.
type BlockedDelete struct {
	Entity         Taxon    `json:"entity"`
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	BlockingTitles []string `json:"blocking_titles"`
	BlockingTotal  int      `json:"blocking_total"`
	Truncated      bool     `json:"truncated"`
}

// Message renders the human-readable conflict description.
func (b BlockedDelete) Message() string {
	message := fmt.Sprintf("Cannot delete %s %q because songs are linked: %s",
		b.Entity, b.Name, strings.Join(b.BlockingTitles, ", "))
	if rest := b.BlockingTotal - len(b.BlockingTitles); rest > 0 {
		message += fmt.Sprintf(" (and %d more)", rest)
	}
	return message
}

// # Guard

// Guard refuses to delete a genre or fund that songs still reference, and
// invalidates the cache once a delete commits.
type Guard struct {
	repo         TaxonomyRepository
	invalidator  *Invalidator
	titleLimit   int
	queryTimeout time.Duration
}

// NewGuard creates a guard listing at most titleLimit blocking titles.
func NewGuard(repo TaxonomyRepository, invalidator *Invalidator, titleLimit int, queryTimeout time.Duration) *Guard {
	return &Guard{
		repo:         repo,
		invalidator:  invalidator,
		titleLimit:   titleLimit,
		queryTimeout: queryTimeout,
	}
}

/*
Delete removes a genre or fund unless any song references it.

Every song counts, active or not, education or public. A reference created
between the check and the delete is caught by the foreign key and reported as
the same Conflict. The cache is invalidated only after the delete commits,
on a context detached from the caller so a dropped client cannot skip it.

Parameters:
  - ctx: context.Context
  - taxon: Taxon
  - id: int

Returns:
  - error: NotFound, Conflict (with [BlockedDelete] meta), Timeout or Internal
*/
func (guard *Guard) Delete(ctx context.Context, taxon Taxon, id int) error {
	queryCtx, cancel := context.WithTimeout(ctx, guard.queryTimeout)
	defer cancel()

	// 1. The target must exist
	name, err := guard.repo.FindTaxon(queryCtx, taxon, id)
	if err != nil {
		return err
	}

	// 2. Refuse while songs reference it
	titles, total, err := guard.repo.BlockingSongs(queryCtx, taxon, id, guard.titleLimit)
	if err != nil {
		return err
	}
	if total > 0 {
		return blockedConflict(BlockedDelete{
			Entity:         taxon,
			ID:             id,
			Name:           name,
			BlockingTitles: titles,
			BlockingTotal:  total,
			Truncated:      total > len(titles),
		})
	}

	// 3. Delete; the foreign key still wins a race with a concurrent link
	if err := guard.repo.DeleteTaxon(queryCtx, taxon, id); err != nil {
		if appErr := apperr.As(err); appErr != nil && appErr.HTTPStatus == http.StatusConflict {
			blocked := BlockedDelete{Entity: taxon, ID: id, Name: name, BlockingTitles: []string{}}

			// Name the songs that won the race when they are visible now
			if titles, total, err := guard.repo.BlockingSongs(queryCtx, taxon, id, guard.titleLimit); err == nil && total > 0 {
				blocked.BlockingTitles = titles
				blocked.BlockingTotal = total
				blocked.Truncated = total > len(titles)
			}
			return blockedConflict(blocked)
		}
		return err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "taxon_deleted",
		slog.String("entity", string(taxon)),
		slog.Int("id", id),
	)

	// 4. Best-effort invalidation after commit
	detached, cancelDetached := ctxutil.Detach(ctx, guard.queryTimeout)
	defer cancelDetached()

	_ = guard.invalidator.Apply(detached, MutationEvent{
		Entity:    taxon.Entity(),
		Operation: OperationDelete,
		ID:        pointer.To(id),
	})

	return nil
}

func blockedConflict(blocked BlockedDelete) *apperr.AppError {
	message := blocked.Message()
	if len(blocked.BlockingTitles) == 0 {
		message = fmt.Sprintf("Cannot delete %s %q because songs were linked to it meanwhile", blocked.Entity, blocked.Name)
	}
	return apperr.Conflict(message).WithMeta(blocked)
}
