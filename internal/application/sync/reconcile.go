package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/domain/shared"
)

// reconcileOps binds one mirrored record type to its remote listing.
// Keys are platform IDs, the only identity both sides share.
type reconcileOps[L any, R any] struct {
	// kind names the record type in log lines, e.g. "page"
	kind string

	localKey  func(*L) int64
	remoteKey func(R) int64

	// create builds a new local record from a remote item
	create func(R) (*L, error)

	// apply copies remote values onto an existing record and reports
	// whether anything changed
	apply func(*L, R) bool

	// refetch reloads the local record for a remote item after a
	// create raced with another writer
	refetch func(ctx context.Context, item R) (*L, error)

	save   func(ctx context.Context, local *L) error
	delete func(ctx context.Context, local *L) error
}

// reconcile makes the local records match a remote listing: records
// absent remotely are deleted, new remote items are created, the rest
// are updated in place. Remote items that cannot be mirrored are
// collected and skipped so one bad item does not abort the run.
// Returns whether anything changed.
func reconcile[L any, R any](ctx context.Context, logger *zap.Logger, locals []*L, remotes []R, ops reconcileOps[L, R]) (bool, []R, error) {
	localByKey := make(map[int64]*L, len(locals))
	for _, local := range locals {
		localByKey[ops.localKey(local)] = local
	}
	remoteKeys := make(map[int64]bool, len(remotes))
	for _, item := range remotes {
		remoteKeys[ops.remoteKey(item)] = true
	}

	changed := false
	var skipped []R

	for _, local := range locals {
		key := ops.localKey(local)
		if remoteKeys[key] {
			continue
		}
		logger.Info("deleting "+ops.kind, zap.Int64(ops.kind+"_id", key))
		if err := ops.delete(ctx, local); err != nil {
			return changed, skipped, fmt.Errorf("deleting %s %d: %w", ops.kind, key, err)
		}
		delete(localByKey, key)
		changed = true
	}

	for _, item := range remotes {
		key := ops.remoteKey(item)
		local, exists := localByKey[key]
		if !exists {
			created, err := reconcileCreate(ctx, logger, item, ops)
			if err != nil {
				var domainErr *shared.DomainError
				if errors.As(err, &domainErr) {
					logger.Error("skipping "+ops.kind,
						zap.Int64(ops.kind+"_id", key),
						zap.Error(err))
					skipped = append(skipped, item)
					continue
				}
				return changed, skipped, err
			}
			localByKey[key] = created
			changed = true
			continue
		}

		if ops.apply(local, item) {
			logger.Info("updating "+ops.kind, zap.Int64(ops.kind+"_id", key))
			if err := ops.save(ctx, local); err != nil {
				return changed, skipped, fmt.Errorf("updating %s %d: %w", ops.kind, key, err)
			}
			changed = true
		} else {
			logger.Debug(ops.kind+" already up to date", zap.Int64(ops.kind+"_id", key))
		}
	}

	return changed, skipped, nil
}

// reconcileCreate inserts the local record for a new remote item. When
// the insert hits a duplicate key, another writer got there first; the
// record is reloaded and updated instead.
func reconcileCreate[L any, R any](ctx context.Context, logger *zap.Logger, item R, ops reconcileOps[L, R]) (*L, error) {
	key := ops.remoteKey(item)

	local, err := ops.create(item)
	if err != nil {
		return nil, err
	}
	ops.apply(local, item)

	logger.Info("creating "+ops.kind, zap.Int64(ops.kind+"_id", key))
	err = ops.save(ctx, local)
	if err == nil {
		return local, nil
	}
	if !errors.Is(err, shared.ErrAlreadyExists) {
		return nil, fmt.Errorf("creating %s %d: %w", ops.kind, key, err)
	}

	logger.Info("create conflict, updating "+ops.kind, zap.Int64(ops.kind+"_id", key))
	local, err = ops.refetch(ctx, item)
	if err != nil {
		return nil, shared.NewDomainError("CONFLICT_RELOAD_FAILED",
			fmt.Sprintf("reloading %s %d after create conflict: %v", ops.kind, key, err))
	}
	if ops.apply(local, item) {
		if err := ops.save(ctx, local); err != nil {
			return nil, fmt.Errorf("updating %s %d: %w", ops.kind, key, err)
		}
	}
	return local, nil
}

// skippedPayload renders the remote items a reconciliation run could
// not mirror, for the admin alert
func skippedPayload[R any](items []R) string {
	var b strings.Builder
	for _, item := range items {
		data, err := json.MarshalIndent(item, "", "  ")
		if err != nil {
			fmt.Fprintf(&b, "%+v\n", item)
			continue
		}
		b.Write(data)
		b.WriteString("\n")
	}
	return b.String()
}
