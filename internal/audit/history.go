// Ludopanel - Genre Specialization Panels for Game Developers and Publishers
// Copyright 2026 pipeton8
// SPDX-License-Identifier: MIT
// https://github.com/pipeton8/ludopanel

package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const (
	// historyKeyPrefix namespaces run reports in the store.
	historyKeyPrefix = "audit:run:"

	// latestKey points at the most recent run report.
	latestKey = "audit:latest"
)

// History persists run reports across pipeline invocations.
type History interface {
	// Save persists a run report.
	Save(ctx context.Context, report *RunReport) error

	// Load retrieves a report by run ID. Returns nil, nil if absent.
	Load(ctx context.Context, runID string) (*RunReport, error)

	// Latest retrieves the most recently saved report. Returns nil, nil if
	// no run has been recorded.
	Latest(ctx context.Context) (*RunReport, error)

	// Close releases the underlying store.
	Close() error
}

// BadgerHistory implements History using BadgerDB.
// Keeping past audit reports queryable lets a failing run be compared with
// the last clean one without digging through log files.
type BadgerHistory struct {
	db *badger.DB
}

// NewBadgerHistory opens (or creates) the history store at the given path.
func NewBadgerHistory(path string) (*BadgerHistory, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return &BadgerHistory{db: db}, nil
}

// Save persists the report under its run ID and updates the latest pointer.
func (h *BadgerHistory) Save(_ context.Context, report *RunReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal run report: %w", err)
	}

	return h.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(historyKeyPrefix+report.RunID), data); err != nil {
			return err
		}
		return txn.Set([]byte(latestKey), []byte(report.RunID))
	})
}

// Load retrieves a report by run ID. Returns nil, nil if absent.
func (h *BadgerHistory) Load(_ context.Context, runID string) (*RunReport, error) {
	var report *RunReport

	err := h.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(historyKeyPrefix + runID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			report = &RunReport{}
			return json.Unmarshal(val, report)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load run report %s: %w", runID, err)
	}

	return report, nil
}

// Latest retrieves the most recently saved report.
func (h *BadgerHistory) Latest(ctx context.Context) (*RunReport, error) {
	var latestID string

	err := h.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(latestKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			latestID = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load latest run pointer: %w", err)
	}

	if latestID == "" {
		return nil, nil
	}
	return h.Load(ctx, latestID)
}

// Close releases the badger store.
func (h *BadgerHistory) Close() error {
	return h.db.Close()
}
