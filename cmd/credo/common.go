package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/metalagman/credo/internal/config"
	"github.com/metalagman/credo/internal/draft"
	"github.com/metalagman/credo/internal/ledger"
	"github.com/metalagman/credo/internal/requirements"
	"github.com/metalagman/credo/internal/session"
)

func openLedger(cfg config.Config) (*sql.DB, func(), error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, func() {}, fmt.Errorf("create output dir: %w", err)
	}
	db, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		return nil, func() {}, err
	}
	return db, func() { _ = db.Close() }, nil
}

func openDraftStore(cfg config.Config) (*draft.Store, error) {
	return draft.NewStore(cfg.DraftPath())
}

// sessionHeader builds the session header from flags, falling back to the
// header already persisted in the draft for keys the user did not pass.
func sessionHeader(d draft.Draft, modelType, portfolio, purpose string) session.Header {
	h := session.Header{ModelType: modelType, Portfolio: portfolio, Purpose: purpose}
	if h.ModelType == "" {
		h.ModelType = headerString(d, "model_type")
	}
	if h.Portfolio == "" {
		h.Portfolio = headerString(d, "portfolio")
	}
	if h.Purpose == "" {
		h.Purpose = headerString(d, "purpose")
	}
	return h
}

func headerString(d draft.Draft, key string) string {
	if v, ok := d.Header[key].(string); ok {
		return v
	}
	return ""
}

// resumeSession resolves the requirement set for the header and replays the
// draft's collected answers into a fresh tracker. A session id already
// stamped into the draft is reused so log lines correlate across invocations.
func resumeSession(cfg config.Config, d draft.Draft, h session.Header) (session.Session, *session.Tracker, error) {
	loader := requirements.NewLoader(cfg.RequirementsPath)
	set, err := loader.Resolve(h.Purpose, h.ModelType)
	if err != nil {
		return session.Session{}, nil, err
	}
	sess := session.New(h)
	if d.Meta != nil && d.Meta.SessionID != "" {
		if id, err := uuid.Parse(d.Meta.SessionID); err == nil {
			sess.ID = id
		}
	}
	tracker := session.NewTracker(set)
	tracker.Replay(d.UserSpecs)
	return sess, tracker, nil
}

// writeSavepoint writes a timestamped copy of the draft next to it.
func writeSavepoint(drafts *draft.Store, d draft.Draft) (string, error) {
	path := drafts.SavePointPath(time.Now())
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode savepoint: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write savepoint %s: %w", path, err)
	}
	return path, nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
